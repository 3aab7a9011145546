package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the ethics-status MCP prompt.
// It instructs the AI to read and present the current submission state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("ethics-status",
		mcp.WithPromptDescription(
			"Check the current state of your ethics submission. Shows "+
				"per-section completion, compliance verdicts, and what is "+
				"still outstanding.",
		),
	)
}

// Handle processes the ethics-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Ethics Submission Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `ethics_progress` and `ethics_checklist` to check my submission.\n\n" +
						"Then:\n" +
						"1. Show me the per-section completion in a clear, visual format\n" +
						"2. Highlight questions with partially-compliant or non-compliant verdicts\n" +
						"3. List what's still outstanding (unanswered questions, missing documents)\n" +
						"4. Tell me exactly what I should do next",
				),
			},
		},
	}, nil
}
