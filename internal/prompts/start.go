// Package prompts implements MCP prompt handlers for the ethics
// submission workflow.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the ethics-start MCP prompt.
// It guides the AI through opening a submission and working the checklist.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("ethics-start",
		mcp.WithPromptDescription(
			"Start an ethics committee submission. Guides you through "+
				"capturing the research context, answering the applicable "+
				"checklist questions, attaching supporting documents, and "+
				"running compliance analysis.",
		),
		mcp.WithArgument("title",
			mcp.ArgumentDescription("Working title of the research project"),
		),
	)
}

// Handle processes the ethics-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	title := "my research project"
	if args := req.Params.Arguments; args != nil {
		if t, ok := args["title"]; ok && t != "" {
			title = t
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Start ethics submission: %s", title),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to prepare an ethics committee submission for '%s'.\n\n"+
						"Please:\n"+
						"1. Interview me about the research context: title, field, description, "+
						"methodology, participants, timeline — and the four flags "+
						"(human subjects, gene technology, radiological procedures, Indigenous research)\n"+
						"2. Call `ethics_start` with what I tell you — the flags decide which checklist sections apply\n"+
						"3. Call `ethics_checklist` and walk me through the visible questions one at a time\n"+
						"4. Record my answers with `ethics_answer`; where a question needs a document, "+
						"ask me for the file path and call `ethics_attach`\n"+
						"5. After each question is complete, run `ethics_analyze` and summarize the verdict — "+
						"if it comes back partially-compliant or non-compliant, help me improve the answer\n"+
						"6. Use `ethics_progress` to show how far along we are, and `ethics_report` at the end\n\n"+
						"Never call a tool with placeholder text — record my actual answers.",
					title,
				)),
			},
		},
	}, nil
}
