package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// DiscardTool handles the ethics_discard MCP tool.
// It abandons the active submission so a new one can start.
type DiscardTool struct {
	sessions Sessions
}

// NewDiscardTool creates a DiscardTool with the given session manager.
func NewDiscardTool(sessions Sessions) *DiscardTool {
	return &DiscardTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *DiscardTool) Definition() mcp.Tool {
	return mcp.NewTool("ethics_discard",
		mcp.WithDescription(
			"Discard the active ethics submission. All answers, attached "+
				"documents, and verdicts are dropped. Use this to change the "+
				"research context: discard, then call ethics_start again.",
		),
	)
}

// Handle processes the ethics_discard tool call.
func (t *DiscardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.sessions.Discard(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(
		"Submission discarded. Call `ethics_start` to begin a new one.",
	), nil
}
