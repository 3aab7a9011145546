package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ClearTool handles the ethics_clear MCP tool.
// It wipes one question back to its untouched state.
type ClearTool struct {
	sessions Sessions
	docs     DocumentStore
}

// NewClearTool creates a ClearTool with the given session manager and
// document store.
func NewClearTool(sessions Sessions, docs DocumentStore) *ClearTool {
	return &ClearTool{sessions: sessions, docs: docs}
}

// Definition returns the MCP tool definition for registration.
func (t *ClearTool) Definition() mcp.Tool {
	return mcp.NewTool("ethics_clear",
		mcp.WithDescription(
			"Clear a checklist question: remove its answer, detach and delete "+
				"its document, and drop its verdict. Clearing an already-clear "+
				"question is a no-op.",
		),
		mcp.WithString("question_id",
			mcp.Required(),
			mcp.Description("The checklist question to reset."),
		),
	)
}

// Handle processes the ethics_clear tool call.
func (t *ClearTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	questionID := req.GetString("question_id", "")

	sub, errResult := currentSubmission(t.sessions)
	if errResult != nil {
		return errResult, nil
	}

	handle, hadDoc := sub.State.DocumentHandle(questionID)

	if err := sub.State.Clear(questionID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if hadDoc {
		_ = t.docs.Delete(handle)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Question **%s** cleared.", questionID)), nil
}
