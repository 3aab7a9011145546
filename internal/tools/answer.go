package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Jgam2/EthicsPoC/internal/schema"
)

// AnswerTool handles the ethics_answer MCP tool.
// It records the researcher's answer to one checklist question.
type AnswerTool struct {
	sessions  Sessions
	checklist *schema.Checklist
}

// NewAnswerTool creates an AnswerTool with the given session manager and
// checklist schema.
func NewAnswerTool(sessions Sessions, checklist *schema.Checklist) *AnswerTool {
	return &AnswerTool{sessions: sessions, checklist: checklist}
}

// Definition returns the MCP tool definition for registration.
func (t *AnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("ethics_answer",
		mcp.WithDescription(
			"Record the answer to a checklist question. Re-answering replaces "+
				"the previous text and invalidates any stored compliance verdict "+
				"for that question — run ethics_analyze again afterwards.",
		),
		mcp.WithString("question_id",
			mcp.Required(),
			mcp.Description("The checklist question being answered (see ethics_checklist)."),
		),
		mcp.WithString("answer",
			mcp.Required(),
			mcp.Description("The answer text. Substantive content, not a placeholder."),
		),
	)
}

// Handle processes the ethics_answer tool call.
func (t *AnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	questionID := req.GetString("question_id", "")
	answer := req.GetString("answer", "")

	sub, errResult := currentSubmission(t.sessions)
	if errResult != nil {
		return errResult, nil
	}

	if err := sub.State.SubmitAnswer(questionID, answer); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	q := t.checklist.Question(questionID)
	var next strings.Builder
	next.WriteString("Answer recorded")
	if strings.TrimSpace(answer) == "" {
		next.WriteString(" (blank — the question counts as unanswered)")
	}
	next.WriteString(".")
	if q.RequiresDocument {
		if _, ok := sub.State.DocumentHandle(questionID); !ok {
			fmt.Fprintf(&next, " This question also needs a %s — attach it with `ethics_attach`.", q.DocumentType)
		}
	}
	next.WriteString(" Run `ethics_analyze` to get a compliance verdict.")

	return mcp.NewToolResultText(fmt.Sprintf("**%s** — %s\n\n%s", q.ID, q.Prompt, next.String())), nil
}
