package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Jgam2/EthicsPoC/internal/schema"
)

// ChecklistTool handles the ethics_checklist MCP tool.
// It lists the visible sections and questions with their current state.
type ChecklistTool struct {
	sessions  Sessions
	checklist *schema.Checklist
}

// NewChecklistTool creates a ChecklistTool with the given session manager
// and checklist schema.
func NewChecklistTool(sessions Sessions, checklist *schema.Checklist) *ChecklistTool {
	return &ChecklistTool{sessions: sessions, checklist: checklist}
}

// Definition returns the MCP tool definition for registration.
func (t *ChecklistTool) Definition() mcp.Tool {
	return mcp.NewTool("ethics_checklist",
		mcp.WithDescription(
			"Show the checklist for the active submission: every visible "+
				"section and question, with answer state, attached documents, "+
				"and compliance verdicts. Sections that don't apply to the "+
				"research context are omitted.",
		),
	)
}

// Handle processes the ethics_checklist tool call.
func (t *ChecklistTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sub, errResult := currentSubmission(t.sessions)
	if errResult != nil {
		return errResult, nil
	}

	var out strings.Builder
	fmt.Fprintf(&out, "# Ethics Checklist\n\n**Submission:** `%s`\n", sub.ID)

	for _, sec := range t.checklist.VisibleSections(&sub.Research) {
		fmt.Fprintf(&out, "\n## %s\n\n", sec.Title)
		if sec.Description != "" {
			fmt.Fprintf(&out, "%s\n\n", sec.Description)
		}

		out.WriteString("| Question | Required | Answer | Document | Verdict |\n")
		out.WriteString("|----------|----------|--------|----------|---------|\n")
		for _, q := range sec.Questions {
			st := sub.State.Status(q.ID)

			required := "optional"
			if q.Required {
				required = "required"
			}

			answer := "⬜"
			if st.Answered {
				answer = "✅"
			}

			document := "—"
			if q.RequiresDocument {
				document = "⬜ " + q.DocumentType
				if st.HasDocument {
					document = "✅ " + q.DocumentType
				}
			}

			fmt.Fprintf(&out, "| **%s** %s | %s | %s | %s | %s |\n",
				q.ID, q.Prompt, required, answer, document, verdictLine(st.Verdict))
		}
	}

	out.WriteString(
		"\n## Next Step\n\n" +
			"Answer questions with `ethics_answer`, attach documents with " +
			"`ethics_attach`, then run `ethics_analyze` per question. " +
			"`ethics_progress` shows completion; `ethics_report` assembles " +
			"the final submission report.",
	)

	return mcp.NewToolResultText(out.String()), nil
}
