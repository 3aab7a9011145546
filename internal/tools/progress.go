package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Jgam2/EthicsPoC/internal/progress"
	"github.com/Jgam2/EthicsPoC/internal/schema"
)

// ProgressTool handles the ethics_progress MCP tool.
// It reports per-section and overall completion for the active submission.
type ProgressTool struct {
	sessions  Sessions
	checklist *schema.Checklist
	weights   progress.Weights
}

// NewProgressTool creates a ProgressTool with the given session manager,
// checklist schema, and overall-progress weights.
func NewProgressTool(sessions Sessions, checklist *schema.Checklist, weights progress.Weights) *ProgressTool {
	return &ProgressTool{sessions: sessions, checklist: checklist, weights: weights}
}

// Definition returns the MCP tool definition for registration.
func (t *ProgressTool) Definition() mcp.Tool {
	return mcp.NewTool("ethics_progress",
		mcp.WithDescription(
			"Show submission progress: per-section completion of required "+
				"questions, average compliance scores, and the blended overall "+
				"figure. Sections with no analyzed questions report no average "+
				"rather than zero.",
		),
	)
}

// Handle processes the ethics_progress tool call.
func (t *ProgressTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sub, errResult := currentSubmission(t.sessions)
	if errResult != nil {
		return errResult, nil
	}

	snap := progress.ApplicationProgress(t.checklist, &sub.Research, sub.State)
	reviewReached := snap.Completion >= 1.0
	overall := t.weights.Overall(&sub.Research, snap, reviewReached)

	var out strings.Builder
	fmt.Fprintf(&out, "# Submission Progress\n\n**Submission:** `%s`\n\n", sub.ID)
	fmt.Fprintf(&out, "**Overall:** %d%%\n", pct(overall))
	fmt.Fprintf(&out, "**Checklist completion:** %d%%\n", pct(snap.Completion))
	fmt.Fprintf(&out, "**Context completeness:** %d%%\n", pct(sub.Research.Completeness()))
	if snap.AvgScore != nil {
		fmt.Fprintf(&out, "**Average compliance score:** %.0f/100\n", *snap.AvgScore)
	} else {
		out.WriteString("**Average compliance score:** not analyzed yet\n")
	}

	out.WriteString("\n| Section | Required | Completion | Avg Score |\n")
	out.WriteString("|---------|----------|------------|-----------|\n")
	for _, sec := range snap.Sections {
		avg := "—"
		if sec.AvgScore != nil {
			avg = fmt.Sprintf("%.0f", *sec.AvgScore)
		}
		fmt.Fprintf(&out, "| %s | %d/%d | %d%% | %s |\n",
			sec.Title, sec.RequiredComplete, sec.RequiredTotal, pct(sec.Completion), avg)
	}

	if reviewReached {
		out.WriteString("\nAll required questions are complete. Assemble the submission with `ethics_report`.")
	}

	return mcp.NewToolResultText(out.String()), nil
}

// pct rounds a 0–1 fraction to a whole percentage.
func pct(f float64) int {
	return int(f*100 + 0.5)
}
