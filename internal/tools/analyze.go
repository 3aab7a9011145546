package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Jgam2/EthicsPoC/internal/analysis"
	"github.com/Jgam2/EthicsPoC/internal/checklist"
)

// AnalyzeTool handles the ethics_analyze MCP tool.
// It runs the compliance analyzer over one question.
type AnalyzeTool struct {
	sessions Sessions
}

// NewAnalyzeTool creates an AnalyzeTool with the given session manager.
func NewAnalyzeTool(sessions Sessions) *AnalyzeTool {
	return &AnalyzeTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("ethics_analyze",
		mcp.WithDescription(
			"Run the compliance analysis for one checklist question and store "+
				"the verdict. Questions with an attached document are analyzed "+
				"against the document text; answer-only questions against the "+
				"answer. If the question's answer or document changes while the "+
				"analysis is running, the stale result is discarded.",
		),
		mcp.WithString("question_id",
			mcp.Required(),
			mcp.Description("The checklist question to analyze."),
		),
	)
}

// Handle processes the ethics_analyze tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	questionID := req.GetString("question_id", "")

	sub, errResult := currentSubmission(t.sessions)
	if errResult != nil {
		return errResult, nil
	}

	verdict, err := sub.State.RequestAnalysis(ctx, questionID)
	if err != nil {
		if errors.Is(err, checklist.ErrStaleAnalysis) {
			return mcp.NewToolResultError(
				"The question changed while the analysis was running; the result " +
					"was discarded. Run ethics_analyze again.",
			), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	var out strings.Builder
	fmt.Fprintf(&out, "# Compliance Verdict — %s\n\n", questionID)
	fmt.Fprintf(&out, "**Status:** %s\n", verdict.Status)
	if verdict.Status != analysis.StatusUnanalyzed {
		fmt.Fprintf(&out, "**Score:** %d/100\n", verdict.Score)
	}
	if verdict.Analysis != "" {
		fmt.Fprintf(&out, "\n%s\n", verdict.Analysis)
	}
	if len(verdict.MissingElements) > 0 {
		out.WriteString("\n## Missing Elements\n\n")
		for _, m := range verdict.MissingElements {
			fmt.Fprintf(&out, "- %s\n", m)
		}
	}
	if len(verdict.Recommendations) > 0 {
		out.WriteString("\n## Recommendations\n\n")
		for _, r := range verdict.Recommendations {
			fmt.Fprintf(&out, "- %s\n", r)
		}
	}

	return mcp.NewToolResultText(out.String()), nil
}
