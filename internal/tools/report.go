package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Jgam2/EthicsPoC/internal/report"
	"github.com/Jgam2/EthicsPoC/internal/schema"
)

// ReportTool handles the ethics_report MCP tool.
// It assembles the full submission report for committee review.
type ReportTool struct {
	sessions  Sessions
	checklist *schema.Checklist
}

// NewReportTool creates a ReportTool with the given session manager and
// checklist schema.
func NewReportTool(sessions Sessions, checklist *schema.Checklist) *ReportTool {
	return &ReportTool{sessions: sessions, checklist: checklist}
}

// Definition returns the MCP tool definition for registration.
func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("ethics_report",
		mcp.WithDescription(
			"Assemble the submission report: research context, every visible "+
				"question with its answer and verdict, progress figures, and a "+
				"list of outstanding items. Assembling does not require the "+
				"submission to be complete — outstanding items are listed so the "+
				"researcher knows what is left. Optionally writes the report to disk.",
		),
		mcp.WithString("output_path",
			mcp.Description("If set, the markdown report is also written to this file."),
		),
	)
}

// Handle processes the ethics_report tool call.
func (t *ReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	outputPath := req.GetString("output_path", "")

	sub, errResult := currentSubmission(t.sessions)
	if errResult != nil {
		return errResult, nil
	}

	rep := report.Assemble(t.checklist, &sub.Research, sub.State)
	md := rep.RenderMarkdown()

	if outputPath != "" {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("creating report directory: %v", err)), nil
		}
		if err := os.WriteFile(outputPath, []byte(md), 0o644); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("writing report: %v", err)), nil
		}
		md += fmt.Sprintf("\n\n---\n\nReport written to `%s`.", outputPath)
	}

	return mcp.NewToolResultText(md), nil
}
