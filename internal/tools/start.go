package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Jgam2/EthicsPoC/internal/research"
	"github.com/Jgam2/EthicsPoC/internal/schema"
)

// StartTool handles the ethics_start MCP tool.
// It captures the research context and opens a new submission.
type StartTool struct {
	sessions  Sessions
	checklist *schema.Checklist
}

// NewStartTool creates a StartTool with the given session manager and
// checklist schema.
func NewStartTool(sessions Sessions, checklist *schema.Checklist) *StartTool {
	return &StartTool{sessions: sessions, checklist: checklist}
}

// Definition returns the MCP tool definition for registration.
func (t *StartTool) Definition() mcp.Tool {
	return mcp.NewTool("ethics_start",
		mcp.WithDescription(
			"Start a new ethics submission. Captures the research context "+
				"(project metadata plus the flags that decide which checklist "+
				"sections apply) and opens the checklist. The context is frozen "+
				"once the submission starts — to change it, discard and start over. "+
				"Only one submission is active at a time.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Project title."),
		),
		mcp.WithString("field",
			mcp.Description("Research field or discipline."),
		),
		mcp.WithString("context",
			mcp.Description("Institutional or collaborative context of the project."),
		),
		mcp.WithString("description",
			mcp.Description("What the project investigates and why."),
		),
		mcp.WithString("methodology",
			mcp.Description("How the research will be conducted."),
		),
		mcp.WithString("participants",
			mcp.Description("Who takes part and how they are recruited."),
		),
		mcp.WithString("timeline",
			mcp.Description("Expected duration and key milestones."),
		),
		mcp.WithBoolean("involves_human_subjects",
			mcp.Description("True if the research involves human participants."),
		),
		mcp.WithBoolean("uses_gene_technology",
			mcp.Description("True if the research uses gene technology or GMOs."),
		),
		mcp.WithBoolean("uses_radiological_procedures",
			mcp.Description("True if the research uses ionizing radiation or radiological procedures."),
		),
		mcp.WithBoolean("involves_indigenous_research",
			mcp.Description("True if the research involves Indigenous peoples or communities."),
		),
	)
}

// Handle processes the ethics_start tool call.
func (t *StartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rc := research.Context{
		Title:        req.GetString("title", ""),
		Field:        req.GetString("field", ""),
		Context:      req.GetString("context", ""),
		Description:  req.GetString("description", ""),
		Methodology:  req.GetString("methodology", ""),
		Participants: req.GetString("participants", ""),
		Timeline:     req.GetString("timeline", ""),

		InvolvesHumanSubjects:      req.GetBool("involves_human_subjects", false),
		UsesGeneTechnology:         req.GetBool("uses_gene_technology", false),
		UsesRadiologicalProcedures: req.GetBool("uses_radiological_procedures", false),
		InvolvesIndigenousResearch: req.GetBool("involves_indigenous_research", false),
	}

	if strings.TrimSpace(rc.Title) == "" {
		return mcp.NewToolResultError("'title' is required — name the research project"), nil
	}

	sub, err := t.sessions.Start(rc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sections := t.checklist.VisibleSections(&sub.Research)
	var sectionList strings.Builder
	total := 0
	for _, sec := range sections {
		fmt.Fprintf(&sectionList, "- **%s** (%d questions)\n", sec.Title, len(sec.Questions))
		total += len(sec.Questions)
	}

	response := fmt.Sprintf(
		"# Submission Started\n\n"+
			"**ID:** `%s`\n"+
			"**Title:** %s\n"+
			"**Context completeness:** %d%%\n\n"+
			"## Applicable Sections (%d questions)\n\n"+
			"%s\n"+
			"## Next Step\n\n"+
			"Call `ethics_checklist` to see the questions, then answer them "+
			"with `ethics_answer` and attach supporting documents with `ethics_attach`.",
		sub.ID, rc.Title, int(rc.Completeness()*100+0.5),
		total, sectionList.String(),
	)

	return mcp.NewToolResultText(response), nil
}
