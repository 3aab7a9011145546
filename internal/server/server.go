// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Jgam2/EthicsPoC/internal/analysis"
	"github.com/Jgam2/EthicsPoC/internal/config"
	"github.com/Jgam2/EthicsPoC/internal/docstore"
	"github.com/Jgam2/EthicsPoC/internal/prompts"
	"github.com/Jgam2/EthicsPoC/internal/resources"
	"github.com/Jgam2/EthicsPoC/internal/schema"
	"github.com/Jgam2/EthicsPoC/internal/session"
	"github.com/Jgam2/EthicsPoC/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the document store's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call.
func New(cfg config.Config) (*server.MCPServer, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, noop, err
	}

	// --- Load the checklist schema ---
	//
	// A malformed checklist is fatal: the server refuses to start rather
	// than serve a checklist whose rules reference unknown context fields.

	var (
		checklist *schema.Checklist
		err       error
	)
	if cfg.ChecklistPath != "" {
		checklist, err = schema.LoadFile(cfg.ChecklistPath)
	} else {
		checklist, err = schema.Default()
	}
	if err != nil {
		return nil, noop, fmt.Errorf("loading checklist: %w", err)
	}

	// --- Create shared dependencies ---

	docs, err := docstore.New(docstore.Config{DataDir: cfg.DataDir})
	if err != nil {
		return nil, noop, fmt.Errorf("opening document store: %w", err)
	}
	cleanup := func() {
		if err := docs.Close(); err != nil {
			log.Printf("WARNING: document store close: %v", err)
		}
	}

	analyzers, err := analysis.NewOllamaAnalyzers(cfg.Ollama, cfg.Thresholds)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("creating analyzers: %w", err)
	}

	sessions := session.NewManager(checklist, analyzers, docs)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"repa",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register submission tools ---

	startTool := tools.NewStartTool(sessions, checklist)
	s.AddTool(startTool.Definition(), startTool.Handle)

	discardTool := tools.NewDiscardTool(sessions)
	s.AddTool(discardTool.Definition(), discardTool.Handle)

	checklistTool := tools.NewChecklistTool(sessions, checklist)
	s.AddTool(checklistTool.Definition(), checklistTool.Handle)

	answerTool := tools.NewAnswerTool(sessions, checklist)
	s.AddTool(answerTool.Definition(), answerTool.Handle)

	attachTool := tools.NewAttachTool(sessions, checklist, docs)
	s.AddTool(attachTool.Definition(), attachTool.Handle)

	clearTool := tools.NewClearTool(sessions, docs)
	s.AddTool(clearTool.Definition(), clearTool.Handle)

	analyzeTool := tools.NewAnalyzeTool(sessions)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	progressTool := tools.NewProgressTool(sessions, checklist, cfg.Weights)
	s.AddTool(progressTool.Definition(), progressTool.Handle)

	reportTool := tools.NewReportTool(sessions, checklist)
	s.AddTool(reportTool.Definition(), reportTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(sessions, checklist)
	s.AddResource(resourceHandler.SchemaResource(), resourceHandler.HandleSchema)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used when initialization fails before
// the document store is open.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use the ethics submission workflow effectively.
func serverInstructions() string {
	return `You have access to Repa, an ethics committee submission MCP server.

## WHEN TO ACTIVATE Repa

Suggest using Repa when the user:
- Mentions preparing an ethics application, HREC/IRB submission, or ethics approval
- Asks for help with consent forms, participant information sheets, or research protocols
- Describes a research project involving human participants, gene technology,
  radiation, or Indigenous communities

## CRITICAL: How Tools Work

Repa tools are STATE tools: they record content YOU collect from the user
and run compliance analysis over it. The workflow for each question is:

1. TALK to the user — understand their research project
2. RECORD their actual answers via the tools
3. ANALYZE each completed question and relay the verdict

NEVER call a tool with placeholder text like "TBD". Record what the user
actually said. The compliance analysis is advisory — the researcher and
their committee make the final call.

## Workflow

1. ethics_start — capture the research context. The four flags
   (involves_human_subjects, uses_gene_technology,
   uses_radiological_procedures, involves_indigenous_research) decide
   which checklist sections apply. The context is FROZEN once the
   submission starts; changing it means ethics_discard + ethics_start.
2. ethics_checklist — list the visible sections and questions.
3. ethics_answer — record an answer. Re-answering replaces the text and
   invalidates the question's verdict.
4. ethics_attach — attach a supporting document (.pdf, .txt, .md) by file
   path. Questions that require a document cannot pass analysis without one.
5. ethics_clear — reset a question entirely.
6. ethics_analyze — run compliance analysis for one question and store
   the verdict (compliant / partially-compliant / non-compliant, 0-100).
   A required document that is missing yields an "unanalyzed" verdict
   without calling the model.
7. ethics_progress — per-section and overall completion.
8. ethics_report — assemble the full submission report, optionally
   writing it to disk.

## Verdict Handling

- Present the status, score, missing elements, and recommendations.
- For partially-compliant or non-compliant verdicts, work with the user
  to improve the answer, then re-run ethics_analyze.
- If an analysis result is reported stale (the question changed while the
  model was running), just run ethics_analyze again.

## Resources

- ethics://checklist/schema — the full checklist definition
- ethics://submission/status — live submission state as JSON`
}
