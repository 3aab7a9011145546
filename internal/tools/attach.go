package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Jgam2/EthicsPoC/internal/schema"
)

// AttachTool handles the ethics_attach MCP tool.
// It ingests a supporting document and attaches its handle to a question.
type AttachTool struct {
	sessions  Sessions
	checklist *schema.Checklist
	docs      DocumentStore
}

// NewAttachTool creates an AttachTool with the given session manager,
// checklist schema, and document store.
func NewAttachTool(sessions Sessions, checklist *schema.Checklist, docs DocumentStore) *AttachTool {
	return &AttachTool{sessions: sessions, checklist: checklist, docs: docs}
}

// Definition returns the MCP tool definition for registration.
func (t *AttachTool) Definition() mcp.Tool {
	return mcp.NewTool("ethics_attach",
		mcp.WithDescription(
			"Attach a supporting document to a checklist question. The file is "+
				"read from disk, its text extracted and stored, and the question "+
				"keeps an opaque handle to it. Attaching replaces any previous "+
				"document and invalidates the question's verdict. "+
				"Supported types: .pdf, .txt, .md.",
		),
		mcp.WithString("question_id",
			mcp.Required(),
			mcp.Description("The checklist question the document supports."),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Filesystem path of the document to attach."),
		),
	)
}

// Handle processes the ethics_attach tool call.
func (t *AttachTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	questionID := req.GetString("question_id", "")
	path := req.GetString("path", "")

	sub, errResult := currentSubmission(t.sessions)
	if errResult != nil {
		return errResult, nil
	}

	q := t.checklist.Question(questionID)
	if q == nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown question %q", questionID)), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading %s: %v", path, err)), nil
	}

	// Replacing an existing attachment: drop the old stored document so
	// the store doesn't accumulate orphans.
	oldHandle, hadDoc := sub.State.DocumentHandle(questionID)

	handle, err := t.docs.Put(filepath.Base(path), content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sub.State.AttachDocument(questionID, handle); err != nil {
		// The state rejected the attach; don't leave the document stored.
		_ = t.docs.Delete(handle)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if hadDoc {
		_ = t.docs.Delete(oldHandle)
	}

	response := fmt.Sprintf(
		"Document `%s` attached to **%s** (%d bytes).",
		filepath.Base(path), questionID, len(content),
	)
	if q.RequiresDocument {
		response += fmt.Sprintf(" Expected type: %s.", q.DocumentType)
	}
	response += " Run `ethics_analyze` to get a verdict for the document."

	return mcp.NewToolResultText(response), nil
}
