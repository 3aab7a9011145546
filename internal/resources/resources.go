// Package resources implements MCP resource handlers for the ethics
// submission workflow.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (ethics://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Jgam2/EthicsPoC/internal/progress"
	"github.com/Jgam2/EthicsPoC/internal/schema"
	"github.com/Jgam2/EthicsPoC/internal/session"
)

// Handler manages the ethics resource endpoints.
type Handler struct {
	sessions  *session.Manager
	checklist *schema.Checklist
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(sessions *session.Manager, checklist *schema.Checklist) *Handler {
	return &Handler{sessions: sessions, checklist: checklist}
}

// SchemaResource returns the MCP resource definition for the checklist schema.
func (h *Handler) SchemaResource() mcp.Resource {
	return mcp.NewResource(
		"ethics://checklist/schema",
		"Ethics Checklist Schema",
		mcp.WithResourceDescription("The full checklist: sections, questions, document requirements, and visibility rules"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSchema returns the loaded checklist as JSON. The schema is static
// for the lifetime of the server, so this never fails once the server is up.
func (h *Handler) HandleSchema(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(h.checklist, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling checklist schema: %w", err)
	}
	return jsonResource(req.Params.URI, data), nil
}

// StatusResource returns the MCP resource definition for submission status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		"ethics://submission/status",
		"Ethics Submission Status",
		mcp.WithResourceDescription("Research context, per-section progress, and per-question state of the active submission"),
		mcp.WithMIMEType("application/json"),
	)
}

// submissionStatus is the JSON shape of the status resource.
type submissionStatus struct {
	SubmissionID string            `json:"submission_id"`
	StartedAt    string            `json:"started_at"`
	Research     any               `json:"research"`
	Progress     progress.Snapshot `json:"progress"`
	Questions    []questionStatus  `json:"questions"`
}

type questionStatus struct {
	QuestionID  string `json:"question_id"`
	SectionID   string `json:"section_id"`
	Answered    bool   `json:"answered"`
	HasDocument bool   `json:"has_document"`
	Verdict     any    `json:"verdict,omitempty"`
}

// HandleStatus returns the current submission state as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sub, err := h.sessions.Current()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	status := submissionStatus{
		SubmissionID: sub.ID,
		StartedAt:    sub.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		Research:     sub.Research,
		Progress:     progress.ApplicationProgress(h.checklist, &sub.Research, sub.State),
	}
	for _, sec := range h.checklist.VisibleSections(&sub.Research) {
		for _, q := range sec.Questions {
			st := sub.State.Status(q.ID)
			qs := questionStatus{
				QuestionID:  q.ID,
				SectionID:   sec.ID,
				Answered:    st.Answered,
				HasDocument: st.HasDocument,
			}
			if st.Verdict != nil {
				qs.Verdict = st.Verdict
			}
			status.Questions = append(status.Questions, qs)
		}
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling submission status: %w", err)
	}
	return jsonResource(req.Params.URI, data), nil
}

func jsonResource(uri string, data []byte) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
