// Package report assembles the final review report from checklist state
// and progress aggregates. Assembly is a pure read: it never mutates
// state and never triggers analysis — callers wanting fresh verdicts must
// request them first.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jgam2/EthicsPoC/internal/analysis"
	"github.com/Jgam2/EthicsPoC/internal/progress"
	"github.com/Jgam2/EthicsPoC/internal/research"
	"github.com/Jgam2/EthicsPoC/internal/schema"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// QuestionReport is one row of the final report.
type QuestionReport struct {
	QuestionID       string            `json:"question_id"`
	Prompt           string            `json:"prompt"`
	Required         bool              `json:"required"`
	RequiresDocument bool              `json:"requires_document"`
	Answer           string            `json:"answer,omitempty"`
	HasDocument      bool              `json:"has_document"`
	Verdict          *analysis.Verdict `json:"verdict,omitempty"` // nil = not analyzed
}

// SectionReport groups the rows of one visible section with its
// aggregate figures.
type SectionReport struct {
	SectionID string                   `json:"section_id"`
	Title     string                   `json:"title"`
	Questions []QuestionReport         `json:"questions"`
	Progress  progress.SectionSnapshot `json:"progress"`
}

// OutstandingItem flags a required question that still lacks an answer or
// a required document, independent of whether it was ever analyzed.
type OutstandingItem struct {
	QuestionID      string `json:"question_id"`
	SectionID       string `json:"section_id"`
	Prompt          string `json:"prompt"`
	MissingAnswer   bool   `json:"missing_answer"`
	MissingDocument bool   `json:"missing_document"`
}

// Report is the assembled submission review.
type Report struct {
	GeneratedAt string            `json:"generated_at"`
	Research    research.Context  `json:"research"`
	Sections    []SectionReport   `json:"sections"`
	Application progress.Snapshot `json:"application"`
	Outstanding []OutstandingItem `json:"outstanding"`
}

// Assemble builds a report over the sections visible under ctx. Two calls
// with no state mutation in between produce identical content except for
// GeneratedAt.
func Assemble(c *schema.Checklist, ctx *research.Context, state progress.StatusReader) *Report {
	r := &Report{
		GeneratedAt: timeNow().UTC().Format(time.RFC3339),
		Research:    *ctx,
		Application: progress.ApplicationProgress(c, ctx, state),
	}

	for _, sec := range c.VisibleSections(ctx) {
		sr := SectionReport{
			SectionID: sec.ID,
			Title:     sec.Title,
			Progress:  progress.SectionProgress(sec, state),
		}
		for _, q := range sec.Questions {
			st := state.Status(q.ID)
			sr.Questions = append(sr.Questions, QuestionReport{
				QuestionID:       q.ID,
				Prompt:           q.Prompt,
				Required:         q.Required,
				RequiresDocument: q.RequiresDocument,
				Answer:           st.Answer,
				HasDocument:      st.HasDocument,
				Verdict:          st.Verdict,
			})
			if q.Required {
				missingAnswer := !st.Answered
				missingDoc := q.RequiresDocument && !st.HasDocument
				if missingAnswer || missingDoc {
					r.Outstanding = append(r.Outstanding, OutstandingItem{
						QuestionID:      q.ID,
						SectionID:       sec.ID,
						Prompt:          q.Prompt,
						MissingAnswer:   missingAnswer,
						MissingDocument: missingDoc,
					})
				}
			}
		}
		r.Sections = append(r.Sections, sr)
	}
	return r
}

// RenderMarkdown renders the report as a human-readable document, the
// downloadable artifact a researcher files alongside their submission.
func (r *Report) RenderMarkdown() string {
	var b strings.Builder

	b.WriteString("# Ethics Submission Review Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt)

	b.WriteString("## Research Context\n\n")
	fmt.Fprintf(&b, "**Title:** %s\n\n", r.Research.Title)
	if r.Research.Field != "" {
		fmt.Fprintf(&b, "**Field:** %s\n\n", r.Research.Field)
	}

	b.WriteString("## Overall Progress\n\n")
	fmt.Fprintf(&b, "- Completion: %d%%\n", pct(r.Application.Completion))
	if r.Application.AvgScore != nil {
		fmt.Fprintf(&b, "- Average compliance score: %.0f/100\n", *r.Application.AvgScore)
	} else {
		b.WriteString("- Average compliance score: not analyzed\n")
	}
	b.WriteString("\n")

	for _, sec := range r.Sections {
		fmt.Fprintf(&b, "## %s\n\n", sec.Title)
		fmt.Fprintf(&b, "Completion: %d%%", pct(sec.Progress.Completion))
		if sec.Progress.AvgScore != nil {
			fmt.Fprintf(&b, " — average score %.0f/100", *sec.Progress.AvgScore)
		}
		b.WriteString("\n\n")

		for _, q := range sec.Questions {
			fmt.Fprintf(&b, "### %s — %s\n\n", q.QuestionID, q.Prompt)
			if q.Answer != "" {
				fmt.Fprintf(&b, "**Answer:** %s\n\n", q.Answer)
			} else {
				b.WriteString("**Answer:** (none)\n\n")
			}
			if q.RequiresDocument {
				if q.HasDocument {
					b.WriteString("**Document:** attached\n\n")
				} else {
					b.WriteString("**Document:** missing\n\n")
				}
			}
			b.WriteString(renderVerdict(q.Verdict))
		}
	}

	if len(r.Outstanding) > 0 {
		b.WriteString("## Outstanding Items\n\n")
		for _, item := range r.Outstanding {
			var needs []string
			if item.MissingAnswer {
				needs = append(needs, "answer")
			}
			if item.MissingDocument {
				needs = append(needs, "document")
			}
			fmt.Fprintf(&b, "- %s (%s): missing %s\n", item.QuestionID, item.Prompt, strings.Join(needs, " and "))
		}
		b.WriteString("\n")
	} else {
		b.WriteString("## Outstanding Items\n\nNone — all required items are present.\n")
	}

	return b.String()
}

func renderVerdict(v *analysis.Verdict) string {
	if v == nil {
		return "**Compliance:** not analyzed\n\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Compliance:** %s (%d/100)\n\n", v.Status, v.Score)
	if v.Analysis != "" {
		fmt.Fprintf(&b, "%s\n\n", v.Analysis)
	}
	if len(v.MissingElements) > 0 {
		b.WriteString("Missing elements:\n")
		for _, m := range v.MissingElements {
			fmt.Fprintf(&b, "- %s\n", m)
		}
		b.WriteString("\n")
	}
	if len(v.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for _, rec := range v.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func pct(f float64) int {
	return int(f*100 + 0.5)
}
