// Package progress computes completion and compliance aggregates from
// checklist state. Aggregation is a pure read: absent verdicts are a
// normal state, excluded from averages rather than treated as zero.
package progress

import (
	"fmt"
	"math"

	"github.com/Jgam2/EthicsPoC/internal/checklist"
	"github.com/Jgam2/EthicsPoC/internal/research"
	"github.com/Jgam2/EthicsPoC/internal/schema"
)

// StatusReader is the slice of checklist state the aggregator reads.
// *checklist.State implements it.
type StatusReader interface {
	Status(questionID string) checklist.QuestionStatus
}

// SectionSnapshot summarizes one section.
type SectionSnapshot struct {
	SectionID string `json:"section_id"`
	Title     string `json:"title"`

	// Completion is completed required questions / required questions.
	// A section with no required questions reports 1.0.
	Completion float64 `json:"completion"`

	// AvgScore is the mean verdict score over analyzed questions, nil
	// when nothing in the section has been analyzed. Callers must render
	// nil distinctly from a true 0.
	AvgScore *float64 `json:"avg_score"`

	RequiredTotal    int `json:"required_total"`
	RequiredComplete int `json:"required_complete"`
	AnalyzedCount    int `json:"analyzed_count"`
}

// Snapshot is the application-level aggregate over all visible sections.
type Snapshot struct {
	Sections []SectionSnapshot `json:"sections"`

	// Completion weights sections equally rather than by question count,
	// favoring a balanced progress display.
	Completion float64 `json:"completion"`

	// AvgScore is the mean verdict score over every analyzed visible
	// question, nil when none have been analyzed.
	AvgScore *float64 `json:"avg_score"`
}

// complete reports whether a question counts toward completion: it needs
// a non-blank answer, plus a document when one is required.
func complete(q schema.Question, st checklist.QuestionStatus) bool {
	if !st.Answered {
		return false
	}
	if q.RequiresDocument && !st.HasDocument {
		return false
	}
	return true
}

// SectionProgress aggregates one section. The section's question list is
// taken as given — pass sections already filtered for visibility.
func SectionProgress(sec schema.Section, state StatusReader) SectionSnapshot {
	snap := SectionSnapshot{SectionID: sec.ID, Title: sec.Title}
	scoreSum := 0

	for _, q := range sec.Questions {
		st := state.Status(q.ID)
		if q.Required {
			snap.RequiredTotal++
			if complete(q, st) {
				snap.RequiredComplete++
			}
		}
		if st.Verdict != nil {
			snap.AnalyzedCount++
			scoreSum += st.Verdict.Score
		}
	}

	if snap.RequiredTotal == 0 {
		snap.Completion = 1.0
	} else {
		snap.Completion = float64(snap.RequiredComplete) / float64(snap.RequiredTotal)
	}
	if snap.AnalyzedCount > 0 {
		avg := float64(scoreSum) / float64(snap.AnalyzedCount)
		snap.AvgScore = &avg
	}
	return snap
}

// ApplicationProgress aggregates across every section visible under ctx.
func ApplicationProgress(c *schema.Checklist, ctx *research.Context, state StatusReader) Snapshot {
	var snap Snapshot

	completionSum := 0.0
	scoreSum := 0
	analyzed := 0

	for _, sec := range c.VisibleSections(ctx) {
		ss := SectionProgress(sec, state)
		snap.Sections = append(snap.Sections, ss)
		completionSum += ss.Completion
		for _, q := range sec.Questions {
			if v := state.Status(q.ID).Verdict; v != nil {
				analyzed++
				scoreSum += v.Score
			}
		}
	}

	if n := len(snap.Sections); n > 0 {
		snap.Completion = completionSum / float64(n)
	}
	if analyzed > 0 {
		avg := float64(scoreSum) / float64(analyzed)
		snap.AvgScore = &avg
	}
	return snap
}

// Weights controls the blend of the overall submission figure shown in
// the status surface: how far along the research context, the checklist,
// and the final review step each are.
type Weights struct {
	ResearchContext float64 `yaml:"research_context" json:"research_context"`
	Checklist       float64 `yaml:"checklist" json:"checklist"`
	Review          float64 `yaml:"review" json:"review"`
}

// DefaultWeights returns the standard 30/60/10 blend.
func DefaultWeights() Weights {
	return Weights{ResearchContext: 0.3, Checklist: 0.6, Review: 0.1}
}

// Validate rejects blends that don't sum to 1 or carry negative parts.
func (w Weights) Validate() error {
	if w.ResearchContext < 0 || w.Checklist < 0 || w.Review < 0 {
		return fmt.Errorf("progress: weights must be non-negative, got %+v", w)
	}
	if sum := w.ResearchContext + w.Checklist + w.Review; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("progress: weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}

// Overall blends research-context completeness, checklist completion, and
// whether the submission has reached review into a single 0–1 figure.
func (w Weights) Overall(ctx *research.Context, checklist Snapshot, reviewReached bool) float64 {
	review := 0.0
	if reviewReached {
		review = 1.0
	}
	return w.ResearchContext*ctx.Completeness() + w.Checklist*checklist.Completion + w.Review*review
}
