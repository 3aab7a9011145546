package progress

import (
	"math"
	"testing"

	"github.com/Jgam2/EthicsPoC/internal/analysis"
	"github.com/Jgam2/EthicsPoC/internal/checklist"
	"github.com/Jgam2/EthicsPoC/internal/research"
	"github.com/Jgam2/EthicsPoC/internal/schema"
)

// statusMap is a canned StatusReader.
type statusMap map[string]checklist.QuestionStatus

func (m statusMap) Status(questionID string) checklist.QuestionStatus {
	return m[questionID]
}

const aggregateYAML = `
sections:
  - id: s1
    title: Section One
    questions:
      - id: Q1
        prompt: First
        required: true
        requires_document: false
      - id: Q2
        prompt: Second
        required: true
        requires_document: true
        document_type: protocol
  - id: s2
    title: Optional extras
    questions:
      - id: Q3
        prompt: Third
        required: false
        requires_document: false
  - id: s3
    title: Hidden unless human subjects
    questions:
      - id: Q4
        prompt: Fourth
        required: true
        requires_document: false
        visible_when:
          field: involves_human_subjects
          equals: "true"
`

func aggregateChecklist(t *testing.T) *schema.Checklist {
	t.Helper()
	c, err := schema.Load([]byte(aggregateYAML))
	if err != nil {
		t.Fatalf("loading checklist: %v", err)
	}
	return c
}

func verdict(score int) *analysis.Verdict {
	return &analysis.Verdict{Score: score, Status: analysis.StatusCompliant}
}

// Walks the two-required-question section through the states of the
// canonical completion scenario.
func TestSectionProgress_CompletionSteps(t *testing.T) {
	c := aggregateChecklist(t)
	s1 := c.Sections[0]

	steps := []struct {
		name  string
		state statusMap
		want  float64
	}{
		{"initial", statusMap{}, 0.0},
		{"Q1 answered", statusMap{
			"Q1": {Answered: true, Answer: "text"},
		}, 0.5},
		{"Q2 answered but no document", statusMap{
			"Q1": {Answered: true, Answer: "text"},
			"Q2": {Answered: true, Answer: "text"},
		}, 0.5},
		{"both complete", statusMap{
			"Q1": {Answered: true, Answer: "text"},
			"Q2": {Answered: true, Answer: "text", HasDocument: true},
		}, 1.0},
	}

	for _, tt := range steps {
		t.Run(tt.name, func(t *testing.T) {
			got := SectionProgress(s1, tt.state)
			if got.Completion != tt.want {
				t.Errorf("completion = %v, want %v", got.Completion, tt.want)
			}
			if got.Completion < 0 || got.Completion > 1 {
				t.Errorf("completion %v out of [0,1]", got.Completion)
			}
		})
	}
}

func TestSectionProgress_NoRequiredQuestions(t *testing.T) {
	c := aggregateChecklist(t)
	s2 := c.Sections[1] // only the optional Q3

	got := SectionProgress(s2, statusMap{})
	if got.Completion != 1.0 {
		t.Errorf("completion = %v, want 1.0 for a section with no required questions", got.Completion)
	}
	if got.AvgScore != nil {
		t.Errorf("avg score = %v, want nil with no verdicts", *got.AvgScore)
	}
}

func TestSectionProgress_AvgScoreExcludesUnanalyzed(t *testing.T) {
	c := aggregateChecklist(t)
	s1 := c.Sections[0]

	// Q1 analyzed at 80, Q2 unanalyzed: average must be 80, not 40.
	got := SectionProgress(s1, statusMap{
		"Q1": {Answered: true, Verdict: verdict(80)},
		"Q2": {Answered: true},
	})
	if got.AvgScore == nil || *got.AvgScore != 80 {
		t.Fatalf("avg score = %v, want 80", got.AvgScore)
	}
	if got.AnalyzedCount != 1 {
		t.Errorf("analyzed count = %d, want 1", got.AnalyzedCount)
	}
}

func TestApplicationProgress_WeightsSectionsEqually(t *testing.T) {
	c := aggregateChecklist(t)

	// s1 at 0/2, s2 at 1.0 (no required questions); s3 hidden.
	snap := ApplicationProgress(c, &research.Context{}, statusMap{})

	if len(snap.Sections) != 2 {
		t.Fatalf("sections = %d, want 2 (s3 hidden)", len(snap.Sections))
	}
	if snap.Completion != 0.5 {
		t.Errorf("completion = %v, want 0.5 (equal section weights)", snap.Completion)
	}
	if snap.AvgScore != nil {
		t.Errorf("avg score = %v, want nil", *snap.AvgScore)
	}
}

func TestApplicationProgress_VisibilityChangesSections(t *testing.T) {
	c := aggregateChecklist(t)

	snap := ApplicationProgress(c, &research.Context{InvolvesHumanSubjects: true}, statusMap{})
	if len(snap.Sections) != 3 {
		t.Errorf("sections = %d, want 3 with the flag set", len(snap.Sections))
	}
}

func TestApplicationProgress_AvgScoreAcrossSections(t *testing.T) {
	c := aggregateChecklist(t)

	snap := ApplicationProgress(c, &research.Context{}, statusMap{
		"Q1": {Answered: true, Verdict: verdict(90)},
		"Q3": {Answered: true, Verdict: verdict(50)},
	})
	if snap.AvgScore == nil || *snap.AvgScore != 70 {
		t.Fatalf("avg score = %v, want 70", snap.AvgScore)
	}
}

func TestWeights_Overall(t *testing.T) {
	w := DefaultWeights()
	ctx := &research.Context{
		Title: "t", Field: "f", Context: "c", Description: "d",
		Methodology: "m", Participants: "p", Timeline: "tl",
	}

	got := w.Overall(ctx, Snapshot{Completion: 1.0}, true)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("fully complete submission = %v, want 1.0", got)
	}

	got = w.Overall(&research.Context{}, Snapshot{}, false)
	if got != 0.0 {
		t.Errorf("untouched submission = %v, want 0.0", got)
	}

	got = w.Overall(ctx, Snapshot{Completion: 0.5}, false)
	if want := 0.6; math.Abs(got-want) > 1e-9 {
		t.Errorf("partial submission = %v, want %v", got, want)
	}
}
