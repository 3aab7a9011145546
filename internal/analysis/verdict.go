// Package analysis defines the compliance-analysis contract: the verdict
// shape, the score thresholds that classify it, and the Analyzer interface
// the checklist engine calls. Concrete analyzers in this package are backed
// by a local Ollama model; the engine itself only sees the interface.
package analysis

import "fmt"

// Status classifies a verdict. It is derived from the score via
// Thresholds, never set directly by the model.
type Status string

const (
	StatusCompliant          Status = "compliant"
	StatusPartiallyCompliant Status = "partially-compliant"
	StatusNonCompliant       Status = "non-compliant"

	// StatusUnanalyzed marks a synthetic verdict created without calling
	// the analyzer — currently only for required documents that are missing.
	StatusUnanalyzed Status = "unanalyzed"
)

// Thresholds maps a 0–100 compliance score onto a Status. Values are
// configuration: scores at or above Compliant are compliant, at or above
// PartiallyCompliant are partially compliant, anything lower is
// non-compliant.
type Thresholds struct {
	Compliant          int `yaml:"compliant" json:"compliant"`
	PartiallyCompliant int `yaml:"partially_compliant" json:"partially_compliant"`
}

// DefaultThresholds returns the standard 80/40 split.
func DefaultThresholds() Thresholds {
	return Thresholds{Compliant: 80, PartiallyCompliant: 40}
}

// Validate checks that 0 <= PartiallyCompliant <= Compliant <= 100.
func (t Thresholds) Validate() error {
	if t.PartiallyCompliant < 0 || t.Compliant > 100 || t.PartiallyCompliant > t.Compliant {
		return fmt.Errorf("invalid thresholds: need 0 <= partially_compliant (%d) <= compliant (%d) <= 100",
			t.PartiallyCompliant, t.Compliant)
	}
	return nil
}

// StatusFor classifies a score.
func (t Thresholds) StatusFor(score int) Status {
	switch {
	case score >= t.Compliant:
		return StatusCompliant
	case score >= t.PartiallyCompliant:
		return StatusPartiallyCompliant
	default:
		return StatusNonCompliant
	}
}

// Verdict is the structured result of analyzing one answer/document pair.
type Verdict struct {
	Score           int      `json:"score"`
	Status          Status   `json:"status"`
	Analysis        string   `json:"analysis,omitempty"`
	MissingElements []string `json:"missing_elements,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Model           string   `json:"model,omitempty"`
	AnalyzedAt      string   `json:"analyzed_at,omitempty"`
}

// MissingDocumentVerdict is the synthetic verdict the engine stores when a
// question requires a document and none is attached. The analyzer is never
// invoked for it.
func MissingDocumentVerdict() *Verdict {
	return &Verdict{
		Score:           0,
		Status:          StatusUnanalyzed,
		MissingElements: []string{"document required"},
	}
}

// clampScore forces a model-reported score into the 0–100 range.
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
