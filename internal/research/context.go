// Package research models the research-context record that drives the
// ethics checklist: what the project is about, and the handful of flags
// that determine which checklist sections apply to it.
//
// A Context is created once when a submission session starts and is
// read-only afterwards. Changing it mid-submission is not supported —
// the session layer requires discarding the submission and starting over.
package research

import (
	"fmt"
	"strings"
)

// Text field identifiers. These match the seven free-text fields the
// researcher fills in before the checklist opens.
const (
	FieldTitle        = "title"
	FieldField        = "field"
	FieldContext      = "context"
	FieldDescription  = "description"
	FieldMethodology  = "methodology"
	FieldParticipants = "participants"
	FieldTimeline     = "timeline"
)

// Flag field identifiers. These drive checklist visibility rules.
const (
	FieldInvolvesHumanSubjects      = "involves_human_subjects"
	FieldUsesGeneTechnology         = "uses_gene_technology"
	FieldUsesRadiologicalProcs      = "uses_radiological_procedures"
	FieldInvolvesIndigenousResearch = "involves_indigenous_research"
)

// textFields is the ordered list of free-text field identifiers,
// used for completeness scoring.
var textFields = []string{
	FieldTitle,
	FieldField,
	FieldContext,
	FieldDescription,
	FieldMethodology,
	FieldParticipants,
	FieldTimeline,
}

// flagFields is the ordered list of boolean field identifiers.
var flagFields = []string{
	FieldInvolvesHumanSubjects,
	FieldUsesGeneTechnology,
	FieldUsesRadiologicalProcs,
	FieldInvolvesIndigenousResearch,
}

// Context is the structured record of project metadata collected at the
// start of a submission. Visibility rules read it through Value().
type Context struct {
	Title        string `json:"title"`
	Field        string `json:"field"`
	Context      string `json:"context"`
	Description  string `json:"description"`
	Methodology  string `json:"methodology"`
	Participants string `json:"participants"`
	Timeline     string `json:"timeline"`

	InvolvesHumanSubjects      bool `json:"involves_human_subjects"`
	UsesGeneTechnology         bool `json:"uses_gene_technology"`
	UsesRadiologicalProcedures bool `json:"uses_radiological_procedures"`
	InvolvesIndigenousResearch bool `json:"involves_indigenous_research"`
}

// FieldIDs returns every field identifier a visibility rule may
// legally reference. Schema validation checks rule fields against this.
func FieldIDs() []string {
	ids := make([]string, 0, len(textFields)+len(flagFields))
	ids = append(ids, textFields...)
	ids = append(ids, flagFields...)
	return ids
}

// KnownField reports whether id names a context field.
func KnownField(id string) bool {
	for _, f := range FieldIDs() {
		if f == id {
			return true
		}
	}
	return false
}

// Value returns the string form of a field's current value.
// Booleans render as "true"/"false" so rules can match them with
// equals/in combinators. The second return is false for unknown ids.
func (c *Context) Value(fieldID string) (string, bool) {
	switch fieldID {
	case FieldTitle:
		return c.Title, true
	case FieldField:
		return c.Field, true
	case FieldContext:
		return c.Context, true
	case FieldDescription:
		return c.Description, true
	case FieldMethodology:
		return c.Methodology, true
	case FieldParticipants:
		return c.Participants, true
	case FieldTimeline:
		return c.Timeline, true
	case FieldInvolvesHumanSubjects:
		return boolValue(c.InvolvesHumanSubjects), true
	case FieldUsesGeneTechnology:
		return boolValue(c.UsesGeneTechnology), true
	case FieldUsesRadiologicalProcs:
		return boolValue(c.UsesRadiologicalProcedures), true
	case FieldInvolvesIndigenousResearch:
		return boolValue(c.InvolvesIndigenousResearch), true
	}
	return "", false
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Completeness returns the fraction of free-text fields that are filled
// in, between 0 and 1. Flags always have a value and do not count.
func (c *Context) Completeness() float64 {
	filled := 0
	for _, id := range textFields {
		v, _ := c.Value(id)
		if strings.TrimSpace(v) != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(textFields))
}

// Validate returns an error if the context is unusable as the basis of a
// submission. Only the title is strictly required to start; the other
// fields affect completeness, not validity.
func (c *Context) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("research context must have a title")
	}
	return nil
}
