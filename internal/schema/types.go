// Package schema defines the static ethics checklist: sections, questions,
// document requirements, and the declarative visibility rules that decide
// which questions apply to a given research context.
//
// A Checklist is loaded once at startup, validated eagerly, and never
// mutated. Malformed checklists (duplicate ids, rules referencing unknown
// context fields) fail at load time with a *SchemaError — queries against
// a loaded checklist cannot fail.
package schema

import (
	"fmt"

	"github.com/Jgam2/EthicsPoC/internal/research"
)

// Question is one checklist item the researcher must address.
type Question struct {
	ID               string `yaml:"id" json:"id"`
	Prompt           string `yaml:"prompt" json:"prompt"`
	Guidance         string `yaml:"guidance,omitempty" json:"guidance,omitempty"`
	Required         bool   `yaml:"required" json:"required"`
	RequiresDocument bool   `yaml:"requires_document" json:"requires_document"`
	DocumentType     string `yaml:"document_type,omitempty" json:"document_type,omitempty"`
	VisibleWhen      *Rule  `yaml:"visible_when,omitempty" json:"visible_when,omitempty"`
}

// Section groups related questions under one heading, in submission order.
type Section struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Questions   []Question `yaml:"questions" json:"questions"`
}

// Checklist is the full validated schema.
type Checklist struct {
	Sections []Section `yaml:"sections" json:"sections"`

	// byID indexes questions for O(1) lookup. Built during validation.
	byID map[string]*Question
}

// SchemaError reports a structural problem found while loading a checklist.
// It is fatal: a server must not start with a malformed schema.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string {
	return "schema: " + e.Detail
}

func schemaErrorf(format string, args ...any) error {
	return &SchemaError{Detail: fmt.Sprintf(format, args...)}
}

// validate checks structural invariants and builds the question index.
func (c *Checklist) validate() error {
	if len(c.Sections) == 0 {
		return schemaErrorf("checklist has no sections")
	}

	c.byID = make(map[string]*Question)
	sectionIDs := make(map[string]bool)

	for si := range c.Sections {
		sec := &c.Sections[si]
		if sec.ID == "" {
			return schemaErrorf("section %d has no id", si)
		}
		if sectionIDs[sec.ID] {
			return schemaErrorf("duplicate section id %q", sec.ID)
		}
		sectionIDs[sec.ID] = true

		if len(sec.Questions) == 0 {
			return schemaErrorf("section %q has no questions", sec.ID)
		}

		for qi := range sec.Questions {
			q := &sec.Questions[qi]
			if q.ID == "" {
				return schemaErrorf("section %q: question %d has no id", sec.ID, qi)
			}
			if _, dup := c.byID[q.ID]; dup {
				return schemaErrorf("duplicate question id %q", q.ID)
			}
			if q.Prompt == "" {
				return schemaErrorf("question %q has no prompt", q.ID)
			}
			if !q.RequiresDocument && q.DocumentType != "" {
				return schemaErrorf("question %q sets document_type without requires_document", q.ID)
			}
			if q.RequiresDocument && q.DocumentType == "" {
				return schemaErrorf("question %q requires a document but has no document_type", q.ID)
			}
			if q.VisibleWhen != nil {
				if err := q.VisibleWhen.validate(q.ID); err != nil {
					return err
				}
			}
			c.byID[q.ID] = q
		}
	}
	return nil
}

// Question returns the question with the given id, or nil if unknown.
func (c *Checklist) Question(id string) *Question {
	return c.byID[id]
}

// SectionOf returns the section containing the given question id,
// or nil if the id is unknown.
func (c *Checklist) SectionOf(questionID string) *Section {
	for si := range c.Sections {
		for qi := range c.Sections[si].Questions {
			if c.Sections[si].Questions[qi].ID == questionID {
				return &c.Sections[si]
			}
		}
	}
	return nil
}

// Visible reports whether a question applies under the given context.
// A nil rule means always visible.
func (q *Question) Visible(ctx *research.Context) bool {
	if q.VisibleWhen == nil {
		return true
	}
	return q.VisibleWhen.Eval(ctx)
}

// VisibleQuestions returns every question whose visibility rule holds
// under ctx, preserving section order and in-section order.
func (c *Checklist) VisibleQuestions(ctx *research.Context) []Question {
	var out []Question
	for _, sec := range c.Sections {
		for _, q := range sec.Questions {
			if q.Visible(ctx) {
				out = append(out, q)
			}
		}
	}
	return out
}

// VisibleSections returns the sections that have at least one visible
// question under ctx, each filtered down to its visible questions.
// Schema order is preserved.
func (c *Checklist) VisibleSections(ctx *research.Context) []Section {
	var out []Section
	for _, sec := range c.Sections {
		var qs []Question
		for _, q := range sec.Questions {
			if q.Visible(ctx) {
				qs = append(qs, q)
			}
		}
		if len(qs) > 0 {
			filtered := sec
			filtered.Questions = qs
			out = append(out, filtered)
		}
	}
	return out
}
