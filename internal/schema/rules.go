package schema

import (
	"github.com/Jgam2/EthicsPoC/internal/research"
)

// Rule is a small declarative predicate over a research context.
// Exactly one of the combinator groups should be set:
//
//   - Field + Equals: the field's value equals the given string
//   - Field + In: the field's value is one of the given strings
//   - All: every sub-rule holds
//   - Any: at least one sub-rule holds
//   - Not: the sub-rule does not hold
//
// Rules live in checklist configuration, so they are data, not code —
// the set of expressible conditions is deliberately closed.
type Rule struct {
	Field  string   `yaml:"field,omitempty" json:"field,omitempty"`
	Equals string   `yaml:"equals,omitempty" json:"equals,omitempty"`
	In     []string `yaml:"in,omitempty" json:"in,omitempty"`
	All    []Rule   `yaml:"all,omitempty" json:"all,omitempty"`
	Any    []Rule   `yaml:"any,omitempty" json:"any,omitempty"`
	Not    *Rule    `yaml:"not,omitempty" json:"not,omitempty"`
}

// Eval evaluates the rule against a research context. Unknown fields
// cannot occur at this point — validate rejects them at load time.
func (r *Rule) Eval(ctx *research.Context) bool {
	switch {
	case len(r.All) > 0:
		for i := range r.All {
			if !r.All[i].Eval(ctx) {
				return false
			}
		}
		return true
	case len(r.Any) > 0:
		for i := range r.Any {
			if r.Any[i].Eval(ctx) {
				return true
			}
		}
		return false
	case r.Not != nil:
		return !r.Not.Eval(ctx)
	case r.Field != "":
		v, ok := ctx.Value(r.Field)
		if !ok {
			return false
		}
		if len(r.In) > 0 {
			for _, candidate := range r.In {
				if v == candidate {
					return true
				}
			}
			return false
		}
		return v == r.Equals
	}
	return false
}

// validate checks that the rule is well-formed and that every referenced
// field names a real research-context field. questionID is only used in
// error messages.
func (r *Rule) validate(questionID string) error {
	groups := 0
	if len(r.All) > 0 {
		groups++
	}
	if len(r.Any) > 0 {
		groups++
	}
	if r.Not != nil {
		groups++
	}
	if r.Field != "" {
		groups++
	}
	if groups == 0 {
		return schemaErrorf("question %q: empty visibility rule", questionID)
	}
	if groups > 1 {
		return schemaErrorf("question %q: visibility rule mixes combinators", questionID)
	}

	if r.Field != "" {
		if !research.KnownField(r.Field) {
			return schemaErrorf("question %q: visibility rule references unknown context field %q", questionID, r.Field)
		}
		if r.Equals != "" && len(r.In) > 0 {
			return schemaErrorf("question %q: visibility rule sets both equals and in", questionID)
		}
		return nil
	}

	for i := range r.All {
		if err := r.All[i].validate(questionID); err != nil {
			return err
		}
	}
	for i := range r.Any {
		if err := r.Any[i].validate(questionID); err != nil {
			return err
		}
	}
	if r.Not != nil {
		return r.Not.validate(questionID)
	}
	return nil
}
