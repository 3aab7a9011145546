package research

import "testing"

func fullContext() *Context {
	return &Context{
		Title:        "Cardiac rehab outcomes",
		Field:        "Cardiology",
		Context:      "Regional hospital network",
		Description:  "Prospective cohort study of rehab adherence",
		Methodology:  "Surveys and clinical record review",
		Participants: "Adults discharged after cardiac events",
		Timeline:     "18 months",
	}
}

func TestValue_TextFields(t *testing.T) {
	ctx := fullContext()

	v, ok := ctx.Value(FieldTitle)
	if !ok {
		t.Fatal("title should be a known field")
	}
	if v != "Cardiac rehab outcomes" {
		t.Errorf("Value(title) = %q, want title text", v)
	}
}

func TestValue_FlagsRenderAsStrings(t *testing.T) {
	ctx := &Context{InvolvesHumanSubjects: true}

	v, ok := ctx.Value(FieldInvolvesHumanSubjects)
	if !ok || v != "true" {
		t.Errorf("Value(involves_human_subjects) = %q, %v; want \"true\", true", v, ok)
	}

	v, ok = ctx.Value(FieldUsesGeneTechnology)
	if !ok || v != "false" {
		t.Errorf("Value(uses_gene_technology) = %q, %v; want \"false\", true", v, ok)
	}
}

func TestValue_UnknownField(t *testing.T) {
	ctx := fullContext()
	if _, ok := ctx.Value("funding_source"); ok {
		t.Error("unknown field should report ok=false")
	}
}

func TestKnownField(t *testing.T) {
	if !KnownField(FieldMethodology) {
		t.Error("methodology should be known")
	}
	if KnownField("sponsor") {
		t.Error("sponsor should not be known")
	}
}

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name string
		ctx  *Context
		want float64
	}{
		{"empty", &Context{}, 0},
		{"full", fullContext(), 1},
		{"title only", &Context{Title: "x"}, 1.0 / 7.0},
		{"whitespace does not count", &Context{Title: "   "}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ctx.Completeness(); got != tt.want {
				t.Errorf("Completeness() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := (&Context{}).Validate(); err == nil {
		t.Error("empty context should fail validation")
	}
	if err := (&Context{Title: "x"}).Validate(); err != nil {
		t.Errorf("titled context should validate, got: %v", err)
	}
}
