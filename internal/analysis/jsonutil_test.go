package analysis

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"bare object",
			`{"compliance_score": 80}`,
			`{"compliance_score": 80}`,
		},
		{
			"fenced json block",
			"Here is my review:\n```json\n{\"compliance_score\": 80}\n```\nDone.",
			`{"compliance_score": 80}`,
		},
		{
			"unfenced with prose",
			"The document looks good. {\"compliance_score\": 90} Let me know.",
			`{"compliance_score": 90}`,
		},
		{
			"trailing comma stripped",
			`{"recommendations": ["a", "b",], "compliance_score": 70,}`,
			`{"recommendations": ["a", "b"], "compliance_score": 70}`,
		},
		{
			"no object",
			"I cannot produce a score for this.",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.content); got != tt.want {
				t.Errorf("extractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
