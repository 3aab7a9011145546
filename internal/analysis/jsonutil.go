package analysis

import "regexp"

// Models wrap JSON in markdown fences or leave trailing commas behind;
// these patterns recover a parseable object from a raw chat response.
var (
	fencedObjectPattern  = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	bareObjectPattern    = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// extractJSON pulls the first JSON object out of a model response,
// preferring fenced blocks, and strips trailing commas. Returns "" when
// no object is present.
func extractJSON(content string) string {
	var raw string
	if m := fencedObjectPattern.FindStringSubmatch(content); len(m) > 1 {
		raw = m[1]
	} else {
		raw = bareObjectPattern.FindString(content)
	}
	if raw == "" {
		return ""
	}
	return trailingCommaPattern.ReplaceAllString(raw, "$1")
}
