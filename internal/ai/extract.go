package ai

import "strings"

// StripCodeFences removes markdown code fences (```json ... ```), which the
// model frequently wraps around structured output, and trims whitespace.
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the first top-level brace-delimited object in s:
// everything from the first '{' through the last '}'. It is the middle stage
// of the parse fallback chain and makes no attempt to balance braces; the
// subsequent json.Unmarshal decides whether the slice is valid.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// ExtractJSONArray returns the first bracket-delimited array in s, from the
// first '[' through the last ']'.
func ExtractJSONArray(s string) (string, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
