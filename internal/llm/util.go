package llm

import "strings"

// ExtractJSONObject returns the substring from the first '{' to the last '}' of text,
// inclusive, or "" when text holds no such span. It tolerates prose and code fences
// around the object; it does not check that the span is valid JSON.
func ExtractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
