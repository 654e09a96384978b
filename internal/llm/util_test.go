package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple object",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "preamble and trailing prose",
			input:    "Here is the JSON:\n{\"company_name\": \"Acme\"}\nLet me know!",
			expected: `{"company_name": "Acme"}`,
		},
		{
			name:     "nested objects keep outer span",
			input:    `Output: {"outer": {"inner": "value"}} done`,
			expected: `{"outer": {"inner": "value"}}`,
		},
		{
			name:     "fenced block",
			input:    "```json\n{\"score\": 80}\n```",
			expected: `{"score": 80}`,
		},
		{
			name:     "no braces",
			input:    "Sorry, I cannot help.",
			expected: "",
		},
		{
			name:     "closing brace before opening",
			input:    "} oops {",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSONObject(tt.input))
		})
	}
}
