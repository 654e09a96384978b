package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get("analysis.json", "extract-job-data")
	require.NoError(t, err)
	assert.Contains(t, prompt, "expert job data extractor")
	assert.Contains(t, prompt, "{{.Content}}")
}

func TestGet_LinesAreJoined(t *testing.T) {
	prompt, err := Get("analysis.json", "score-fit")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Resume:\n{{.ResumeText}}\n")
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get("analysis.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	assert.Equal(t, template, Format(template, map[string]string{}))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
		missing  string
	}{
		{
			name:     "all bound",
			template: "{{.A}} and {{.B}}",
			data:     map[string]string{"A": "x", "B": "y"},
			want:     "x and y",
		},
		{
			name:     "unused variables tolerated",
			template: "{{.A}}",
			data:     map[string]string{"A": "x", "Extra": "ignored"},
			want:     "x",
		},
		{
			name:     "repeated placeholder",
			template: "{{.A}}-{{.A}}",
			data:     map[string]string{"A": "x"},
			want:     "x-x",
		},
		{
			name:     "value containing placeholder syntax is not expanded",
			template: "{{.A}} {{.B}}",
			data:     map[string]string{"A": "{{.B}}", "B": "y"},
			want:     "{{.B}} y",
		},
		{
			name:     "missing variable",
			template: "{{.A}} {{.B}}",
			data:     map[string]string{"A": "x"},
			missing:  "B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.template, tt.data)
			if tt.missing != "" {
				var missingErr *MissingVariableError
				require.ErrorAs(t, err, &missingErr)
				assert.Equal(t, tt.missing, missingErr.Name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaceholders(t *testing.T) {
	names := Placeholders("{{.B}} {{.A}} {{.B}} {{ .Spaced }}")
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestShippedPromptsReferenceExpectedVariables(t *testing.T) {
	extract, err := Get("analysis.json", "extract-job-data")
	require.NoError(t, err)
	assert.Equal(t, []string{"Content"}, Placeholders(extract))

	score, err := Get("analysis.json", "score-fit")
	require.NoError(t, err)
	assert.Equal(t, []string{"JobDetails", "ResumeText"}, Placeholders(score))
}
