package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedSchemas(t *testing.T) {
	for _, name := range []Name{JobData, FitResponse} {
		t.Run(string(name), func(t *testing.T) {
			schema, err := Load(name)
			require.NoError(t, err)
			assert.NotNil(t, schema)

			again, err := Load(name)
			require.NoError(t, err)
			assert.Same(t, schema, again)
		})
	}
}

func TestLoad_UnknownSchema(t *testing.T) {
	_, err := Load(Name("missing"))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "missing.schema.json", loadErr.Path)
}

func TestValidate_JobData(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
		field   string
	}{
		{
			name: "all fields",
			json: `{"company_name":"Acme","job_title":"Backend Engineer","job_description":"Build APIs",
				"relevant_skills":["Go","PostgreSQL"],"relevant_experience":"3+ years",
				"responsibilities":["Ship features"],"requirements":["BS in CS"]}`,
		},
		{
			name: "empty object",
			json: `{}`,
		},
		{
			name: "nulls allowed",
			json: `{"company_name":null,"relevant_skills":null}`,
		},
		{
			name: "extra fields allowed",
			json: `{"job_title":"SRE","salary":"$200k"}`,
		},
		{
			name:    "skills as string",
			json:    `{"relevant_skills":"Go, Python"}`,
			wantErr: true,
			field:   "relevant_skills",
		},
		{
			name:    "title as number",
			json:    `{"job_title":42}`,
			wantErr: true,
			field:   "job_title",
		},
		{
			name:    "array at root",
			json:    `[]`,
			wantErr: true,
			field:   "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(JobData, tt.json)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields(), tt.field)
		})
	}
}

func TestValidate_FitResponse(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{name: "valid", json: `{"score":92,"insights":["Strong Go background"]}`},
		{name: "zero", json: `{"score":0,"insights":["No overlap"]}`},
		{name: "hundred", json: `{"score":100,"insights":["Perfect match"]}`},
		{name: "above range", json: `{"score":150,"insights":["x"]}`, wantErr: true},
		{name: "below range", json: `{"score":-1,"insights":["x"]}`, wantErr: true},
		{name: "fractional", json: `{"score":72.5,"insights":["x"]}`, wantErr: true},
		{name: "string score", json: `{"score":"92","insights":["x"]}`, wantErr: true},
		{name: "missing score", json: `{"insights":["x"]}`, wantErr: true},
		{name: "missing insights", json: `{"score":50}`, wantErr: true},
		{name: "empty insights", json: `{"score":50,"insights":[]}`, wantErr: true},
		{name: "blank insight", json: `{"score":50,"insights":[""]}`, wantErr: true},
		{name: "whitespace insight", json: `{"score":92,"insights":["   "]}`, wantErr: true},
		{name: "insight with padding", json: `{"score":92,"insights":["  Add metrics "]}`},
		{name: "insight not string", json: `{"score":50,"insights":[1]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(FitResponse, tt.json)
			if tt.wantErr {
				var validationErr *ValidationError
				assert.ErrorAs(t, err, &validationErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_RequiredFieldPath(t *testing.T) {
	err := Validate(FitResponse, `{"insights":["x"]}`)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"score"}, validationErr.Fields())
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(FitResponse, `{"score": 92, "insights": [`)
	require.Error(t, err)

	var docErr *DocumentError
	assert.ErrorAs(t, err, &docErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "score", Message: "Must be less than or equal to 100"},
			{Field: "insights", Message: "Array must have at least 1 items"},
			{Field: "score", Message: "Invalid type"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. score")
	assert.Contains(t, msg, "2. insights")
	assert.Equal(t, []string{"score", "insights"}, err.Fields())
}
