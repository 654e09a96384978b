package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"strings"
	"testing"

	"github.com/jonathan/resume-fit/internal/fetch"
	"github.com/jonathan/resume-fit/internal/llm"
	"github.com/jonathan/resume-fit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	html      string
	err       error
	closed    int
	renderURL string
}

func (s *stubSession) Render(_ context.Context, url string) (string, error) {
	s.renderURL = url
	return s.html, s.err
}

func (s *stubSession) Close() error {
	s.closed++
	return nil
}

type stubLauncher struct {
	session   *stubSession
	launchErr error
	launches  int
}

func (l *stubLauncher) Launch(_ context.Context) (fetch.Session, error) {
	l.launches++
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	return l.session, nil
}

type stubGateway struct {
	respond func(variables map[string]string) (string, error)
	calls   int
	vars    map[string]string
}

func (g *stubGateway) Complete(_ context.Context, _ string, variables map[string]string) (string, error) {
	g.calls++
	g.vars = variables
	return g.respond(variables)
}

func fixed(response string) func(map[string]string) (string, error) {
	return func(map[string]string) (string, error) { return response, nil }
}

const jobPage = `<html><head><script>var x = 1;</script></head>
<body><h1>Backend Engineer</h1><p>Acme Corp is hiring.</p></body></html>`

func TestExtract_Success(t *testing.T) {
	session := &stubSession{html: jobPage}
	launcher := &stubLauncher{session: session}
	gateway := &stubGateway{respond: fixed(`Here is the data:
{"company_name":"Acme Corp","job_title":"Backend Engineer","job_description":"Build APIs",
 "relevant_skills":["Go","SQL"],"relevant_experience":"3 years",
 "responsibilities":["Design services"],"requirements":["CS degree"]}
Let me know if you need more.`)}

	extractor := New(launcher, gateway, nil)
	jobData, err := extractor.Extract(context.Background(), "https://example.com/jobs/1")
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", jobData.CompanyName)
	assert.Equal(t, "Backend Engineer", jobData.JobTitle)
	assert.Equal(t, []string{"Go", "SQL"}, jobData.RelevantSkills)
	assert.Equal(t, []string{"CS degree"}, jobData.Requirements)

	assert.Equal(t, 1, gateway.calls)
	assert.Equal(t, "https://example.com/jobs/1", session.renderURL)
	assert.Equal(t, "Backend Engineer\nAcme Corp is hiring.", gateway.vars["Content"])
	assert.NotContains(t, gateway.vars["Content"], "var x")
	assert.Equal(t, 1, session.closed)
}

func TestExtract_MissingFieldsTakeDefaults(t *testing.T) {
	session := &stubSession{html: jobPage}
	gateway := &stubGateway{respond: fixed(`{"job_title": "Engineer"}`)}

	jobData, err := New(&stubLauncher{session: session}, gateway, nil).
		Extract(context.Background(), "https://example.com/jobs/2")
	require.NoError(t, err)

	assert.Equal(t, "Engineer", jobData.JobTitle)
	assert.Equal(t, "", jobData.CompanyName)
	assert.Equal(t, "", jobData.RelevantExperience)
	assert.NotNil(t, jobData.RelevantSkills)
	assert.Empty(t, jobData.RelevantSkills)
	assert.NotNil(t, jobData.Responsibilities)
	assert.NotNil(t, jobData.Requirements)

	encoded, err := json.Marshal(jobData)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"relevant_skills":[]`)
	assert.NotContains(t, string(encoded), "null")
}

func TestExtract_NavigationFailure(t *testing.T) {
	session := &stubSession{err: errors.New("navigation timeout")}
	gateway := &stubGateway{respond: fixed(`{}`)}

	_, err := New(&stubLauncher{session: session}, gateway, nil).
		Extract(context.Background(), "https://example.com/slow")
	require.Error(t, err)

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, KindFetch, extErr.Kind)
	assert.Equal(t, "https://example.com/slow", extErr.URL)
	assert.Contains(t, err.Error(), "navigation timeout")

	assert.Equal(t, 1, session.closed, "session must be released on fetch failure")
	assert.Zero(t, gateway.calls)
}

func TestExtract_LaunchFailure(t *testing.T) {
	launcher := &stubLauncher{launchErr: errors.New("chrome not found")}
	gateway := &stubGateway{respond: fixed(`{}`)}

	_, err := New(launcher, gateway, nil).Extract(context.Background(), "https://example.com/jobs/3")

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, KindFetch, extErr.Kind)
	assert.Zero(t, gateway.calls)
}

func TestExtract_ParseFailures(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "prose only", response: "I could not find a job posting on this page."},
		{name: "truncated object", response: `{"job_title": "Engineer", "relevant_skills": ["Go"`},
		{name: "broken json between braces", response: `{"job_title": Engineer}`},
		{name: "wrong field type", response: `{"relevant_skills": "Go, Rust"}`},
		{name: "empty", response: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &stubSession{html: jobPage}
			gateway := &stubGateway{respond: fixed(tt.response)}

			_, err := New(&stubLauncher{session: session}, gateway, nil).
				Extract(context.Background(), "https://example.com/jobs/4")

			var extErr *ExtractionError
			require.ErrorAs(t, err, &extErr)
			assert.Equal(t, KindParse, extErr.Kind)
			assert.Equal(t, tt.response, extErr.Raw)
			assert.Equal(t, 1, gateway.calls, "parse failures are not retried")
			assert.Equal(t, 1, session.closed, "session must be released on parse failure")
		})
	}
}

func TestExtract_GatewayFailurePropagates(t *testing.T) {
	session := &stubSession{html: jobPage}
	gatewayErr := &llm.GatewayError{Model: "test-model", Message: "completion request failed", Cause: errors.New("connection refused")}
	gateway := &stubGateway{respond: func(map[string]string) (string, error) { return "", gatewayErr }}

	_, err := New(&stubLauncher{session: session}, gateway, nil).
		Extract(context.Background(), "https://example.com/jobs/5")

	var gwErr *llm.GatewayError
	require.ErrorAs(t, err, &gwErr)
	var extErr *ExtractionError
	assert.False(t, errors.As(err, &extErr))
	assert.Equal(t, 1, session.closed)
}

func TestExtract_RepeatedCallsUseFreshSessions(t *testing.T) {
	session := &stubSession{html: jobPage}
	launcher := &stubLauncher{session: session}
	gateway := &stubGateway{respond: fixed(`{"job_title":"SRE"}`)}
	extractor := New(launcher, gateway, nil)

	for i := 0; i < 3; i++ {
		_, err := extractor.Extract(context.Background(), "https://example.com/jobs/6")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, launcher.launches)
	assert.Equal(t, 3, session.closed)
}

// echoModel reads the labeled prompt text back into JSON, standing in for a
// model that copies structured fields unchanged.
func echoModel(variables map[string]string) (string, error) {
	jobData := &types.JobData{}
	scalars := map[string]*string{
		"Company":             &jobData.CompanyName,
		"Job Title":           &jobData.JobTitle,
		"Job Description":     &jobData.JobDescription,
		"Relevant Experience": &jobData.RelevantExperience,
	}
	lists := map[string]*[]string{
		"Relevant Skills":  &jobData.RelevantSkills,
		"Responsibilities": &jobData.Responsibilities,
		"Requirements":     &jobData.Requirements,
	}

	var current *[]string
	for _, line := range strings.Split(variables["Content"], "\n") {
		if item, ok := strings.CutPrefix(line, "- "); ok && current != nil {
			*current = append(*current, item)
			continue
		}
		label, value, _ := strings.Cut(line, ":")
		value = strings.TrimSpace(value)
		if value == "Not specified" {
			value = ""
		}
		current = nil
		if field, ok := scalars[label]; ok {
			*field = value
		}
		if field, ok := lists[label]; ok {
			current = field
		}
	}

	out, err := json.Marshal(jobData)
	return string(out), err
}

func TestExtract_PromptTextRoundTrip(t *testing.T) {
	original := &types.JobData{
		CompanyName:        "Acme Corp",
		JobTitle:           "Senior Python Engineer",
		JobDescription:     "Own the data ingestion platform.",
		RelevantSkills:     []string{"Python", "AWS", "Terraform"},
		RelevantExperience: "5+ years building backend services",
		Responsibilities:   []string{"Design pipelines", "Mentor engineers"},
		Requirements:       []string{},
	}

	page := "<html><body><pre>" + html.EscapeString(original.PromptText()) + "</pre></body></html>"
	session := &stubSession{html: page}
	gateway := &stubGateway{respond: echoModel}

	got, err := New(&stubLauncher{session: session}, gateway, nil).
		Extract(context.Background(), "https://example.com/jobs/7")
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestParseJobData_NullsBecomeDefaults(t *testing.T) {
	jobData, err := ParseJobData(`{"company_name": null, "relevant_skills": null, "job_title": "QA"}`)
	require.NoError(t, err)
	assert.Equal(t, "", jobData.CompanyName)
	assert.Equal(t, []string{}, jobData.RelevantSkills)
	assert.Equal(t, "QA", jobData.JobTitle)
}

func TestParseJobData_CodeFence(t *testing.T) {
	jobData, err := ParseJobData("```json\n{\"job_title\": \"Data Engineer\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", jobData.JobTitle)
}

func TestExtractionError_Error(t *testing.T) {
	err := &ExtractionError{Kind: KindParse, URL: "https://example.com", Cause: errors.New("bad json")}
	assert.Equal(t, "job extraction failed (parse) for https://example.com: bad json", err.Error())

	bare := &ExtractionError{Kind: KindFetch, URL: "https://example.com"}
	assert.Equal(t, "job extraction failed (fetch) for https://example.com", bare.Error())
}
