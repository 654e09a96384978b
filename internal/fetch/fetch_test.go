package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	// Create test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_CustomHeaders(t *testing.T) {
	var gotUA, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	opts := &Options{Headers: map[string]string{"Accept-Language": "en-US"}}
	_, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "en-US", gotAccept)
}

func TestCleanHTML_StripsScriptsAndStyles(t *testing.T) {
	html := `
	<html>
		<head>
			<style>body { color: red; }</style>
			<script>var tracking = "secret";</script>
		</head>
		<body>
			<h1>Senior Go Engineer</h1>
			<p>Build distributed systems.</p>
			<script>window.analytics = {};</script>
		</body>
	</html>`

	text, err := CleanHTML(html)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer\nBuild distributed systems.", text)
}

func TestCleanHTML_DropsNavigationAndFooter(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Home | Careers</nav>
			<main><p>Requirements: 5 years of Go</p></main>
			<footer>Copyright</footer>
		</body>
	</html>`

	text, err := CleanHTML(html)
	require.NoError(t, err)
	assert.Contains(t, text, "Requirements: 5 years of Go")
	assert.NotContains(t, text, "Careers")
	assert.NotContains(t, text, "Copyright")
}

func TestCleanHTML_NoiseSelectors(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="job__description">Own the billing platform.</div>
			<div id="application-form">Upload your resume</div>
			<div class="eeo-statement">We are an equal opportunity employer.</div>
		</body>
	</html>`

	text, err := CleanHTML(html, PlatformNoiseSelectors(PlatformGreenhouse)...)
	require.NoError(t, err)
	assert.Equal(t, "Own the billing platform.", text)
}

func TestCleanHTML_InlineSiblingsStaySeparate(t *testing.T) {
	html := `<html><body><ul><li>Go</li><li>Kubernetes</li></ul><span>Remote</span><span>Full-time</span></body></html>`

	text, err := CleanHTML(html)
	require.NoError(t, err)
	assert.Equal(t, "Go\nKubernetes\nRemote\nFull-time", text)
}

func TestCleanHTML_DecodesEntities(t *testing.T) {
	text, err := CleanHTML(`<html><body><p>R&amp;D &gt; sales</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "R&D > sales", text)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "blank lines removed",
			input: "first\n\n\n   \nsecond",
			want:  "first\nsecond",
		},
		{
			name:  "lines trimmed",
			input: "   padded   \n\ttabbed\t",
			want:  "padded\ntabbed",
		},
		{
			name:  "double spaces split a line",
			input: "Salary  $150k    Remote",
			want:  "Salary\n$150k\nRemote",
		},
		{
			name:  "single spaces kept",
			input: "Build reliable services",
			want:  "Build reliable services",
		},
		{
			name:  "inner tabs collapsed",
			input: "Go\tand\tRust",
			want:  "Go and Rust",
		},
		{
			name:  "windows line endings",
			input: "one\r\ntwo",
			want:  "one\ntwo",
		},
		{
			name:  "empty",
			input: "  \n \n",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}
