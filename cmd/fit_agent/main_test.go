package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/jonathan/resume-fit/internal/config"
	"github.com/jonathan/resume-fit/internal/fetch"
	"github.com/jonathan/resume-fit/internal/resume"
	"github.com/jonathan/resume-fit/internal/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&providerFlag, "provider", "", "")
	cmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "")
	cmd.Flags().StringVar(&modelFlag, "model", "", "")
	cmd.Flags().StringVar(&fetcherFlag, "fetcher", "", "")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "")
	cmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "")
	return cmd
}

func TestApplyFlagOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "openai-key")

	cfg := config.Defaults()
	cfg.APIKey = "anthropic-key"

	cmd := newFlagCommand()
	require.NoError(t, cmd.Flags().Set("provider", "openai"))
	require.NoError(t, cmd.Flags().Set("model", "gpt-4o-mini"))
	require.NoError(t, cmd.Flags().Set("fetcher", "http"))
	require.NoError(t, cmd.Flags().Set("verbose", "true"))

	require.NoError(t, applyFlagOverrides(&cfg, cmd))

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "openai-key", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, config.FetcherHTTP, cfg.Fetcher)
	assert.True(t, cfg.Verbose)
}

func TestApplyFlagOverrides_ExplicitKeyWins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg := config.Defaults()
	cmd := newFlagCommand()
	require.NoError(t, cmd.Flags().Set("provider", "gemini"))
	require.NoError(t, cmd.Flags().Set("api-key", "flag-key"))

	require.NoError(t, applyFlagOverrides(&cfg, cmd))
	assert.Equal(t, "flag-key", cfg.APIKey)
}

func TestApplyFlagOverrides_Invalid(t *testing.T) {
	cfg := config.Defaults()
	cmd := newFlagCommand()
	require.NoError(t, cmd.Flags().Set("fetcher", "curl"))

	err := applyFlagOverrides(&cfg, cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher")
}

func TestNewLauncher(t *testing.T) {
	t.Run("http", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Fetcher = config.FetcherHTTP

		launcher, err := newLauncher(&cfg, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &fetch.HTTPLauncher{}, launcher)
	})

	t.Run("browser", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.SettleDelay = "2s"
		cfg.NavigationTimeout = "45s"
		cfg.ChromePath = "/usr/bin/chromium"

		launcher, err := newLauncher(&cfg, zap.NewNop())
		require.NoError(t, err)
		chrome, ok := launcher.(*fetch.ChromeLauncher)
		require.True(t, ok)
		assert.Equal(t, 2*time.Second, chrome.SettleDelay)
		assert.Equal(t, 45*time.Second, chrome.Timeout)
		assert.Equal(t, "/usr/bin/chromium", chrome.ExecPath)
	})

	t.Run("default settle delay", func(t *testing.T) {
		cfg := config.Defaults()

		launcher, err := newLauncher(&cfg, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, fetch.DefaultSettleDelay, launcher.(*fetch.ChromeLauncher).SettleDelay)
	})
}

func TestBuildComponents_RequiresAPIKey(t *testing.T) {
	cfg := config.Defaults()
	cfg.APIKey = ""

	_, err := buildComponents(t.Context(), &cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestPrintResult(t *testing.T) {
	result := &types.AnalysisResult{
		FitScore: 72,
		Insights: []string{"Lead with Go experience", "Add Kubernetes projects"},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printResult(&buf, result, false))
		assert.Equal(t, "Fit score: 72/100\n\nRecommendations:\n  1. Lead with Go experience\n  2. Add Kubernetes projects\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printResult(&buf, result, true))
		assert.JSONEq(t, `{"fit_score":72,"insights":["Lead with Go experience","Add Kubernetes projects"]}`, buf.String())
	})
}

func TestRunAnalyze_InputErrors(t *testing.T) {
	dir := t.TempDir()
	textResume := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(textResume, []byte("Go developer"), 0o600))
	odtResume := filepath.Join(dir, "resume.odt")
	require.NoError(t, os.WriteFile(odtResume, []byte("x"), 0o600))

	t.Cleanup(func() {
		analyzeResume, analyzeJobURL, analyzeJobTitle, analyzeDescription = "", "", "", ""
	})

	t.Run("missing file", func(t *testing.T) {
		analyzeResume, analyzeJobURL, analyzeDescription = filepath.Join(dir, "nope.pdf"), "", "Go"
		err := runAnalyze(&cobra.Command{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read resume")
	})

	t.Run("unsupported type", func(t *testing.T) {
		analyzeResume, analyzeJobURL, analyzeDescription = odtResume, "", "Go"
		err := runAnalyze(&cobra.Command{}, nil)
		assert.ErrorIs(t, err, resume.ErrUnsupportedType)
	})

	t.Run("invalid url", func(t *testing.T) {
		analyzeResume, analyzeJobURL, analyzeDescription = textResume, "jobs.example.com", ""
		err := runAnalyze(&cobra.Command{}, nil)
		var reqErr *analysis.RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, "job_url", reqErr.Field)
	})
}

func TestRunExtractJob_InvalidURL(t *testing.T) {
	t.Cleanup(func() { extractURL = "" })
	extractURL = "not a url"

	err := runExtractJob(&cobra.Command{}, nil)
	var reqErr *analysis.RequestError
	require.ErrorAs(t, err, &reqErr)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"analyze", "extract-job", "serve"} {
		assert.True(t, names[want], want)
	}
}
