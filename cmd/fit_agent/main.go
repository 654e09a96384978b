// Package main provides the fit_agent CLI: resume-to-job fit analysis from the
// command line and as an HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-fit/internal/analysis"
	"github.com/jonathan/resume-fit/internal/config"
	"github.com/jonathan/resume-fit/internal/extraction"
	"github.com/jonathan/resume-fit/internal/fetch"
	"github.com/jonathan/resume-fit/internal/llm"
	"github.com/jonathan/resume-fit/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath   string
	providerFlag string
	apiKeyFlag   string
	modelFlag    string
	fetcherFlag  string
	verbose      bool
	jsonLogs     bool
)

var rootCmd = &cobra.Command{
	Use:   "fit_agent",
	Short: "Resume to job fit analysis",
	Long: `fit_agent scores how well a resume fits a job posting. Job postings are read from a URL
with a headless browser or given as a title and description; a language model structures the
posting and returns a 0-100 fit score with recommendations.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to a JSON config file")
	pf.StringVar(&providerFlag, "provider", "", "LLM provider: anthropic, openai or gemini")
	pf.StringVar(&apiKeyFlag, "api-key", "", "LLM API key (defaults to the provider's environment variable)")
	pf.StringVar(&modelFlag, "model", "", "Override the provider's default model")
	pf.StringVar(&fetcherFlag, "fetcher", "", "Job page fetcher: browser or http")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings resolves configuration with flags taking precedence over the
// environment, the config file and built-in defaults.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return nil, err
	}
	if err := applyFlagOverrides(cfg, cmd); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) error {
	flags := cmd.Flags()
	providerChanged := flags.Changed("provider")
	if providerChanged {
		cfg.Provider = providerFlag
	}
	if flags.Changed("api-key") {
		cfg.APIKey = apiKeyFlag
	} else if providerChanged {
		// The key resolved for the previous provider does not apply.
		cfg.APIKey = ""
		cfg.ResolveAPIKey(os.Getenv)
	}
	if flags.Changed("model") {
		cfg.Model = modelFlag
	}
	if flags.Changed("fetcher") {
		cfg.Fetcher = fetcherFlag
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("json-logs") {
		cfg.JSONLogs = jsonLogs
	}
	return cfg.Validate()
}

// components is the wired extraction and analysis stack.
type components struct {
	client    llm.Client
	extractor *extraction.Extractor
	engine    *analysis.Engine
	logger    *zap.Logger
}

func (c *components) Close() {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			c.logger.Warn("failed to close LLM client", zap.Error(err))
		}
	}
	_ = c.logger.Sync()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.JSONLogs, cfg.Verbose)
}

func buildComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*components, error) {
	if cfg.APIKey == "" {
		provider, _ := llm.ParseProvider(cfg.Provider)
		return nil, fmt.Errorf("an API key is required: pass --api-key or set %s", config.APIKeyEnvVar(provider))
	}

	llmCfg, err := cfg.LLMConfig()
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	launcher, err := newLauncher(cfg, logger)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	gateway := llm.NewGateway(client, logger)
	extractor := extraction.New(launcher, gateway, logger)
	return &components{
		client:    client,
		extractor: extractor,
		engine:    analysis.New(extractor, gateway, logger),
		logger:    logger,
	}, nil
}

func newLauncher(cfg *config.Config, logger *zap.Logger) (fetch.Launcher, error) {
	if cfg.Fetcher == config.FetcherHTTP {
		return &fetch.HTTPLauncher{Options: fetch.DefaultOptions()}, nil
	}

	settle, err := cfg.SettleDelayDuration()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.NavigationTimeoutDuration()
	if err != nil {
		return nil, err
	}

	launcher := fetch.NewChromeLauncher(logger)
	launcher.SettleDelay = settle
	launcher.Timeout = timeout
	launcher.ExecPath = cfg.ChromePath
	return launcher, nil
}
