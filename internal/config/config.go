// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-fit/internal/llm"
)

// Fetcher names.
const (
	FetcherBrowser = "browser"
	FetcherHTTP    = "http"
)

// Defaults applied when neither the config file, the environment nor a flag sets a value.
const (
	DefaultFetcher     = FetcherBrowser
	DefaultSettleDelay = "5s"
	DefaultPort        = 8080
	DefaultUploadDir   = "uploads"
	DefaultCORSOrigin  = "*"
)

// Config represents configuration that can be loaded from a JSON file and the environment.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Model backend
	Provider string `json:"provider,omitempty"` // gemini, anthropic or openai
	APIKey   string `json:"api_key,omitempty"`  // Backend API key
	Model    string `json:"model,omitempty"`    // Overrides the provider's default model
	BaseURL  string `json:"base_url,omitempty"` // OpenAI-compatible endpoint

	// Job page fetching
	Fetcher           string `json:"fetcher,omitempty"`            // browser or http
	SettleDelay       string `json:"settle_delay,omitempty"`       // Wait after navigation, e.g. "5s"
	NavigationTimeout string `json:"navigation_timeout,omitempty"` // Optional bound per page load
	ChromePath        string `json:"chrome_path,omitempty"`        // Chrome binary override

	// Server
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`
	UploadDir   string `json:"upload_dir,omitempty"`
	CORSOrigin  string `json:"cors_origin,omitempty"`

	// Behavior
	Verbose  bool `json:"verbose,omitempty"`   // Debug logging
	JSONLogs bool `json:"json_logs,omitempty"` // JSON log encoding
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Provider:    string(llm.ProviderAnthropic),
		Fetcher:     DefaultFetcher,
		SettleDelay: DefaultSettleDelay,
		Port:        DefaultPort,
		UploadDir:   DefaultUploadDir,
		CORSOrigin:  DefaultCORSOrigin,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables through getenv.
// Provider-specific API keys are resolved later by ResolveAPIKey.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Provider:          getenv("LLM_PROVIDER"),
		APIKey:            getenv("LLM_API_KEY"),
		Model:             getenv("LLM_MODEL"),
		BaseURL:           getenv("OPENAI_BASE_URL"),
		Fetcher:           getenv("FETCHER"),
		SettleDelay:       getenv("SETTLE_DELAY"),
		NavigationTimeout: getenv("NAVIGATION_TIMEOUT"),
		ChromePath:        getenv("CHROME_PATH"),
		DatabaseURL:       getenv("DATABASE_URL"),
		UploadDir:         getenv("UPLOAD_DIR"),
		CORSOrigin:        getenv("CORS_ORIGIN"),
	}

	if port := getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return Config{}, fmt.Errorf("config error: invalid PORT %q: %w", port, err)
		}
		cfg.Port = p
	}

	return cfg, nil
}

// APIKeyEnvVar names the environment variable holding the key for provider.
func APIKeyEnvVar(provider llm.Provider) string {
	switch provider {
	case llm.ProviderGemini:
		return "GEMINI_API_KEY"
	case llm.ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "ANTHROPIC_API_KEY"
	}
}

// ResolveAPIKey fills an empty APIKey from the provider's environment variable.
func (c *Config) ResolveAPIKey(getenv func(string) string) {
	if c.APIKey != "" {
		return
	}
	provider, err := llm.ParseProvider(c.Provider)
	if err != nil {
		return
	}
	c.APIKey = getenv(APIKeyEnvVar(provider))
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Provider != "" {
		if _, err := llm.ParseProvider(c.Provider); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	switch strings.ToLower(c.Fetcher) {
	case "", FetcherBrowser, FetcherHTTP:
	default:
		return fmt.Errorf("config error: 'fetcher' must be %q or %q, got %q", FetcherBrowser, FetcherHTTP, c.Fetcher)
	}

	if _, err := parseDuration("settle_delay", c.SettleDelay); err != nil {
		return err
	}
	if _, err := parseDuration("navigation_timeout", c.NavigationTimeout); err != nil {
		return err
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	return nil
}

// SettleDelayDuration returns the parsed settle delay, or zero when unset.
func (c *Config) SettleDelayDuration() (time.Duration, error) {
	return parseDuration("settle_delay", c.SettleDelay)
}

// NavigationTimeoutDuration returns the parsed navigation timeout, or zero when unset.
func (c *Config) NavigationTimeoutDuration() (time.Duration, error) {
	return parseDuration("navigation_timeout", c.NavigationTimeout)
}

func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid '%s' %q: %w", key, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config error: '%s' must be non-negative", key)
	}
	return d, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer config file values over environment values and built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Provider, defaults.Provider)
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.Model, defaults.Model)
	fill(&result.BaseURL, defaults.BaseURL)
	fill(&result.Fetcher, defaults.Fetcher)
	fill(&result.SettleDelay, defaults.SettleDelay)
	fill(&result.NavigationTimeout, defaults.NavigationTimeout)
	fill(&result.ChromePath, defaults.ChromePath)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.UploadDir, defaults.UploadDir)
	fill(&result.CORSOrigin, defaults.CORSOrigin)

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so either source enables them
	result.Verbose = result.Verbose || defaults.Verbose
	result.JSONLogs = result.JSONLogs || defaults.JSONLogs

	return result
}

// Load resolves the effective configuration. Environment values win over the
// optional file at path, which wins over built-in defaults. The API key is
// resolved for the final provider.
func Load(path string, getenv func(string) string) (*Config, error) {
	fileCfg := &Config{}
	if path != "" {
		var err error
		fileCfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}
	base := fileCfg.MergeWithDefaults(Defaults())

	envCfg, err := FromEnv(getenv)
	if err != nil {
		return nil, err
	}

	cfg := envCfg.MergeWithDefaults(base)
	cfg.ResolveAPIKey(getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LLMConfig returns the model configuration for the selected provider, with the
// model override applied to every tier.
func (c *Config) LLMConfig() (*llm.Config, error) {
	provider, err := llm.ParseProvider(c.Provider)
	if err != nil {
		return nil, err
	}

	cfg := llm.ConfigFor(provider)
	if c.Model != "" {
		for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
			cfg = cfg.WithModel(tier, c.Model)
		}
	}
	cfg.BaseURL = c.BaseURL
	return cfg, nil
}
