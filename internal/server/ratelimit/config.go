package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, "{id}" pattern or "/"-terminated prefix
	Method string        // HTTP method; empty matches any
	Limit  int           // Maximum requests per window; 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Environment variables read by LoadConfig.
const (
	EnvEnabled         = "RATE_LIMIT_ENABLED"
	EnvDefaultLimit    = "RATE_LIMIT_DEFAULT_LIMIT"
	EnvDefaultWindow   = "RATE_LIMIT_DEFAULT_WINDOW"
	EnvAnalysisLimit   = "RATE_LIMIT_ANALYSIS_LIMIT"
	EnvCleanupInterval = "RATE_LIMIT_CLEANUP_INTERVAL"
	EnvWhitelist       = "RATE_LIMIT_WHITELIST"
	EnvBlacklist       = "RATE_LIMIT_BLACKLIST"
)

// DefaultAnalysisLimit is the hourly allowance per client for each analysis endpoint.
const DefaultAnalysisLimit = 30

// LoadConfig builds rate limiting configuration from environment lookups.
// Unparseable values fall back to their defaults.
func LoadConfig(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.bool(EnvEnabled, true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.int(EnvDefaultLimit, 1000),
		DefaultWindow:   env.duration(EnvDefaultWindow, time.Minute),
		CleanupInterval: env.duration(EnvCleanupInterval, 5*time.Minute),
		Whitelist:       parseIPList(getenv(EnvWhitelist)),
		Blacklist:       parseIPList(getenv(EnvBlacklist)),
		EndpointConfigs: DefaultEndpointConfigs(env.int(EnvAnalysisLimit, DefaultAnalysisLimit)),
	}
}

// DefaultEndpointConfigs returns the built-in endpoint limits. Analysis endpoints drive a
// browser and two model calls per request, so they share a small hourly allowance.
func DefaultEndpointConfigs(analysisLimit int) []EndpointConfig {
	burst := min(analysisLimit, 3)
	return []EndpointConfig{
		{Path: "/health", Method: "GET"},
		{Path: "/submit-application", Method: "POST", Limit: analysisLimit, Window: time.Hour, Burst: burst},
		{Path: "/analyze", Method: "POST", Limit: analysisLimit, Window: time.Hour, Burst: burst},
		{Path: "/extract-job", Method: "POST", Limit: analysisLimit, Window: time.Hour, Burst: burst},
		{Path: "/applications/{id}", Method: "GET", Limit: 300, Window: time.Minute},
	}
}

type envReader func(string) string

func (e envReader) int(key string, def int) int {
	if v, err := strconv.Atoi(e(key)); err == nil {
		return v
	}
	return def
}

func (e envReader) bool(key string, def bool) bool {
	if v, err := strconv.ParseBool(e(key)); err == nil {
		return v
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(e(key)); err == nil {
		return v
	}
	return def
}

// parseIPList parses a comma-separated list of client IPs into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
