package ratelimit

import (
	"strings"
)

// MatchEndpoint returns the configuration governing a request, or nil when none applies.
// Config paths are either exact ("/analyze"), ServeMux-style patterns with wildcard
// segments ("/applications/{id}") or prefixes ending in "/". An empty Method matches
// any method. Exact paths win over patterns, patterns over prefixes.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	var pattern, prefix *EndpointConfig

	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != "" && cfg.Method != method {
			continue
		}

		switch {
		case cfg.Path == path:
			return cfg
		case strings.Contains(cfg.Path, "{"):
			if pattern == nil && matchPattern(cfg.Path, path) {
				pattern = cfg
			}
		case strings.HasSuffix(cfg.Path, "/"):
			if prefix == nil && strings.HasPrefix(path, cfg.Path) {
				prefix = cfg
			}
		}
	}

	if pattern != nil {
		return pattern
	}
	return prefix
}

// matchPattern reports whether path has the same segments as pattern, treating
// "{name}" segments as matching any single non-empty segment.
func matchPattern(pattern, path string) bool {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if seg != got[i] {
			return false
		}
	}
	return true
}
