package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig holds rate limit settings for a single endpoint pattern.
// A Limit of 0 or less means the endpoint is unlimited.
type EndpointConfig struct {
	Pattern string        // Endpoint path pattern, "*" suffix matches a prefix
	Method  string        // HTTP method, empty matches all
	Limit   int           // Requests per window
	Window  time.Duration // Time window for the limit
	Burst   int           // Bucket capacity, defaults to Limit when 0
}

// Config holds the limiter configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the limiter configuration used in production. Match
// requests are expensive (one oracle round trip per candidate) so they get a
// tight budget; the batch re-match is effectively admin-only.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		DefaultLimit:    60,
		DefaultWindow:   time.Minute,
		CleanupInterval: 10 * time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: []EndpointConfig{
			{Pattern: "/api/v1/match/batch", Method: "POST", Limit: 2, Window: time.Hour, Burst: 1},
			{Pattern: "/api/v1/match", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
			{Pattern: "/health", Limit: 0},
		},
	}
}

// LoadConfigFromEnv builds a configuration from RATE_LIMIT_* environment
// variables, falling back to defaults for anything unset.
func LoadConfigFromEnv() Config {
	config := DefaultConfig()

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		config.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("RATE_LIMIT_DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.DefaultLimit = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_DEFAULT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.DefaultWindow = d
		}
	}
	if v := os.Getenv("RATE_LIMIT_WHITELIST"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				config.Whitelist[id] = true
			}
		}
	}
	if v := os.Getenv("RATE_LIMIT_BLACKLIST"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				config.Blacklist[id] = true
			}
		}
	}

	return config
}

// MatchEndpoint finds the first endpoint configuration matching the given
// path and method. Patterns are checked in order, so more specific patterns
// must come first in the config.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != "" && cfg.Method != method {
			continue
		}
		if matchPattern(path, cfg.Pattern) {
			return cfg
		}
	}
	return nil
}

func matchPattern(path, pattern string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(path, prefix)
	}
	return path == pattern
}
