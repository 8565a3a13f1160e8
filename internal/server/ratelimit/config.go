package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig limits one route. A Path ending in "/" matches by prefix;
// an empty Method matches any method.
type EndpointConfig struct {
	Path   string        `koanf:"path"`
	Method string        `koanf:"method"`
	Limit  int           `koanf:"limit"`  // requests per window; 0 means unlimited
	Window time.Duration `koanf:"window"` // refill period for Limit tokens
	Burst  int           `koanf:"burst"`  // bucket capacity, defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool             `koanf:"enabled"`
	DefaultLimit    int              `koanf:"default_limit"`
	DefaultWindow   time.Duration    `koanf:"default_window"`
	CleanupInterval time.Duration    `koanf:"cleanup_interval"`
	IdleTTL         time.Duration    `koanf:"idle_ttl"`
	Whitelist       []string         `koanf:"whitelist"`
	Blacklist       []string         `koanf:"blacklist"`
	Endpoints       []EndpointConfig `koanf:"endpoints"`
}

// DefaultConfig returns limits suited to the questionnaire API.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		DefaultLimit:    300,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Endpoints:       DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the built-in per-route limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Submissions write a record and send an email.
		{Path: "/assessments", Method: http.MethodPost, Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/assessments/stream", Method: http.MethodPost, Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/assessments/preview", Method: http.MethodPost, Limit: 60, Window: time.Minute, Burst: 10},

		// Password guessing.
		{Path: "/admin/login", Method: http.MethodPost, Limit: 5, Window: 15 * time.Minute, Burst: 5},

		{Path: "/admin/", Method: http.MethodGet, Limit: 120, Window: time.Minute, Burst: 20},

		{Path: "/health", Method: http.MethodGet, Limit: 0},
		{Path: "/metrics", Method: http.MethodGet, Limit: 0},
	}
}

func toSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, v := range list {
		if v != "" {
			set[v] = true
		}
	}
	return set
}
