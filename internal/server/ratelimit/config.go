package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/resume-screener/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// NewConfig builds the limiter configuration from the application settings
// with the default per-endpoint limits.
func NewConfig(settings config.RateLimitConfig) *Config {
	if !settings.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    settings.DefaultLimit,
		DefaultWindow:   settings.DefaultWindow,
		CleanupInterval: settings.CleanupInterval,
		IdleTimeout:     settings.IdleTimeout,
		Whitelist:       ipSet(settings.Whitelist),
		Blacklist:       ipSet(settings.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model-backed operations
		{Path: "/rank", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/rewrite", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Screening and rendering
		{Path: "/analyze", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/analyze/text", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/render", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		// Credential endpoints
		{Path: "/auth/register", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/auth/password", Method: "PUT", Limit: 10, Window: time.Minute, Burst: 3},

		// Reads use the default limit; /health and /swagger/ are unlimited (see MatchEndpoint)
	}
}

// ipSet trims the addresses and drops empty entries.
func ipSet(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
