package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path; a trailing "/" other than the root means prefix match
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(
			getEnvInt("RATE_LIMIT_PROSPECT_LIMIT", 20),
			getEnvDuration("RATE_LIMIT_PROSPECT_WINDOW", time.Hour),
		),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific limits. Prospecting
// runs share prospectLimit per prospectWindow; the probe is cheaper.
func DefaultEndpointConfigs(prospectLimit int, prospectWindow time.Duration) []EndpointConfig {
	burst := max(1, prospectLimit/10)
	return []EndpointConfig{
		// Expensive: each run fans out to many provider calls
		{Path: "/", Method: "POST", Limit: prospectLimit, Window: prospectWindow, Burst: burst},
		{Path: "/prospect", Method: "POST", Limit: prospectLimit, Window: prospectWindow, Burst: burst},
		{Path: "/geo-prospector", Method: "POST", Limit: prospectLimit, Window: prospectWindow, Burst: burst},

		// Probe: one provider call
		{Path: "/test-api", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/test-api", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
