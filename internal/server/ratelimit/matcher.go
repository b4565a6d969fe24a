package ratelimit

import (
	"net/http"
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns nil when no configuration applies. Health checks and CORS
// preflights are unlimited.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if (path == "/health" && method == http.MethodGet) || method == http.MethodOptions {
		return &EndpointConfig{Limit: 0}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	// Prefix match, never for the root path
	for i := range configs {
		config := &configs[i]
		if config.Method == method && config.Path != "/" && strings.HasSuffix(config.Path, "/") &&
			strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	// Gateway-prefixed paths are limited by their last segment
	trimmed := strings.TrimRight(path, "/")
	if i := strings.LastIndex(trimmed, "/"); i > 0 {
		last := trimmed[i:]
		for j := range configs {
			config := &configs[j]
			if config.Path == last && config.Method == method {
				return config
			}
		}
	}

	return nil
}
