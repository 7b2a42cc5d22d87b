package offline

import (
	"net/http"
	"strings"
)

// Strategy is how the worker answers one class of request
type Strategy string

const (
	// StrategyPassthrough forwards writes to the network untouched
	StrategyPassthrough Strategy = "passthrough"
	// StrategyNetworkFirst serves API reads from the network and falls back
	// to the last good copy in the dynamic cache
	StrategyNetworkFirst Strategy = "network_first"
	// StrategyCacheFirst serves static assets from the static cache
	StrategyCacheFirst Strategy = "cache_first"
	// StrategyNetworkFallback tries the network, then any cached copy
	StrategyNetworkFallback Strategy = "network_fallback"
)

// APIPrefix marks requests handled network-first
const APIPrefix = "/api/"

// SelectStrategy classifies req. Rules are checked in priority order: method,
// API prefix, static prefix or root, everything else.
func SelectStrategy(req *http.Request, staticPrefix string) Strategy {
	if req.Method != http.MethodGet {
		return StrategyPassthrough
	}

	path := req.URL.Path
	switch {
	case strings.HasPrefix(path, APIPrefix):
		return StrategyNetworkFirst
	case path == "/" || path == "" || (staticPrefix != "" && strings.HasPrefix(path, staticPrefix)):
		return StrategyCacheFirst
	default:
		return StrategyNetworkFallback
	}
}
