package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	// ControlPathPrefix covers the proxy's own endpoints, which must never be cached
	ControlPathPrefix = "/__"
	// MetricsPath is served by the proxy itself and never forwarded
	MetricsPath = "/metrics"
)

// NewProxy forwards every request that is not a control endpoint to origin
// through transport, which is the worker registration. Transport errors
// surface as 502 through the error handler.
func NewProxy(origin string, transport http.RoundTripper) (echo.MiddlewareFunc, error) {
	target, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid backend origin: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid backend origin %q: scheme and host are required", origin)
	}

	return echomiddleware.ProxyWithConfig(echomiddleware.ProxyConfig{
		Skipper: isLocalPath,
		Balancer: echomiddleware.NewRoundRobinBalancer([]*echomiddleware.ProxyTarget{
			{Name: "backend", URL: target},
		}),
		Transport: transport,
	}), nil
}

func isLocalPath(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, ControlPathPrefix) || path == MetricsPath
}
