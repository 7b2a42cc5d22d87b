package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"receipt-dashboard/internal/handlers"
)

// SecurityHeaders adds security headers to responses. Proxied dashboard
// responses keep the caching headers the backend chose.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			if strings.HasPrefix(c.Request().URL.Path, handlers.ControlPathPrefix) {
				h.Set("Content-Security-Policy", "default-src 'none'")
				h.Set("Cache-Control", "no-store")
			}

			return next(c)
		}
	}
}
