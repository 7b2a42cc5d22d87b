package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"receipt-dashboard/internal/errors"

	"github.com/labstack/echo/v4"
)

// PanicRecovery turns a panic in a handler or in the worker's round trip into
// a SYSTEM_001 response
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					traceID := GetTraceID(c)
					if traceID == "" {
						traceID = "unknown"
					}

					slog.Error("panic recovered",
						slog.String("trace_id", traceID),
						slog.String("panic", fmt.Sprintf("%v", r)),
						slog.String("stack_trace", string(debug.Stack())),
						slog.String("path", c.Request().URL.Path),
						slog.String("method", c.Request().Method),
					)

					if c.Response().Committed {
						return
					}
					errorResponse := errors.NewErrorResponse(errors.SystemInternalError, traceID)
					if err := c.JSON(http.StatusInternalServerError, errorResponse); err != nil {
						slog.Error("failed to send panic recovery response",
							slog.String("trace_id", traceID),
							slog.String("error", err.Error()),
						)
					}
				}
			}()

			return next(c)
		}
	}
}
