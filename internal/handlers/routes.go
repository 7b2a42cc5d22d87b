package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the control endpoints. Everything else is handled by
// the proxy middleware.
func RegisterRoutes(e *echo.Echo, health *HealthCheckHandler, worker *WorkerHandler, preferences *PreferenceHandler) {
	e.GET(MetricsPath, echo.WrapHandler(promhttp.Handler()))
	e.GET("/__health", health.HealthCheck)

	w := e.Group("/__worker")
	w.POST("/message", worker.PostMessage)
	w.GET("/status", worker.Status)

	p := e.Group("/__dashboard/preferences")
	p.GET("", preferences.List)
	p.GET("/:key", preferences.Get)
	p.PUT("/:key", preferences.Put)
}
