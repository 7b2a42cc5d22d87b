package handlers

import (
	"context"
	"net/http"
	"time"

	"receipt-dashboard/internal/dto"
	"receipt-dashboard/internal/errors"

	"github.com/labstack/echo/v4"
)

// DatabasePinger is satisfied by *database.DB
type DatabasePinger interface {
	HealthCheck() error
}

// WorkerStatusProvider is satisfied by *offline.Registration
type WorkerStatusProvider interface {
	Status(ctx context.Context) dto.WorkerStatus
}

// HealthCheckHandler reports whether the proxy itself can serve requests.
// Backend health is not part of it: the backend being down is what the
// worker exists for.
type HealthCheckHandler struct {
	db     DatabasePinger
	worker WorkerStatusProvider
}

// NewHealthCheckHandler creates a new health check handler
func NewHealthCheckHandler(db DatabasePinger, worker WorkerStatusProvider) *HealthCheckHandler {
	return &HealthCheckHandler{db: db, worker: worker}
}

// HealthCheck serves GET /__health
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	if err := h.db.HealthCheck(); err != nil {
		return SendError(c, errors.SystemServiceUnavailable, errors.WithDetails("Database connection failed"))
	}

	status := h.worker.Status(c.Request().Context())
	if status.ActiveVersion == "" {
		return SendError(c, errors.SystemServiceUnavailable, errors.WithDetails("No active offline worker"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"time":           time.Now().UTC().Format(time.RFC3339),
		"worker_version": status.ActiveVersion,
		"backend_online": status.Online,
	})
}
