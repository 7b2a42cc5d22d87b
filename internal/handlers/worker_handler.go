package handlers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"receipt-dashboard/internal/dto"
	"receipt-dashboard/internal/errors"
	"receipt-dashboard/internal/offline"

	"github.com/labstack/echo/v4"
)

// WorkerController is satisfied by *offline.Registration
type WorkerController interface {
	PostMessage(ctx context.Context, msg offline.Message) (dto.WorkerMessageResponse, error)
	Status(ctx context.Context) dto.WorkerStatus
}

// WorkerHandler exposes the worker's control-message protocol over HTTP
type WorkerHandler struct {
	worker WorkerController
	logger *slog.Logger
}

func NewWorkerHandler(worker WorkerController) *WorkerHandler {
	return &WorkerHandler{worker: worker, logger: slog.Default()}
}

// PostMessage serves POST /__worker/message. A message the worker rejects
// is answered with 409 and the worker's reply as the body.
func (h *WorkerHandler) PostMessage(c echo.Context) error {
	var req dto.WorkerMessageRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.SyncInvalidMessage, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return SendError(c, errors.SyncInvalidMessage, errors.WithDetails(err.Error()))
	}
	if offline.MessageType(req.Type) == offline.MessageQueueMutation && req.Mutation == nil {
		return SendError(c, errors.SyncInvalidMessage, errors.WithDetails("mutation is required for QUEUE_MUTATION"))
	}

	ctx := c.Request().Context()
	reply, err := h.worker.PostMessage(ctx, offline.MessageFromRequest(req))
	if err != nil {
		if stderrors.Is(err, offline.ErrNoActiveWorker) || stderrors.Is(err, offline.ErrWorkerNotRunning) {
			return SendError(c, errors.SystemServiceUnavailable, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	h.logger.InfoContext(ctx, "control message handled",
		slog.String("trace_id", getTraceID(c)),
		slog.String("type", req.Type),
		slog.Bool("ok", reply.OK),
		slog.String("client_ip", getClientIP(c)),
	)

	if !reply.OK {
		return c.JSON(http.StatusConflict, reply)
	}
	return c.JSON(http.StatusOK, reply)
}

// Status serves GET /__worker/status
func (h *WorkerHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.worker.Status(c.Request().Context()))
}
