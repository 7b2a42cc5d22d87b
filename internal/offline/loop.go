package offline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"receipt-dashboard/internal/dto"
	"receipt-dashboard/internal/models"
	"receipt-dashboard/internal/validation"
)

// Run handles control messages, connectivity probes and sync requests until
// ctx is done
func (w *Worker) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("worker is already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	w.logger.Info("starting offline worker",
		slog.Duration("probe_interval", w.opts.ProbeInterval),
		slog.Any("sync_tags", w.opts.SyncTags),
	)

	ticker := time.NewTicker(w.opts.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("offline worker stopped")
			return ctx.Err()

		case msg := <-w.messages:
			msg.reply <- w.handle(ctx, msg)

		case tag := <-w.syncs:
			if _, err := w.Sync(ctx, tag); err != nil {
				w.logger.Error("background sync failed",
					slog.String("tag", tag),
					slog.String("error", err.Error()),
				)
			}

		case <-ticker.C:
			if !w.Online() {
				w.probe(ctx)
			}
		}
	}
}

// PostMessage delivers msg to the Run loop and waits for the reply
func (w *Worker) PostMessage(ctx context.Context, msg Message) (dto.WorkerMessageResponse, error) {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()
	if !running {
		return dto.WorkerMessageResponse{}, ErrWorkerNotRunning
	}

	msg.reply = make(chan dto.WorkerMessageResponse, 1)
	select {
	case w.messages <- msg:
	case <-ctx.Done():
		return dto.WorkerMessageResponse{}, ctx.Err()
	}

	select {
	case reply := <-msg.reply:
		return reply, nil
	case <-ctx.Done():
		return dto.WorkerMessageResponse{}, ctx.Err()
	}
}

// QueueMutation asks the worker to hold req until the backend is reachable
func (w *Worker) QueueMutation(ctx context.Context, tag string, req dto.QueuedRequest) error {
	reply, err := w.PostMessage(ctx, Message{Type: MessageQueueMutation, Tag: tag, Mutation: &req})
	if err != nil {
		return err
	}
	if !reply.OK {
		return errors.New(reply.Error)
	}
	return nil
}

func (w *Worker) handle(ctx context.Context, msg Message) dto.WorkerMessageResponse {
	reply := w.dispatch(ctx, msg)

	status := "success"
	if !reply.OK {
		status = "failed"
		w.logger.WarnContext(ctx, "control message failed",
			slog.String("type", string(msg.Type)),
			slog.String("error", reply.Error),
		)
	}
	w.count("worker.message", map[string]string{"type": string(msg.Type), "status": status})
	return reply
}

func (w *Worker) dispatch(ctx context.Context, msg Message) dto.WorkerMessageResponse {
	switch msg.Type {
	case MessageSkipWaiting:
		w.mu.RLock()
		reg := w.registration
		w.mu.RUnlock()
		if reg == nil {
			return errReply(msg.Type, ErrNoWaitingWorker)
		}
		if err := reg.promote(ctx, w); err != nil {
			return errReply(msg.Type, err)
		}
		return okReply(msg.Type, VersionInfo{Version: w.Version(), State: string(w.State())})

	case MessageQueueMutation:
		id, err := w.enqueue(ctx, msg.Tag, msg.Mutation)
		if err != nil {
			return errReply(msg.Type, err)
		}
		if w.Online() {
			w.requestSync(msg.Tag)
		}
		return okReply(msg.Type, map[string]string{"id": id})

	case MessageSync:
		tag := msg.Tag
		if tag == "" && len(w.opts.SyncTags) > 0 {
			tag = w.opts.SyncTags[0]
		}
		report, err := w.Sync(ctx, tag)
		if err != nil {
			return errReply(msg.Type, err)
		}
		return okReply(msg.Type, report)

	case MessageClearCache:
		names, err := w.ClearCaches(ctx)
		if err != nil {
			return errReply(msg.Type, err)
		}
		return okReply(msg.Type, map[string][]string{"deleted": names})

	case MessageGetVersion:
		return okReply(msg.Type, VersionInfo{Version: w.Version(), State: string(w.State())})

	default:
		return errReply(msg.Type, fmt.Errorf("unsupported message type %q", msg.Type))
	}
}

func (w *Worker) enqueue(ctx context.Context, tag string, req *dto.QueuedRequest) (string, error) {
	if !w.hasTag(tag) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSyncTag, tag)
	}
	if req == nil {
		return "", errors.New("mutation is required")
	}
	if err := validation.GetValidator().Struct(req); err != nil {
		return "", fmt.Errorf("invalid mutation: %w", err)
	}

	mutation := &models.PendingMutation{
		Tag:     tag,
		Method:  req.Method,
		URL:     req.URL,
		Headers: models.HeaderMap(req.Headers),
		Body:    req.Body,
	}
	if err := w.queue.Enqueue(ctx, mutation); err != nil {
		return "", err
	}

	w.logger.InfoContext(ctx, "queued request for background sync",
		slog.String("tag", tag),
		slog.String("mutation_id", mutation.ID.String()),
		slog.String("method", mutation.Method),
		slog.String("url", mutation.URL),
	)
	w.refreshQueueDepth(ctx, tag)
	return mutation.ID.String(), nil
}

// probe hits the health endpoint so a recovered backend closes the breaker
func (w *Worker) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, w.resolve(w.opts.HealthPath), nil)
	if err != nil {
		return
	}
	resp, err := w.fetch(req)
	if err != nil {
		w.logger.Debug("connectivity probe failed", slog.String("error", err.Error()))
		return
	}
	drain(resp)
}

func (w *Worker) hasTag(tag string) bool {
	for _, t := range w.opts.SyncTags {
		if t == tag {
			return true
		}
	}
	return false
}

func (w *Worker) refreshQueueDepth(ctx context.Context, tag string) int64 {
	depth, err := w.queue.CountPending(ctx, tag)
	if err != nil {
		w.logger.WarnContext(ctx, "failed to count pending mutations",
			slog.String("tag", tag),
			slog.String("error", err.Error()),
		)
		return 0
	}
	w.gauge("queue.depth", float64(depth), map[string]string{"tag": tag})
	return depth
}
