package offline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"receipt-dashboard/internal/dto"
	"receipt-dashboard/internal/models"
)

// Sync replays the queued writes for tag in the order they were queued.
// Each acknowledged item is removed; a failed item keeps its place with the
// error and attempt count recorded, and the drain moves on to the next one.
func (w *Worker) Sync(ctx context.Context, tag string) (*dto.SyncReport, error) {
	if !w.hasTag(tag) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSyncTag, tag)
	}

	start := time.Now()
	report := &dto.SyncReport{Tag: tag}

	items, err := w.queue.FetchPending(ctx, tag, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync queue: %w", err)
	}

	for _, item := range items {
		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				break
			}
		}

		report.Attempted++
		if err := w.replay(ctx, item); err != nil {
			report.Failed++
			w.count("sync.replay", map[string]string{"tag": tag, "status": "failed"})
			w.logger.WarnContext(ctx, "queued request replay failed",
				slog.String("mutation_id", item.ID.String()),
				slog.Int("attempts", item.Attempts+1),
				slog.String("error", err.Error()),
			)
			if recErr := w.queue.RecordFailure(ctx, item.ID, err.Error()); recErr != nil {
				w.logger.ErrorContext(ctx, "failed to record replay failure",
					slog.String("mutation_id", item.ID.String()),
					slog.String("error", recErr.Error()),
				)
			}
			continue
		}

		if err := w.queue.MarkAcknowledged(ctx, item.ID); err != nil {
			// delivered but still queued; it will be sent again
			w.logger.ErrorContext(ctx, "failed to acknowledge replayed request",
				slog.String("mutation_id", item.ID.String()),
				slog.String("error", err.Error()),
			)
			report.Failed++
			continue
		}
		report.Acknowledged++
		w.count("sync.replay", map[string]string{"tag": tag, "status": "success"})
	}

	report.Remaining = w.refreshQueueDepth(ctx, tag)
	report.Duration = time.Since(start)
	w.recordTime("sync.drain", report.Duration)

	if report.Attempted > 0 {
		w.logger.InfoContext(ctx, "background sync finished",
			slog.String("tag", tag),
			slog.Int("attempted", report.Attempted),
			slog.Int("acknowledged", report.Acknowledged),
			slog.Int("failed", report.Failed),
			slog.Int64("remaining", report.Remaining),
		)
	}
	return report, nil
}

func (w *Worker) replay(ctx context.Context, item *models.PendingMutation) error {
	req, err := http.NewRequestWithContext(ctx, item.Method, w.resolve(item.URL), bytes.NewReader(item.Body))
	if err != nil {
		return err
	}
	for k, v := range item.Headers {
		req.Header.Set(k, v)
	}

	resp, err := w.fetch(req)
	if err != nil {
		return err
	}
	defer drain(resp)

	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	return nil
}
