package services

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Refresher reloads whatever the dashboard is currently showing
type Refresher interface {
	Refresh(ctx context.Context) error
}

// AutoRefresher reloads the current page on a fixed interval until the
// context is cancelled
type AutoRefresher struct {
	target   Refresher
	interval time.Duration
	logger   *slog.Logger
}

func NewAutoRefresher(target Refresher, interval time.Duration) *AutoRefresher {
	return &AutoRefresher{
		target:   target,
		interval: interval,
		logger:   slog.Default(),
	}
}

// Start blocks until ctx is done
func (r *AutoRefresher) Start(ctx context.Context) {
	r.logger.Info("starting auto refresh", slog.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("auto refresh stopped")
			return

		case <-ticker.C:
			if err := r.target.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleResponse) {
				r.logger.Warn("auto refresh failed", slog.String("error", err.Error()))
			}
		}
	}
}
