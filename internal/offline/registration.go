package offline

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"receipt-dashboard/internal/dto"
)

var ErrNoActiveWorker = errors.New("no active worker")

// Registration tracks which worker version controls requests. A newly
// registered worker waits while another is active, until it receives
// SKIP_WAITING.
type Registration struct {
	mu      sync.RWMutex
	active  *Worker
	waiting *Worker
	logger  *slog.Logger
}

func NewRegistration() *Registration {
	return &Registration{logger: slog.Default()}
}

// Register installs w. With no active worker it is activated immediately;
// otherwise it replaces any previously waiting worker.
func (r *Registration) Register(ctx context.Context, w *Worker) error {
	w.mu.Lock()
	w.registration = r
	w.mu.Unlock()

	if err := w.Install(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	if r.active == nil {
		r.active = w
		r.mu.Unlock()
		return w.Activate(ctx)
	}

	previous := r.waiting
	r.waiting = w
	r.mu.Unlock()

	if previous != nil && previous != w {
		previous.setState(StateRedundant)
	}
	w.setState(StateWaiting)
	r.logger.InfoContext(ctx, "new worker waiting",
		slog.String("version", w.Version()),
	)
	return nil
}

// promote makes the waiting worker w active; the old one becomes redundant
func (r *Registration) promote(ctx context.Context, w *Worker) error {
	r.mu.Lock()
	if r.waiting != w {
		r.mu.Unlock()
		if r.Active() == w {
			return nil
		}
		return ErrNoWaitingWorker
	}
	old := r.active
	r.active = w
	r.waiting = nil
	r.mu.Unlock()

	if old != nil {
		old.setState(StateRedundant)
	}
	return w.Activate(ctx)
}

func (r *Registration) Active() *Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

func (r *Registration) Waiting() *Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.waiting
}

// RoundTrip hands req to the active worker
func (r *Registration) RoundTrip(req *http.Request) (*http.Response, error) {
	active := r.Active()
	if active == nil {
		return nil, ErrNoActiveWorker
	}
	return active.RoundTrip(req)
}

// PostMessage routes SKIP_WAITING to the waiting worker and everything else
// to the active one
func (r *Registration) PostMessage(ctx context.Context, msg Message) (dto.WorkerMessageResponse, error) {
	target := r.Active()
	if msg.Type == MessageSkipWaiting {
		target = r.Waiting()
		if target == nil {
			return errReply(msg.Type, ErrNoWaitingWorker), nil
		}
	}
	if target == nil {
		return dto.WorkerMessageResponse{}, ErrNoActiveWorker
	}
	return target.PostMessage(ctx, msg)
}

// QueueMutation queues on the active worker
func (r *Registration) QueueMutation(ctx context.Context, tag string, req dto.QueuedRequest) error {
	active := r.Active()
	if active == nil {
		return ErrNoActiveWorker
	}
	return active.QueueMutation(ctx, tag, req)
}

// Status describes the registration for the status endpoint
func (r *Registration) Status(ctx context.Context) dto.WorkerStatus {
	status := dto.WorkerStatus{CacheNames: []string{}}

	active := r.Active()
	if waiting := r.Waiting(); waiting != nil {
		status.WaitingVersion = waiting.Version()
	}
	if active == nil {
		return status
	}

	status.ActiveVersion = active.Version()
	status.ActiveState = string(active.State())
	status.Online = active.Online()
	if names, err := active.CacheNames(ctx); err == nil {
		status.CacheNames = names
	}
	for _, tag := range active.opts.SyncTags {
		if n, err := active.queue.CountPending(ctx, tag); err == nil {
			status.PendingQueue += n
		}
	}
	return status
}
