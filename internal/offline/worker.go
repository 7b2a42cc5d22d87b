package offline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"receipt-dashboard/internal/config"
	"receipt-dashboard/internal/models"
	"receipt-dashboard/internal/repositories"
	"receipt-dashboard/internal/services"

	"golang.org/x/time/rate"
)

var (
	ErrInstallFailed    = errors.New("static asset install failed")
	ErrUnknownSyncTag   = errors.New("unknown sync tag")
	ErrWorkerNotRunning = errors.New("worker is not running")
	ErrNoWaitingWorker  = errors.New("no waiting worker")
)

// WorkerState is a worker's place in the registration lifecycle
type WorkerState string

const (
	StateInstalling WorkerState = "installing"
	StateWaiting    WorkerState = "waiting"
	StateActive     WorkerState = "active"
	StateRedundant  WorkerState = "redundant"
)

// Options configure one worker version
type Options struct {
	Version          string
	Origin           string
	StaticCacheName  string
	DynamicCacheName string
	StaticPrefix     string
	Manifest         []string
	SyncTags         []string
	HealthPath       string
	ProbeInterval    time.Duration
	ReplaysPerSecond int
}

// OptionsFromConfig builds worker options from the application config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Version:          cfg.Cache.Version,
		Origin:           cfg.Backend.BaseURL,
		StaticCacheName:  cfg.Cache.StaticCacheName(),
		DynamicCacheName: cfg.Cache.DynamicCacheName(),
		StaticPrefix:     cfg.Cache.StaticPrefix,
		Manifest:         cfg.Cache.StaticManifest,
		SyncTags:         []string{cfg.Sync.Tag},
		HealthPath:       cfg.Sync.HealthPath,
		ProbeInterval:    cfg.Sync.ProbeInterval,
		ReplaysPerSecond: cfg.Sync.ReplaysPerSecond,
	}
}

// Worker sits between the dashboard and the backend. It answers every
// request with a per-class caching strategy, queues writes that could not be
// delivered and replays them once the backend is reachable again.
type Worker struct {
	opts     Options
	origin   *url.URL
	upstream http.RoundTripper
	storage  Storage
	queue    repositories.PendingMutationRepositoryInterface
	breaker  *services.CircuitBreaker
	metrics  services.MetricsRecorderInterface
	limiter  *rate.Limiter
	logger   *slog.Logger

	messages chan Message
	syncs    chan string

	mu           sync.RWMutex
	state        WorkerState
	registration *Registration
	running      bool
}

func NewWorker(
	opts Options,
	upstream http.RoundTripper,
	storage Storage,
	queue repositories.PendingMutationRepositoryInterface,
	breaker *services.CircuitBreaker,
	metrics services.MetricsRecorderInterface,
) (*Worker, error) {
	origin, err := url.Parse(opts.Origin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("invalid upstream origin %q", opts.Origin)
	}
	if upstream == nil {
		upstream = http.DefaultTransport
	}
	if breaker == nil {
		breaker = services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig())
	}
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = 15 * time.Second
	}

	w := &Worker{
		opts:     opts,
		origin:   origin,
		upstream: upstream,
		storage:  storage,
		queue:    queue,
		breaker:  breaker,
		metrics:  metrics,
		logger:   slog.Default().With(slog.String("worker_version", opts.Version)),
		messages: make(chan Message),
		syncs:    make(chan string, len(opts.SyncTags)+1),
		state:    StateInstalling,
	}
	if opts.ReplaysPerSecond > 0 {
		w.limiter = rate.NewLimiter(rate.Limit(opts.ReplaysPerSecond), 1)
	}

	breaker.OnStateChange(w.onConnectivityChange)
	return w, nil
}

func (w *Worker) Version() string {
	return w.opts.Version
}

func (w *Worker) State() WorkerState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Worker) setState(state WorkerState) {
	w.mu.Lock()
	from := w.state
	w.state = state
	w.mu.Unlock()

	if from != state {
		w.logger.Info("worker state changed",
			slog.String("from", string(from)),
			slog.String("to", string(state)),
		)
	}
}

// Online reports whether the upstream is currently considered reachable
func (w *Worker) Online() bool {
	return w.breaker.GetState() == models.CircuitClosed
}

// Install fetches every manifest URL and stores it in the static cache. Any
// failure deletes what was stored and makes the worker redundant.
func (w *Worker) Install(ctx context.Context) error {
	w.setState(StateInstalling)

	for _, path := range w.opts.Manifest {
		if err := w.precache(ctx, path); err != nil {
			if delErr := w.storage.DeleteCache(ctx, w.opts.StaticCacheName); delErr != nil {
				w.logger.ErrorContext(ctx, "failed to discard partial static cache",
					slog.String("cache", w.opts.StaticCacheName),
					slog.String("error", delErr.Error()),
				)
			}
			w.setState(StateRedundant)
			w.count("worker.install", map[string]string{"status": "failed"})
			w.logger.ErrorContext(ctx, "worker install failed",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("%w: %s: %v", ErrInstallFailed, path, err)
		}
	}

	w.count("worker.install", map[string]string{"status": "success"})
	w.logger.InfoContext(ctx, "static assets cached",
		slog.String("cache", w.opts.StaticCacheName),
		slog.Int("assets", len(w.opts.Manifest)),
	)
	return nil
}

func (w *Worker) precache(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.resolve(path), nil)
	if err != nil {
		return err
	}

	resp, err := w.upstream.RoundTrip(req)
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		drain(resp)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	entry, err := Capture(resp)
	if err != nil {
		return err
	}
	return w.storage.Put(ctx, w.opts.StaticCacheName, CacheKey(req), entry)
}

// Activate deletes every cache that does not belong to this version
func (w *Worker) Activate(ctx context.Context) error {
	names, err := w.storage.CacheNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list caches: %w", err)
	}

	for _, name := range names {
		if name == w.opts.StaticCacheName || name == w.opts.DynamicCacheName {
			continue
		}
		if err := w.storage.DeleteCache(ctx, name); err != nil {
			return fmt.Errorf("failed to delete cache %s: %w", name, err)
		}
		w.logger.InfoContext(ctx, "deleted outdated cache", slog.String("cache", name))
	}

	w.setState(StateActive)
	return nil
}

// RoundTrip answers req with the strategy for its request class
func (w *Worker) RoundTrip(req *http.Request) (*http.Response, error) {
	strategy := SelectStrategy(req, w.opts.StaticPrefix)
	start := time.Now()
	defer func() {
		w.recordTime("upstream."+string(strategy), time.Since(start))
	}()

	var resp *http.Response
	var source string
	switch strategy {
	case StrategyPassthrough:
		resp, source = w.passthrough(req)
	case StrategyNetworkFirst:
		resp, source = w.networkFirst(req)
	case StrategyCacheFirst:
		resp, source = w.cacheFirst(req)
	default:
		resp, source = w.networkFallback(req)
	}

	if err := req.Context().Err(); err != nil && source == "offline" {
		return nil, err
	}

	w.count("cache.request", map[string]string{
		"strategy": string(strategy),
		"source":   source,
	})
	return resp, nil
}

func (w *Worker) passthrough(req *http.Request) (*http.Response, string) {
	resp, err := w.fetch(req)
	if err != nil {
		w.logger.WarnContext(req.Context(), "write could not reach upstream",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return OfflineResponse(req), "offline"
	}
	return resp, "network"
}

func (w *Worker) networkFirst(req *http.Request) (*http.Response, string) {
	ctx := req.Context()
	key := CacheKey(req)

	resp, err := w.fetch(req)
	if err == nil && resp.StatusCode < http.StatusInternalServerError {
		if isSuccess(resp.StatusCode) {
			w.store(ctx, w.opts.DynamicCacheName, key, resp)
		}
		return resp, "network"
	}

	// a 5xx is kept so it can be returned when there is no cached copy
	var serverError *CachedResponse
	if err == nil {
		serverError, _ = Capture(resp)
	}

	if cached := w.lookup(ctx, w.opts.DynamicCacheName, key); cached != nil {
		return cached.Response(req), "cache"
	}
	if serverError != nil {
		return serverError.Response(req), "network"
	}
	return OfflineResponse(req), "offline"
}

func (w *Worker) cacheFirst(req *http.Request) (*http.Response, string) {
	ctx := req.Context()
	key := CacheKey(req)

	if cached := w.lookup(ctx, w.opts.StaticCacheName, key); cached != nil {
		return cached.Response(req), "cache"
	}

	resp, err := w.fetch(req)
	if err != nil {
		return OfflineResponse(req), "offline"
	}
	if isSuccess(resp.StatusCode) {
		w.store(ctx, w.opts.StaticCacheName, key, resp)
	}
	return resp, "network"
}

func (w *Worker) networkFallback(req *http.Request) (*http.Response, string) {
	ctx := req.Context()
	key := CacheKey(req)

	resp, err := w.fetch(req)
	if err == nil && resp.StatusCode < http.StatusInternalServerError {
		return resp, "network"
	}
	if err == nil {
		drain(resp)
	}

	for _, name := range []string{w.opts.StaticCacheName, w.opts.DynamicCacheName} {
		if cached := w.lookup(ctx, name, key); cached != nil {
			return cached.Response(req), "cache"
		}
	}
	return OfflineResponse(req), "offline"
}

// fetch sends req upstream and feeds the outcome to the circuit breaker.
// A transport error or 5xx counts as a failure. The breaker only tracks
// connectivity; the network is always tried.
func (w *Worker) fetch(req *http.Request) (*http.Response, error) {
	resp, err := w.upstream.RoundTrip(req)
	if err != nil {
		if req.Context().Err() == nil {
			w.breaker.RecordFailure()
		}
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		w.breaker.RecordFailure()
	} else {
		w.breaker.RecordSuccess()
	}
	return resp, nil
}

// store writes a copy of resp. Failures are logged and otherwise ignored.
func (w *Worker) store(ctx context.Context, cacheName, key string, resp *http.Response) {
	entry, err := Capture(resp)
	if err == nil {
		err = w.storage.Put(ctx, cacheName, key, entry)
	}
	if err != nil {
		w.count("cache.write.failed", map[string]string{"cache": cacheName})
		w.logger.WarnContext(ctx, "cache write failed",
			slog.String("cache", cacheName),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func (w *Worker) lookup(ctx context.Context, cacheName, key string) *CachedResponse {
	entry, err := w.storage.Get(ctx, cacheName, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			w.logger.WarnContext(ctx, "cache read failed",
				slog.String("cache", cacheName),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}
	return entry
}

// ClearCaches deletes every cache, including the current version's
func (w *Worker) ClearCaches(ctx context.Context) ([]string, error) {
	names, err := w.storage.CacheNames(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := w.storage.DeleteCache(ctx, name); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// CacheNames lists the caches currently held by storage
func (w *Worker) CacheNames(ctx context.Context) ([]string, error) {
	return w.storage.CacheNames(ctx)
}

func (w *Worker) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return w.origin.String() + path
	}
	return w.origin.ResolveReference(ref).String()
}

func (w *Worker) onConnectivityChange(from, to models.CircuitBreakerState) {
	w.count("circuit_breaker."+to.String(), map[string]string{"service": "backend"})
	w.logger.Info("upstream connectivity changed",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)

	if to != models.CircuitClosed {
		return
	}
	for _, tag := range w.opts.SyncTags {
		w.requestSync(tag)
	}
}

// requestSync schedules a drain on the Run loop without blocking
func (w *Worker) requestSync(tag string) {
	select {
	case w.syncs <- tag:
	default:
	}
}

func (w *Worker) count(name string, tags map[string]string) {
	if w.metrics != nil {
		w.metrics.IncrementCounter(name, tags)
	}
}

func (w *Worker) recordTime(name string, d time.Duration) {
	if w.metrics != nil {
		w.metrics.RecordProcessingTime(name, d)
	}
}

func (w *Worker) gauge(name string, value float64, tags map[string]string) {
	if w.metrics != nil {
		w.metrics.RecordGauge(name, value, tags)
	}
}
