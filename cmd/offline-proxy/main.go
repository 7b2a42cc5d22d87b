package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"receipt-dashboard/internal/config"
	"receipt-dashboard/internal/database"
	"receipt-dashboard/internal/handlers"
	"receipt-dashboard/internal/logging"
	"receipt-dashboard/internal/middleware"
	"receipt-dashboard/internal/offline"
	"receipt-dashboard/internal/repositories"
	"receipt-dashboard/internal/services"
)

const acknowledgedRetention = 7 * 24 * time.Hour

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.Logger.Level, cfg.IsProduction())

	if err := run(cfg, logger); err != nil {
		logger.Error("offline proxy stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	metrics := services.NewPrometheusMetrics()
	breaker := services.NewCircuitBreaker(services.CircuitBreakerConfig{
		MaxFailures:     cfg.Sync.MaxFailuresOffline,
		ResetTimeout:    cfg.Sync.OfflineResetAfter,
		HalfOpenMaxSucc: 1,
	})

	worker, err := offline.NewWorker(
		offline.OptionsFromConfig(cfg),
		&http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
		storage,
		repositories.NewPendingMutationRepository(db.DB),
		breaker,
		metrics,
	)
	if err != nil {
		return err
	}

	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("offline worker exited", slog.String("error", err.Error()))
		}
	}()

	registration := offline.NewRegistration()
	installCtx, cancelInstall := context.WithTimeout(ctx, cfg.Backend.RequestTimeout)
	err = registration.Register(installCtx, worker)
	cancelInstall()
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst)
	go limiter.Cleanup(ctx, time.Minute)
	go cleanupAcknowledged(ctx, db, logger)

	proxy, err := handlers.NewProxy(cfg.Backend.BaseURL, registration)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Validator = handlers.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
	}))
	e.Use(limiter.Middleware())
	e.Use(proxy)

	handlers.RegisterRoutes(e,
		handlers.NewHealthCheckHandler(db, registration),
		handlers.NewWorkerHandler(registration),
		handlers.NewPreferenceHandler(services.NewPreferenceService(repositories.NewPreferenceRepository(db.DB))),
	)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("offline proxy listening",
			slog.String("addr", server.Addr),
			slog.String("backend", cfg.Backend.BaseURL),
			slog.String("cache_version", cfg.Cache.Version),
			slog.String("cache_storage", cfg.Cache.Storage),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down offline proxy")
	return server.Shutdown(shutdownCtx)
}

func newStorage(ctx context.Context, cfg *config.Config) (offline.Storage, error) {
	if cfg.Cache.Storage != "redis" {
		return offline.NewMemoryStorage(), nil
	}
	client, err := offline.ConnectRedis(ctx, cfg.Cache.RedisURL)
	if err != nil {
		return nil, err
	}
	return offline.NewRedisStorage(client, cfg.Cache.NamePrefix, cfg.Cache.RedisTTL), nil
}

// cleanupAcknowledged prunes replayed mutations once a day
func cleanupAcknowledged(ctx context.Context, db *database.DB, logger *slog.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := db.CleanupAcknowledged(acknowledgedRetention)
			if err != nil {
				logger.Warn("failed to prune acknowledged mutations", slog.String("error", err.Error()))
				continue
			}
			logger.Info("pruned acknowledged mutations", slog.Int64("count", n))
		}
	}
}
