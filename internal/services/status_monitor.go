package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"receipt-dashboard/internal/dto"
	"receipt-dashboard/internal/models"
)

// Integration is one backend dependency shown in the status bar
type Integration struct {
	Name     string
	Endpoint string
}

// DefaultIntegrations are the health endpoints the dashboard polls
func DefaultIntegrations() []Integration {
	return []Integration{
		{Name: "server", Endpoint: "/health"},
		{Name: "bank", Endpoint: "/api/bank/health"},
		{Name: "email", Endpoint: "/api/email/health"},
		{Name: "sheets", Endpoint: "/api/sheets/health"},
		{Name: "ai", Endpoint: "/api/ai/health"},
	}
}

// StatusMonitor polls integration health endpoints and classifies each as
// online, offline or unknown
type StatusMonitor struct {
	checker      HealthChecker
	integrations []Integration
	metrics      MetricsRecorderInterface
	timeout      time.Duration
	logger       *slog.Logger

	mu       sync.RWMutex
	statuses map[string]models.IntegrationStatus
}

func NewStatusMonitor(checker HealthChecker, integrations []Integration, metrics MetricsRecorderInterface, timeout time.Duration) *StatusMonitor {
	return &StatusMonitor{
		checker:      checker,
		integrations: integrations,
		metrics:      metrics,
		timeout:      timeout,
		logger:       slog.Default(),
		statuses:     make(map[string]models.IntegrationStatus),
	}
}

// CheckAll probes every integration concurrently and returns the results in
// configuration order
func (m *StatusMonitor) CheckAll(ctx context.Context) []models.IntegrationStatus {
	results := make([]models.IntegrationStatus, len(m.integrations))

	g, gctx := errgroup.WithContext(ctx)
	for i, integration := range m.integrations {
		i, integration := i, integration
		g.Go(func() error {
			results[i] = m.check(gctx, integration)
			return nil
		})
	}
	_ = g.Wait()

	m.mu.Lock()
	for _, s := range results {
		m.statuses[s.Name] = s
	}
	m.mu.Unlock()

	return results
}

// Start polls on a fixed interval until ctx is done
func (m *StatusMonitor) Start(ctx context.Context, interval time.Duration) {
	m.CheckAll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckAll(ctx)
		}
	}
}

// Statuses returns the last known status of every integration
func (m *StatusMonitor) Statuses() []models.IntegrationStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.IntegrationStatus, 0, len(m.integrations))
	for _, integration := range m.integrations {
		if s, ok := m.statuses[integration.Name]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (m *StatusMonitor) check(ctx context.Context, integration Integration) models.IntegrationStatus {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	payload, err := m.checker.Health(ctx, integration.Endpoint)
	state, detail := ClassifyHealth(payload, err)

	if err != nil {
		m.logger.DebugContext(ctx, "integration health check failed",
			slog.String("integration", integration.Name),
			slog.String("error", err.Error()),
		)
	}

	if m.metrics != nil {
		m.metrics.RecordGauge("integration.status", stateGaugeValue(state), map[string]string{
			"integration": integration.Name,
		})
	}

	return models.IntegrationStatus{
		Name:      integration.Name,
		Endpoint:  integration.Endpoint,
		State:     state,
		Detail:    detail,
		CheckedAt: time.Now(),
	}
}

// ClassifyHealth maps the various health payload shapes to a connection state.
// Offline responses from the worker and transport failures are offline;
// unrecognised payloads are unknown.
func ClassifyHealth(payload *dto.HealthPayload, err error) (models.ConnectionState, string) {
	if payload == nil {
		if err != nil {
			return models.ConnectionOffline, err.Error()
		}
		return models.ConnectionUnknown, ""
	}
	if payload.Offline {
		return models.ConnectionOffline, "offline"
	}

	switch strings.ToLower(payload.Status) {
	case "healthy", "online", "ok", "connected", "up":
		return models.ConnectionOnline, payload.Status
	case "unhealthy", "offline", "error", "disconnected", "down":
		return models.ConnectionOffline, payload.Status
	}

	if payload.Success != nil {
		if *payload.Success {
			return models.ConnectionOnline, ""
		}
		return models.ConnectionOffline, payload.Error
	}

	if err != nil {
		return models.ConnectionOffline, err.Error()
	}
	return models.ConnectionUnknown, payload.Status
}

func stateGaugeValue(state models.ConnectionState) float64 {
	switch state {
	case models.ConnectionOnline:
		return 1
	case models.ConnectionOffline:
		return 0
	default:
		return -1
	}
}
