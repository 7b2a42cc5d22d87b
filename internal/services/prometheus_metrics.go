package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	transactionsLoaded     *prometheus.CounterVec
	transactionsLoadTime   prometheus.Histogram
	cacheRequests          *prometheus.CounterVec
	cacheWriteFailures     *prometheus.CounterVec
	cacheInstallations     *prometheus.CounterVec
	queueDepth             *prometheus.GaugeVec
	syncReplays            *prometheus.CounterVec
	syncDuration           prometheus.Histogram
	circuitBreakerState    *prometheus.GaugeVec
	integrationStatus      *prometheus.GaugeVec
	editorOperations       *prometheus.CounterVec
	controlMessages        *prometheus.CounterVec
	upstreamRequestLatency *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the dashboard metrics on the default registry
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWith(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsWith registers on reg, so tests can use a private registry
func NewPrometheusMetricsWith(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		transactionsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_load_total",
				Help: "Total number of transaction page loads by outcome",
			},
			[]string{"status"},
		),
		transactionsLoadTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transactions_load_duration_milliseconds",
				Help:    "Transaction page load duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		cacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "offline_cache_requests_total",
				Help: "Intercepted requests by strategy and where the response came from",
			},
			[]string{"strategy", "source"},
		),
		cacheWriteFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "offline_cache_write_failures_total",
				Help: "Cache writes that failed and were skipped",
			},
			[]string{"cache"},
		),
		cacheInstallations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "offline_worker_installations_total",
				Help: "Worker installations by outcome",
			},
			[]string{"status"},
		),
		queueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pending_mutations_queue_depth",
				Help: "Writes waiting for background sync",
			},
			[]string{"tag"},
		),
		syncReplays: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sync_replays_total",
				Help: "Replayed queued writes by outcome",
			},
			[]string{"tag", "status"},
		),
		syncDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sync_duration_milliseconds",
				Help:    "Duration of one background sync drain in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		integrationStatus: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "integration_status",
				Help: "Integration health (1=online, 0=offline, -1=unknown)",
			},
			[]string{"integration"},
		),
		editorOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transaction_edits_total",
				Help: "Edit, split, duplicate and upload operations by outcome",
			},
			[]string{"operation", "status"},
		),
		controlMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worker_control_messages_total",
				Help: "Control messages handled by the offline worker",
			},
			[]string{"type", "status"},
		),
		upstreamRequestLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_request_duration_seconds",
				Help:    "Latency of requests the worker forwarded to the backend",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	status := tags["status"]

	switch name {
	case "transactions.load.success":
		m.transactionsLoaded.WithLabelValues("success").Inc()
	case "transactions.load.failed":
		m.transactionsLoaded.WithLabelValues("failed").Inc()
	case "transactions.load.stale":
		m.transactionsLoaded.WithLabelValues("stale").Inc()
	case "cache.request":
		m.cacheRequests.WithLabelValues(tags["strategy"], tags["source"]).Inc()
	case "cache.write.failed":
		m.cacheWriteFailures.WithLabelValues(tags["cache"]).Inc()
	case "worker.install":
		if status != "" {
			m.cacheInstallations.WithLabelValues(status).Inc()
		}
	case "sync.replay":
		if status != "" {
			m.syncReplays.WithLabelValues(tags["tag"], status).Inc()
		}
	case "circuit_breaker.open":
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(1)
	case "circuit_breaker.closed":
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(0)
	case "circuit_breaker.half_open":
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(2)
	case "editor.operation":
		if op := tags["operation"]; op != "" && status != "" {
			m.editorOperations.WithLabelValues(op, status).Inc()
		}
	case "worker.message":
		if t := tags["type"]; t != "" {
			m.controlMessages.WithLabelValues(t, status).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "transactions.load":
		m.transactionsLoadTime.Observe(float64(duration.Milliseconds()))
	case "sync.drain":
		m.syncDuration.Observe(float64(duration.Milliseconds()))
	case "upstream.network_first", "upstream.cache_first", "upstream.network_fallback", "upstream.passthrough":
		m.upstreamRequestLatency.WithLabelValues(name[len("upstream."):]).Observe(duration.Seconds())
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "queue.depth":
		m.queueDepth.WithLabelValues(tags["tag"]).Set(value)
	case "integration.status":
		if integration := tags["integration"]; integration != "" {
			m.integrationStatus.WithLabelValues(integration).Set(value)
		}
	}
}
