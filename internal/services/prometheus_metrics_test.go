package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics_Counters(t *testing.T) {
	m := NewPrometheusMetricsWith(prometheus.NewRegistry())

	m.IncrementCounter("transactions.load.success", nil)
	m.IncrementCounter("transactions.load.success", nil)
	m.IncrementCounter("transactions.load.stale", nil)
	m.IncrementCounter("cache.request", map[string]string{"strategy": "cache_first", "source": "cache"})
	m.IncrementCounter("sync.replay", map[string]string{"tag": "receipt-upload", "status": "success"})
	m.IncrementCounter("sync.replay", map[string]string{"tag": "receipt-upload"})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.transactionsLoaded.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transactionsLoaded.WithLabelValues("stale")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheRequests.WithLabelValues("cache_first", "cache")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.syncReplays.WithLabelValues("receipt-upload", "success")))
}

func TestPrometheusMetrics_Gauges(t *testing.T) {
	m := NewPrometheusMetricsWith(prometheus.NewRegistry())

	m.RecordGauge("queue.depth", 3, map[string]string{"tag": "receipt-upload"})
	m.IncrementCounter("circuit_breaker.open", map[string]string{"service": "backend"})
	m.RecordGauge("integration.status", -1, map[string]string{"integration": "sheets"})
	m.RecordProcessingTime("upstream.cache_first", 10*time.Millisecond)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.queueDepth.WithLabelValues("receipt-upload")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.circuitBreakerState.WithLabelValues("backend")))
	assert.Equal(t, float64(-1), testutil.ToFloat64(m.integrationStatus.WithLabelValues("sheets")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.upstreamRequestLatency))
}
