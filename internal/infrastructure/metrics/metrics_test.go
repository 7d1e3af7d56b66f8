package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/avatarctic/step-challenge/internal/infrastructure/metrics"
)

func TestCacheMetrics_CountsByServiceAndOp(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCacheMetrics(reg)

	m.Hit("step_service")
	m.Hit("step_service")
	m.Miss("team_service")
	m.Invalidate("")

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP cache_operations_total Cache hits, misses, expiries and invalidations by service
# TYPE cache_operations_total counter
cache_operations_total{op="hit",service="step_service"} 2
cache_operations_total{op="invalidate",service="unknown"} 1
cache_operations_total{op="miss",service="team_service"} 1
`), "cache_operations_total"))
}

func TestHTTPMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)
	m.RequestsTotal.WithLabelValues("GET", "/health", "200").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/health", "200")))
}
