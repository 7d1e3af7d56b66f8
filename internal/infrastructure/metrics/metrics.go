package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// HTTPMetrics are the request collectors used by the metrics middleware.
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "The total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "The HTTP request latencies in seconds",
			},
			[]string{"method", "endpoint"},
		),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration)
	return m
}

// Cache operations reported by CacheMetrics.
const (
	OpHit        = "hit"
	OpMiss       = "miss"
	OpExpire     = "expire"
	OpInvalidate = "invalidate"
)

// CacheMetrics counts cache events per service prefix.
type CacheMetrics struct {
	operations *prometheus.CounterVec
}

func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operations_total",
				Help: "Cache hits, misses, expiries and invalidations by service",
			},
			[]string{"service", "op"},
		),
	}
	reg.MustRegister(m.operations)
	return m
}

func (m *CacheMetrics) Hit(service string)        { m.inc(service, OpHit) }
func (m *CacheMetrics) Miss(service string)       { m.inc(service, OpMiss) }
func (m *CacheMetrics) Expire(service string)     { m.inc(service, OpExpire) }
func (m *CacheMetrics) Invalidate(service string) { m.inc(service, OpInvalidate) }

func (m *CacheMetrics) inc(service, op string) {
	if service == "" {
		service = "unknown"
	}
	m.operations.WithLabelValues(service, op).Inc()
}

var _ ports.CacheMetrics = (*CacheMetrics)(nil)
