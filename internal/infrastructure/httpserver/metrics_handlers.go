package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LogMetricsInitialization logs that metrics have been initialized
func (s *Server) LogMetricsInitialization() {
	if s.logger != nil {
		s.logger.Info("Prometheus metrics initialized and registered")
		s.logger.WithFields(map[string]interface{}{
			"http_requests_total":    "Counter for HTTP requests by method, endpoint, status",
			"http_request_duration":  "Histogram for HTTP request duration by method, endpoint",
			"cache_operations_total": "Counter for cache hits, misses, expiries and invalidations by service",
			"metrics_endpoint":       s.config.BasePath + "/metrics",
		}).Debug("Available Prometheus metrics")
	}
}

// metricsEndpoint serves the configured gatherer in the Prometheus text format.
func (s *Server) metricsEndpoint(c echo.Context) error {
	if s.logger != nil {
		s.logger.Debug("Serving Prometheus metrics")
	}
	promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP(c.Response(), c.Request())
	return nil
}
