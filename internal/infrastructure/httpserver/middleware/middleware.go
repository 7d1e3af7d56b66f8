package middleware

import (
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/infrastructure/metrics"
)

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	JWT         *JWTMiddleware
	Competition *CompetitionMiddleware
	Logging     *LoggingMiddleware
	RateLimit   *RateLimitMiddleware
	Metrics     *MetricsMiddleware
}

// NewMiddlewareCollection creates a new collection of all middleware
func NewMiddlewareCollection(
	authService ports.AuthService,
	preferenceService ports.PreferenceService,
	rateLimiterService ports.RateLimiterService,
	logger *logrus.Logger,
	anonKey string,
	httpMetrics *metrics.HTTPMetrics,
) *MiddlewareCollection {
	return &MiddlewareCollection{
		JWT:         NewJWTMiddleware(authService, anonKey, logger),
		Competition: NewCompetitionMiddleware(preferenceService, logger),
		Logging:     NewLoggingMiddleware(logger),
		RateLimit:   NewRateLimitMiddleware(rateLimiterService, logger),
		Metrics:     NewMetricsMiddleware(httpMetrics),
	}
}
