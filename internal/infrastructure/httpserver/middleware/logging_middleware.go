package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/helpers"
)

type LoggingMiddleware struct {
	logger *logrus.Logger
}

func NewLoggingMiddleware(logger *logrus.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

func (m *LoggingMiddleware) RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.logger == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)
			fields := logrus.Fields{
				"method":     c.Request().Method,
				"path":       c.Path(),
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}
			if userID, ok := helpers.GetUserIDRaw(c); ok {
				fields["user_id"] = userID
			}
			if cid, ok := helpers.GetCompetitionIDRaw(c); ok {
				fields["competition_id"] = cid
			}
			entry := m.logger.WithFields(fields)
			if err != nil {
				entry.WithError(err).Info("request failed")
			} else {
				entry.Debug("request handled")
			}
			return err
		}
	}
}
