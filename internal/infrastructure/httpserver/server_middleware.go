package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/helpers"
	customMiddleware "github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/middleware"
)

// maxBodySize leaves room for a 5MB image plus multipart framing.
const maxBodySize = "6M"

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			helpers.CompetitionHeader,
			customMiddleware.AnonKeyHeader,
		},
	}))
	s.echo.Use(middleware.BodyLimit(maxBodySize))

	s.echo.Use(s.middleware.Metrics.CollectHTTPMetrics())
	s.echo.Use(s.middleware.Logging.RequestLogging())
}
