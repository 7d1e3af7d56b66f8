package httpserver

import (
	"context"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Start serves the API until Shutdown. Both the HTTP and the TLS listener use the configured
// read, write and idle timeouts. It returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start() error {
	s.LogMetricsInitialization()

	fields := logrus.Fields{"addr": s.httpServer.Addr, "base_path": s.config.BasePath}

	if s.config.TLSCertFile != "" && s.config.TLSKeyFile != "" {
		s.logger.WithFields(fields).Info("Starting HTTPS server")
		return s.httpServer.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
	}
	s.logger.WithFields(fields).Info("Starting HTTP server")
	s.logger.Warn("Running in HTTP mode - TLS certificates not configured")
	return s.httpServer.ListenAndServe()
}

func (s *Server) newHTTPServer() *http.Server {
	return &http.Server{
		Addr:         net.JoinHostPort(s.config.Host, s.config.Port),
		Handler:      s.echo,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}
