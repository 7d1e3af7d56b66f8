package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/helpers"
)

// AnonKeyHeader carries the backend's anonymous key for unauthenticated reads.
const AnonKeyHeader = "apikey"

type JWTMiddleware struct {
	authService ports.AuthService
	anonKey     string
	logger      *logrus.Logger
}

func NewJWTMiddleware(authService ports.AuthService, anonKey string, logger *logrus.Logger) *JWTMiddleware {
	return &JWTMiddleware{authService: authService, anonKey: anonKey, logger: logger}
}

// RequireJWT validates the bearer token and sets the user context. GET requests without a
// token pass as anonymous when they carry the configured anonymous key.
func (m *JWTMiddleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Header.Get("Authorization") == "" && m.allowAnonymous(req) {
				helpers.SetAnonymous(c, true)
				return next(c)
			}

			tokenString, err := helpers.GetJWTTokenFromContext(c)
			if err != nil {
				return err
			}

			claims, err := m.authService.ValidateToken(req.Context(), tokenString)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": req.URL.Path, "error": err.Error()}).Warn("JWT validation failed")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			helpers.SetUserID(c, claims.UserID())
			helpers.SetUserEmail(c, claims.Email)

			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"user_id": claims.UserID()}).Debug("jwt validated and user context set")
			}
			return next(c)
		}
	}
}

func (m *JWTMiddleware) allowAnonymous(req *http.Request) bool {
	if m.anonKey == "" || req.Method != http.MethodGet {
		return false
	}
	key := req.Header.Get(AnonKeyHeader)
	return key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(m.anonKey)) == 1
}
