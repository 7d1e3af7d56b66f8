package services

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	config "github.com/avatarctic/step-challenge/configs"
	"github.com/avatarctic/step-challenge/internal/core/domain/auth"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// AuthService validates access tokens issued by the backend's auth service.
type AuthService struct {
	backend *config.BackendConfig
	logger  *logrus.Logger
}

func NewAuthService(backend *config.BackendConfig, logger *logrus.Logger) *AuthService {
	return &AuthService{backend: backend, logger: loggerOrDiscard(logger)}
}

func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &auth.Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC (prevent alg confusion)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.backend.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.UserID() == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}

var _ ports.AuthService = (*AuthService)(nil)
