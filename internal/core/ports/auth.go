package ports

import (
	"context"

	"github.com/avatarctic/step-challenge/internal/core/domain/auth"
)

// AuthService validates access tokens issued by the backend.
type AuthService interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}
