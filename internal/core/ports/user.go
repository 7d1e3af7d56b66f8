package ports

import (
	"context"

	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/domain/user"
)

// UserRepository is the backend surface for profiles.
type UserRepository interface {
	// GetProfile returns nil, nil when no profile exists.
	GetProfile(ctx context.Context, userID string) (*user.ProfileDTO, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]user.ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.ProfileDTO, error)
}

// UserService defines profile reads and writes.
type UserService interface {
	GetProfile(ctx context.Context, userID string) result.Query[user.Profile]
	GetUsersByIDs(ctx context.Context, userIDs []string) result.Query[[]user.Profile]
	UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) result.Mutation[user.Profile]
	UploadAvatar(ctx context.Context, userID string, upload *FileUpload) result.Mutation[user.Profile]
}
