package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/domain/user"
	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/infrastructure/db"
)

const profileColumns = `id, display_name, email, image_url, created_at, updated_at`

type UserRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewUserRepository(database *db.Database, logger *logrus.Logger) *UserRepository {
	return &UserRepository{db: database, logger: logger}
}

func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*user.ProfileDTO, error) {
	var p user.ProfileDTO
	err := r.db.DB.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.MapError(err, "get profile")
	}
	return &p, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []string) ([]user.ProfileDTO, error) {
	out := []user.ProfileDTO{}
	if len(userIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ANY($1) ORDER BY display_name, id`
	if err := r.db.DB.SelectContext(ctx, &out, query, pq.Array(userIDs)); err != nil {
		return nil, db.MapError(err, "list profiles")
	}
	return out, nil
}

// UpdateProfile applies the non-nil fields of req. It returns nil, nil when the profile does not exist.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.ProfileDTO, error) {
	var p user.ProfileDTO
	query := `
		UPDATE profiles
		SET display_name = COALESCE($2, display_name),
		    image_url = COALESCE($3, image_url),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns
	err := r.db.DB.GetContext(ctx, &p, query, userID, req.DisplayName, req.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		if r.logger != nil {
			r.logger.WithField("user_id", userID).WithError(err).Error("db: failed to update profile")
		}
		return nil, db.MapError(err, "update profile")
	}
	return &p, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
