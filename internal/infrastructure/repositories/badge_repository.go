package repositories

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/domain/badge"
	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/infrastructure/db"
)

type BadgeRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewBadgeRepository(database *db.Database, logger *logrus.Logger) *BadgeRepository {
	return &BadgeRepository{db: database, logger: logger}
}

// List returns the catalog ordered by threshold.
func (r *BadgeRepository) List(ctx context.Context) ([]badge.BadgeDTO, error) {
	out := []badge.BadgeDTO{}
	query := `SELECT id, name, description, image_url, step_threshold FROM badges ORDER BY step_threshold, id`
	if err := r.db.DB.SelectContext(ctx, &out, query); err != nil {
		return nil, db.MapError(err, "list badges")
	}
	return out, nil
}

func (r *BadgeRepository) ListByUser(ctx context.Context, competitionID int64, userID string) ([]badge.UserBadgeDTO, error) {
	out := []badge.UserBadgeDTO{}
	query := `
		SELECT b.id, b.name, b.description, b.image_url, b.step_threshold,
		       ub.user_id, ub.competition_id, ub.awarded_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.competition_id = $1 AND ub.user_id = $2
		ORDER BY ub.awarded_at, b.id`
	if err := r.db.DB.SelectContext(ctx, &out, query, competitionID, userID); err != nil {
		return nil, db.MapError(err, "list user badges")
	}
	return out, nil
}

// Award is idempotent; awarding a held badge keeps the original timestamp.
func (r *BadgeRepository) Award(ctx context.Context, competitionID int64, userID string, badgeID int64) error {
	query := `
		INSERT INTO user_badges (user_id, competition_id, badge_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, competition_id, badge_id) DO NOTHING`
	if _, err := r.db.DB.ExecContext(ctx, query, userID, competitionID, badgeID); err != nil {
		return db.MapError(err, "award badge")
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"user_id": userID, "competition_id": competitionID, "badge_id": badgeID}).Debug("db: badge awarded")
	}
	return nil
}

var _ ports.BadgeRepository = (*BadgeRepository)(nil)
