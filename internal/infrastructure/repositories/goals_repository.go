package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/domain/goals"
	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/infrastructure/db"
)

type GoalsRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewGoalsRepository(database *db.Database, logger *logrus.Logger) *GoalsRepository {
	return &GoalsRepository{db: database, logger: logger}
}

func (r *GoalsRepository) GetByUser(ctx context.Context, competitionID int64, userID string) (*goals.GoalDTO, error) {
	var g goals.GoalDTO
	query := `SELECT user_id, competition_id, daily_target, updated_at FROM goals WHERE competition_id = $1 AND user_id = $2`
	err := r.db.DB.GetContext(ctx, &g, query, competitionID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.MapError(err, "get goal")
	}
	return &g, nil
}

func (r *GoalsRepository) Upsert(ctx context.Context, g *goals.GoalDTO) (*goals.GoalDTO, error) {
	var saved goals.GoalDTO
	query := `
		INSERT INTO goals (user_id, competition_id, daily_target)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, competition_id) DO UPDATE SET daily_target = EXCLUDED.daily_target, updated_at = NOW()
		RETURNING user_id, competition_id, daily_target, updated_at`
	if err := r.db.DB.GetContext(ctx, &saved, query, g.UserID, g.CompetitionID, g.DailyTarget); err != nil {
		return nil, db.MapError(err, "set goal")
	}
	return &saved, nil
}

var _ ports.GoalsRepository = (*GoalsRepository)(nil)
