package ports

import (
	"context"

	"github.com/avatarctic/step-challenge/internal/core/domain/goals"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
)

type GoalsRepository interface {
	// GetByUser returns nil, nil when the user has not set a goal.
	GetByUser(ctx context.Context, competitionID int64, userID string) (*goals.GoalDTO, error)
	Upsert(ctx context.Context, g *goals.GoalDTO) (*goals.GoalDTO, error)
}

type GoalsService interface {
	GetUserGoal(ctx context.Context, competitionID int64, userID string) result.Query[goals.Goal]
	SetUserGoal(ctx context.Context, competitionID int64, userID string, req *goals.SetGoalRequest) result.Mutation[goals.Goal]
	GetGoalProgress(ctx context.Context, competitionID int64, userID, date string) result.Query[goals.Progress]
}
