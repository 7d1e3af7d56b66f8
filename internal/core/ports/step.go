package ports

import (
	"context"
	"time"

	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/domain/step"
)

// StepRepository is the backend surface for step records.
type StepRepository interface {
	ListByUser(ctx context.Context, competitionID int64, userID string) ([]step.StepsRecordDTO, error)
	// GetOnDate returns nil, nil when the user has no record for date.
	GetOnDate(ctx context.Context, competitionID int64, userID string, date time.Time) (*step.StepsRecordDTO, error)
	Upsert(ctx context.Context, rec *step.StepsRecordDTO) (*step.StepsRecordDTO, error)
	Delete(ctx context.Context, recordID int64, userID string) error
	SumForUser(ctx context.Context, competitionID int64, userID string) (*int64, error)
	SumForUsers(ctx context.Context, competitionID int64, userIDs []string) (*int64, error)
	// TopUsers calls get_top_users_by_steps(p_limit, p_competition_id).
	TopUsers(ctx context.Context, competitionID int64, limit int) ([]step.TopUserDTO, error)
}

// StepService defines step reads and writes scoped to a competition.
type StepService interface {
	GetUserSteps(ctx context.Context, competitionID int64, userID string) result.Query[[]step.StepsRecord]
	GetUserTotalSteps(ctx context.Context, competitionID int64, userID string) result.Query[int64]
	GetStepsOnDate(ctx context.Context, competitionID int64, userID, date string) result.Query[step.StepsRecord]
	GetTopUsers(ctx context.Context, competitionID int64, limit int) result.Query[[]step.TopUser]
	// TotalStepsForUsers returns an error instead of an envelope; it is meant to be nested in other queries.
	TotalStepsForUsers(ctx context.Context, competitionID int64, userIDs []string) (int64, error)
	AddSteps(ctx context.Context, competitionID int64, userID string, req *step.AddStepsRequest) result.Mutation[step.StepsRecord]
	DeleteSteps(ctx context.Context, competitionID int64, userID string, recordID int64) result.Mutation[struct{}]
}
