package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/application/query"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/domain/step"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

type StepService struct {
	repo   ports.StepRepository
	exec   *query.Executor
	ttl    TTLs
	logger *logrus.Logger
}

func NewStepService(repo ports.StepRepository, exec *query.Executor, ttl TTLs, logger *logrus.Logger) *StepService {
	return &StepService{repo: repo, exec: exec, ttl: ttl, logger: loggerOrDiscard(logger)}
}

func (s *StepService) GetUserSteps(ctx context.Context, competitionID int64, userID string) result.Query[[]step.StepsRecord] {
	if err := requireScope(competitionID, userID); err != nil {
		return queryFailure[[]step.StepsRecord](err)
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[[]step.StepsRecordDTO, []step.StepsRecord]{
		Fetch: func(ctx context.Context) ([]step.StepsRecordDTO, error) {
			return s.repo.ListByUser(ctx, competitionID, userID)
		},
		Transform: infallible(step.FromDTOs),
		CacheKey:  cacheKey(stepServicePrefix, opGetUserSteps, userID, competitionID),
		TTL:       s.ttl.Query,
	})
}

func (s *StepService) GetUserTotalSteps(ctx context.Context, competitionID int64, userID string) result.Query[int64] {
	if err := requireScope(competitionID, userID); err != nil {
		return queryFailure[int64](err)
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[*int64, int64]{
		Fetch: func(ctx context.Context) (*int64, error) {
			return s.repo.SumForUser(ctx, competitionID, userID)
		},
		Transform: infallible(func(total *int64) int64 { return *total }),
		CacheKey:  cacheKey(stepServicePrefix, opGetUserTotalSteps, userID, competitionID),
		TTL:       s.ttl.Query,
	})
}

// GetStepsOnDate fails with "No data returned from API" when nothing was recorded for date.
func (s *StepService) GetStepsOnDate(ctx context.Context, competitionID int64, userID, date string) result.Query[step.StepsRecord] {
	if err := requireScope(competitionID, userID); err != nil {
		return queryFailure[step.StepsRecord](err)
	}
	day, err := step.ParseDate(date)
	if err != nil {
		return queryFailure[step.StepsRecord](apperr.Wrap(apperr.CodeValidationFailed, err.Error(), err))
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[*step.StepsRecordDTO, step.StepsRecord]{
		Fetch: func(ctx context.Context) (*step.StepsRecordDTO, error) {
			return s.repo.GetOnDate(ctx, competitionID, userID, day)
		},
		Transform: infallible(func(d *step.StepsRecordDTO) step.StepsRecord { return step.FromDTO(*d) }),
		CacheKey:  cacheKey(stepServicePrefix, opGetStepsOnDate, userID, competitionID, day.Format(step.DateLayout)),
		TTL:       s.ttl.Query,
	})
}

func (s *StepService) GetTopUsers(ctx context.Context, competitionID int64, limit int) result.Query[[]step.TopUser] {
	if err := requireCompetition(competitionID); err != nil {
		return queryFailure[[]step.TopUser](err)
	}
	limit = normalizeLimit(limit)
	return query.ExecuteQuery(ctx, s.exec, query.Spec[[]step.TopUserDTO, []step.TopUser]{
		Fetch: func(ctx context.Context) ([]step.TopUserDTO, error) {
			return s.repo.TopUsers(ctx, competitionID, limit)
		},
		Transform: infallible(step.TopUsersFromDTOs),
		CacheKey:  cacheKey(stepServicePrefix, opGetTopUsers, limit, competitionID),
		TTL:       s.ttl.Leaderboard,
	})
}

// TotalStepsForUsers sums the steps of every user in userIDs. Unlike the other reads it returns
// an error, so callers nesting it inside a query must handle the failure themselves.
func (s *StepService) TotalStepsForUsers(ctx context.Context, competitionID int64, userIDs []string) (int64, error) {
	if err := requireCompetition(competitionID); err != nil {
		return 0, err
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	key := cacheKey(stepServicePrefix, opGetTotalSteps, competitionID, idSet(userIDs))
	total, err := query.WrapWithCache(ctx, s.exec, key, s.ttl.Aggregate, func(ctx context.Context) (*int64, error) {
		return s.repo.SumForUsers(ctx, competitionID, userIDs)
	})
	if err != nil {
		return 0, err
	}
	return *total, nil
}

// AddSteps records the steps for one day, replacing any earlier value for that day.
func (s *StepService) AddSteps(ctx context.Context, competitionID int64, userID string, req *step.AddStepsRequest) result.Mutation[step.StepsRecord] {
	if err := requireScope(competitionID, userID); err != nil {
		return mutationFailure[step.StepsRecord](err)
	}
	if req == nil {
		return mutationFailure[step.StepsRecord](apperr.Validation("request body is required"))
	}
	day, err := step.ParseDate(req.Date)
	if err != nil {
		return mutationFailure[step.StepsRecord](apperr.Wrap(apperr.CodeValidationFailed, err.Error(), err))
	}
	if req.Steps < 0 {
		return mutationFailure[step.StepsRecord](apperr.Validation("steps must not be negative"))
	}

	return mutate(ctx, s.exec, MutationAddSteps, Scope{UserID: userID}, func(ctx context.Context) (step.StepsRecord, error) {
		saved, err := s.repo.Upsert(ctx, &step.StepsRecordDTO{
			UserID:        userID,
			CompetitionID: competitionID,
			Date:          day,
			Steps:         req.Steps,
			CreatedAt:     time.Now().UTC(),
		})
		if err != nil {
			return step.StepsRecord{}, err
		}
		if saved == nil {
			return step.StepsRecord{}, apperr.NoData()
		}
		s.logger.WithFields(logrus.Fields{
			"user_id":        userID,
			"competition_id": competitionID,
			"date":           req.Date,
			"steps":          req.Steps,
		}).Info("steps recorded")
		return step.FromDTO(*saved), nil
	})
}

func (s *StepService) DeleteSteps(ctx context.Context, competitionID int64, userID string, recordID int64) result.Mutation[struct{}] {
	if err := requireScope(competitionID, userID); err != nil {
		return mutationFailure[struct{}](err)
	}
	if recordID <= 0 {
		return mutationFailure[struct{}](apperr.Validation("record id is required"))
	}
	return mutate(ctx, s.exec, MutationDeleteSteps, Scope{UserID: userID}, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.repo.Delete(ctx, recordID, userID)
	})
}

var _ ports.StepService = (*StepService)(nil)
