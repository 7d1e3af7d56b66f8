package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/application/query"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/goals"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/domain/step"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

type GoalsService struct {
	repo     ports.GoalsRepository
	stepRepo ports.StepRepository
	exec     *query.Executor
	ttl      TTLs
	logger   *logrus.Logger
}

func NewGoalsService(repo ports.GoalsRepository, stepRepo ports.StepRepository, exec *query.Executor, ttl TTLs, logger *logrus.Logger) *GoalsService {
	return &GoalsService{repo: repo, stepRepo: stepRepo, exec: exec, ttl: ttl, logger: loggerOrDiscard(logger)}
}

// GetUserGoal fails with "No data returned from API" when no goal is set.
func (s *GoalsService) GetUserGoal(ctx context.Context, competitionID int64, userID string) result.Query[goals.Goal] {
	if err := requireScope(competitionID, userID); err != nil {
		return queryFailure[goals.Goal](err)
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[*goals.Goal, goals.Goal]{
		Fetch: func(ctx context.Context) (*goals.Goal, error) {
			return s.fetchGoal(ctx, competitionID, userID)
		},
		Transform: infallible(func(g *goals.Goal) goals.Goal { return *g }),
		CacheKey:  s.goalKey(competitionID, userID),
		TTL:       s.ttl.Profile,
	})
}

func (s *GoalsService) SetUserGoal(ctx context.Context, competitionID int64, userID string, req *goals.SetGoalRequest) result.Mutation[goals.Goal] {
	if err := requireScope(competitionID, userID); err != nil {
		return mutationFailure[goals.Goal](err)
	}
	if req == nil || req.DailyTarget <= 0 {
		return mutationFailure[goals.Goal](apperr.Validation("daily target must be greater than zero"))
	}
	return mutate(ctx, s.exec, MutationSetUserGoal, Scope{UserID: userID}, func(ctx context.Context) (goals.Goal, error) {
		saved, err := s.repo.Upsert(ctx, &goals.GoalDTO{
			UserID:        userID,
			CompetitionID: competitionID,
			DailyTarget:   req.DailyTarget,
			UpdatedAt:     time.Now().UTC(),
		})
		if err != nil {
			return goals.Goal{}, err
		}
		if saved == nil {
			return goals.Goal{}, apperr.NoData()
		}
		return goals.FromDTO(*saved), nil
	})
}

// GetGoalProgress compares the steps of one day against the user's daily target.
// The goal lookup shares its cache entry with GetUserGoal.
func (s *GoalsService) GetGoalProgress(ctx context.Context, competitionID int64, userID, date string) result.Query[goals.Progress] {
	if err := requireScope(competitionID, userID); err != nil {
		return queryFailure[goals.Progress](err)
	}
	day, err := step.ParseDate(date)
	if err != nil {
		return queryFailure[goals.Progress](apperr.Wrap(apperr.CodeValidationFailed, err.Error(), err))
	}
	date = day.Format(step.DateLayout)

	return query.ExecuteQuery(ctx, s.exec, query.Spec[*goals.Progress, goals.Progress]{
		Fetch: func(ctx context.Context) (*goals.Progress, error) {
			goal, err := query.WrapWithCache(ctx, s.exec, s.goalKey(competitionID, userID), s.ttl.Profile, func(ctx context.Context) (*goals.Goal, error) {
				return s.fetchGoal(ctx, competitionID, userID)
			})
			if err != nil {
				return nil, err
			}
			rec, err := s.stepRepo.GetOnDate(ctx, competitionID, userID, day)
			if err != nil {
				return nil, err
			}
			var steps int64
			if rec != nil {
				steps = rec.Steps
			}
			p := goals.ComputeProgress(date, goal.DailyTarget, steps)
			return &p, nil
		},
		Transform: infallible(func(p *goals.Progress) goals.Progress { return *p }),
		CacheKey:  cacheKey(goalsServicePrefix, opGetGoalProgress, userID, competitionID, date),
		TTL:       s.ttl.Query,
	})
}

func (s *GoalsService) fetchGoal(ctx context.Context, competitionID int64, userID string) (*goals.Goal, error) {
	d, err := s.repo.GetByUser(ctx, competitionID, userID)
	if err != nil || d == nil {
		return nil, err
	}
	g := goals.FromDTO(*d)
	return &g, nil
}

func (s *GoalsService) goalKey(competitionID int64, userID string) string {
	return cacheKey(goalsServicePrefix, opGetUserGoal, userID, competitionID)
}

var _ ports.GoalsService = (*GoalsService)(nil)
