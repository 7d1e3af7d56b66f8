package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/application/query"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/badge"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

type BadgeService struct {
	repo   ports.BadgeRepository
	steps  ports.StepService
	exec   *query.Executor
	ttl    TTLs
	logger *logrus.Logger
}

func NewBadgeService(repo ports.BadgeRepository, steps ports.StepService, exec *query.Executor, ttl TTLs, logger *logrus.Logger) *BadgeService {
	return &BadgeService{repo: repo, steps: steps, exec: exec, ttl: ttl, logger: loggerOrDiscard(logger)}
}

func (s *BadgeService) GetBadges(ctx context.Context) result.Query[[]badge.Badge] {
	return query.ExecuteQuery(ctx, s.exec, query.Spec[[]badge.Badge, []badge.Badge]{
		Fetch:    s.fetchCatalog,
		CacheKey: s.catalogKey(),
		TTL:      s.ttl.Reference,
	})
}

func (s *BadgeService) GetUserBadges(ctx context.Context, competitionID int64, userID string) result.Query[[]badge.UserBadge] {
	if err := requireScope(competitionID, userID); err != nil {
		return queryFailure[[]badge.UserBadge](err)
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[[]badge.UserBadgeDTO, []badge.UserBadge]{
		Fetch: func(ctx context.Context) ([]badge.UserBadgeDTO, error) {
			return s.repo.ListByUser(ctx, competitionID, userID)
		},
		Transform: infallible(badge.UserBadgesFromDTOs),
		CacheKey:  cacheKey(badgeServicePrefix, opGetUserBadges, userID, competitionID),
		TTL:       s.ttl.Profile,
	})
}

// AwardBadge awards one badge. The user's competition total must have reached its threshold.
func (s *BadgeService) AwardBadge(ctx context.Context, competitionID int64, userID string, badgeID int64) result.Mutation[struct{}] {
	if err := requireScope(competitionID, userID); err != nil {
		return mutationFailure[struct{}](err)
	}
	if badgeID <= 0 {
		return mutationFailure[struct{}](apperr.Validation("badge id is required"))
	}
	return mutate(ctx, s.exec, MutationAwardBadge, Scope{UserID: userID}, func(ctx context.Context) (struct{}, error) {
		catalog, err := query.WrapWithCache(ctx, s.exec, s.catalogKey(), s.ttl.Reference, s.fetchCatalog)
		if err != nil {
			return struct{}{}, err
		}
		var target *badge.Badge
		for i := range catalog {
			if catalog[i].ID == badgeID {
				target = &catalog[i]
				break
			}
		}
		if target == nil {
			return struct{}{}, apperr.New(apperr.CodeNotFound, fmt.Sprintf("badge %d not found", badgeID))
		}
		total, err := s.steps.TotalStepsForUsers(ctx, competitionID, []string{userID})
		if err != nil {
			return struct{}{}, err
		}
		if total < target.StepThreshold {
			return struct{}{}, apperr.New(apperr.CodeForbidden, fmt.Sprintf("badge %q requires %d steps", target.Name, target.StepThreshold))
		}
		return struct{}{}, s.repo.Award(ctx, competitionID, userID, badgeID)
	})
}

// EvaluateBadges awards every catalog badge the user's competition total has reached and that the
// user does not hold yet. The result lists the badges awarded by this call.
func (s *BadgeService) EvaluateBadges(ctx context.Context, competitionID int64, userID string) result.Mutation[[]badge.Badge] {
	if err := requireScope(competitionID, userID); err != nil {
		return mutationFailure[[]badge.Badge](err)
	}
	return mutate(ctx, s.exec, MutationAwardBadge, Scope{UserID: userID}, func(ctx context.Context) ([]badge.Badge, error) {
		catalog, err := query.WrapWithCache(ctx, s.exec, s.catalogKey(), s.ttl.Reference, s.fetchCatalog)
		if err != nil {
			return nil, err
		}
		total, err := s.steps.TotalStepsForUsers(ctx, competitionID, []string{userID})
		if err != nil {
			return nil, err
		}
		held, err := s.repo.ListByUser(ctx, competitionID, userID)
		if err != nil {
			return nil, err
		}

		earned := badge.Earned(catalog, badge.UserBadgesFromDTOs(held), total)
		awarded := make([]badge.Badge, 0, len(earned))
		for _, b := range earned {
			if err := s.repo.Award(ctx, competitionID, userID, b.ID); err != nil {
				return nil, err
			}
			awarded = append(awarded, b)
		}
		if len(awarded) > 0 {
			s.logger.WithFields(logrus.Fields{"user_id": userID, "competition_id": competitionID, "count": len(awarded)}).Info("badges awarded")
		}
		return awarded, nil
	})
}

func (s *BadgeService) fetchCatalog(ctx context.Context) ([]badge.Badge, error) {
	ds, err := s.repo.List(ctx)
	if err != nil || ds == nil {
		return nil, err
	}
	return badge.FromDTOs(ds), nil
}

func (s *BadgeService) catalogKey() string {
	return cacheKey(badgeServicePrefix, opGetBadges)
}

var _ ports.BadgeService = (*BadgeService)(nil)
