package ports

import (
	"context"

	"github.com/avatarctic/step-challenge/internal/core/domain/badge"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
)

type BadgeRepository interface {
	List(ctx context.Context) ([]badge.BadgeDTO, error)
	ListByUser(ctx context.Context, competitionID int64, userID string) ([]badge.UserBadgeDTO, error)
	Award(ctx context.Context, competitionID int64, userID string, badgeID int64) error
}

type BadgeService interface {
	GetBadges(ctx context.Context) result.Query[[]badge.Badge]
	GetUserBadges(ctx context.Context, competitionID int64, userID string) result.Query[[]badge.UserBadge]
	AwardBadge(ctx context.Context, competitionID int64, userID string, badgeID int64) result.Mutation[struct{}]
	// EvaluateBadges awards every badge the user's competition total has reached and returns the new ones.
	EvaluateBadges(ctx context.Context, competitionID int64, userID string) result.Mutation[[]badge.Badge]
}
