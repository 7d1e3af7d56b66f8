package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	config "github.com/avatarctic/step-challenge/configs"
	"github.com/avatarctic/step-challenge/internal/application/query"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/competition"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

type CompetitionService struct {
	repo   ports.CompetitionRepository
	mode   config.CompetitionMode
	exec   *query.Executor
	ttl    TTLs
	now    func() time.Time
	logger *logrus.Logger
}

func NewCompetitionService(repo ports.CompetitionRepository, mode config.CompetitionMode, exec *query.Executor, ttl TTLs, logger *logrus.Logger) *CompetitionService {
	if mode == "" {
		mode = config.CompetitionModePublic
	}
	return &CompetitionService{repo: repo, mode: mode, exec: exec, ttl: ttl, now: time.Now, logger: loggerOrDiscard(logger)}
}

func (s *CompetitionService) GetCompetitions(ctx context.Context) result.Query[[]competition.Competition] {
	return query.ExecuteQuery(ctx, s.exec, query.Spec[[]competition.CompetitionDTO, []competition.Competition]{
		Fetch:     s.repo.List,
		Transform: s.manyFromDTOs,
		CacheKey:  cacheKey(competitionServicePrefix, opGetCompetitions),
		TTL:       s.ttl.Reference,
	})
}

func (s *CompetitionService) GetCompetitionByID(ctx context.Context, id int64) result.Query[competition.Competition] {
	if id <= 0 {
		return queryFailure[competition.Competition](apperr.Validation("competition id is required"))
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[*competition.CompetitionDTO, competition.Competition]{
		Fetch: func(ctx context.Context) (*competition.CompetitionDTO, error) {
			return s.repo.GetByID(ctx, id)
		},
		Transform: func(d *competition.CompetitionDTO) (competition.Competition, error) {
			return competition.FromDTO(*d, s.now()), nil
		},
		CacheKey: cacheKey(competitionServicePrefix, opGetCompetitionByID, id),
		TTL:      s.ttl.Reference,
	})
}

// GetUserCompetitions lists the competitions the user takes part in.
func (s *CompetitionService) GetUserCompetitions(ctx context.Context, userID string) result.Query[[]competition.Competition] {
	if err := requireUser(userID); err != nil {
		return queryFailure[[]competition.Competition](err)
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[[]competition.CompetitionDTO, []competition.Competition]{
		Fetch: func(ctx context.Context) ([]competition.CompetitionDTO, error) {
			return s.repo.ListByUser(ctx, userID)
		},
		Transform: s.manyFromDTOs,
		CacheKey:  cacheKey(competitionServicePrefix, opGetUserCompetitions, userID),
		TTL:       s.ttl.Profile,
	})
}

func (s *CompetitionService) CreateCompetition(ctx context.Context, creatorID string, req *competition.CreateCompetitionRequest) result.Mutation[competition.Competition] {
	if err := requireUser(creatorID); err != nil {
		return mutationFailure[competition.Competition](err)
	}
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return mutationFailure[competition.Competition](apperr.Validation("competition name is required"))
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return mutationFailure[competition.Competition](apperr.Validation("start and end dates are required"))
	}
	if req.EndDate.Before(req.StartDate) {
		return mutationFailure[competition.Competition](apperr.Validation("end date must not be before start date"))
	}

	return mutate(ctx, s.exec, MutationCreateCompetition, Scope{}, func(ctx context.Context) (competition.Competition, error) {
		dto := &competition.CompetitionDTO{
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			IsActive:    true,
			CreatedBy:   creatorID,
		}
		if req.InviteKey != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.InviteKey), bcrypt.DefaultCost)
			if err != nil {
				return competition.Competition{}, fmt.Errorf("failed to hash invite key: %w", err)
			}
			dto.InviteKeyHash = string(hash)
		}
		created, err := s.repo.Create(ctx, dto)
		if err != nil {
			return competition.Competition{}, err
		}
		if created == nil {
			return competition.Competition{}, apperr.NoData()
		}
		s.logger.WithFields(logrus.Fields{"competition_id": created.ID, "name": created.Name}).Info("competition created")
		return competition.FromDTO(*created, s.now()), nil
	})
}

// UpdateCompetition edits a competition. Only its creator may change it.
func (s *CompetitionService) UpdateCompetition(ctx context.Context, callerID string, id int64, req *competition.UpdateCompetitionRequest) result.Mutation[competition.Competition] {
	if err := requireUser(callerID); err != nil {
		return mutationFailure[competition.Competition](err)
	}
	if id <= 0 {
		return mutationFailure[competition.Competition](apperr.Validation("competition id is required"))
	}
	if req == nil {
		return mutationFailure[competition.Competition](apperr.Validation("request body is required"))
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return mutationFailure[competition.Competition](apperr.Validation("competition name must not be empty"))
	}

	return mutate(ctx, s.exec, MutationUpdateCompetition, Scope{}, func(ctx context.Context) (competition.Competition, error) {
		existing, err := s.mustGet(ctx, id)
		if err != nil {
			return competition.Competition{}, err
		}
		if existing.CreatedBy != callerID {
			return competition.Competition{}, apperr.New(apperr.CodeForbidden, fmt.Sprintf("only the creator of competition %d can change it", id))
		}
		if req.Name != nil {
			existing.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			existing.Description = strings.TrimSpace(*req.Description)
		}
		if req.StartDate != nil {
			existing.StartDate = *req.StartDate
		}
		if req.EndDate != nil {
			existing.EndDate = *req.EndDate
		}
		if req.IsActive != nil {
			existing.IsActive = *req.IsActive
		}
		if existing.EndDate.Before(existing.StartDate) {
			return competition.Competition{}, apperr.Validation("end date must not be before start date")
		}
		updated, err := s.repo.Update(ctx, existing)
		if err != nil {
			return competition.Competition{}, err
		}
		if updated == nil {
			return competition.Competition{}, apperr.NoData()
		}
		return competition.FromDTO(*updated, s.now()), nil
	})
}

// JoinCompetition registers the user as a participant. In invite-only mode a competition with an
// invite key only admits callers presenting that key.
func (s *CompetitionService) JoinCompetition(ctx context.Context, userID string, competitionID int64, inviteKey string) result.Mutation[struct{}] {
	if err := requireScope(competitionID, userID); err != nil {
		return mutationFailure[struct{}](err)
	}
	return mutate(ctx, s.exec, MutationJoinCompetition, Scope{UserID: userID}, func(ctx context.Context) (struct{}, error) {
		c, err := s.mustGet(ctx, competitionID)
		if err != nil {
			return struct{}{}, err
		}
		if !c.IsActive {
			return struct{}{}, apperr.New(apperr.CodeForbidden, "competition is closed")
		}
		if err := s.checkInviteKey(c, inviteKey); err != nil {
			return struct{}{}, err
		}
		if err := s.repo.AddParticipant(ctx, competitionID, userID); err != nil {
			return struct{}{}, err
		}
		s.logger.WithFields(logrus.Fields{"competition_id": competitionID, "user_id": userID}).Info("user joined competition")
		return struct{}{}, nil
	})
}

func (s *CompetitionService) checkInviteKey(c *competition.CompetitionDTO, inviteKey string) error {
	if s.mode != config.CompetitionModeInviteOnly || c.InviteKeyHash == "" {
		return nil
	}
	if inviteKey == "" {
		return apperr.New(apperr.CodeForbidden, "invite key is required")
	}
	err := bcrypt.CompareHashAndPassword([]byte(c.InviteKeyHash), []byte(inviteKey))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperr.New(apperr.CodeForbidden, "invalid invite key")
	}
	return err
}

func (s *CompetitionService) mustGet(ctx context.Context, id int64) (*competition.CompetitionDTO, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.New(apperr.CodeNotFound, fmt.Sprintf("competition %d not found", id))
	}
	return c, nil
}

func (s *CompetitionService) manyFromDTOs(ds []competition.CompetitionDTO) ([]competition.Competition, error) {
	return competition.FromDTOs(ds, s.now()), nil
}

var _ ports.CompetitionService = (*CompetitionService)(nil)
