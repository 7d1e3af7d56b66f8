package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/application/query"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/domain/team"
	"github.com/avatarctic/step-challenge/internal/core/domain/user"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

type TeamService struct {
	repo     ports.TeamRepository
	userRepo ports.UserRepository
	steps    ports.StepService
	storage  ports.FileStorage
	exec     *query.Executor
	ttl      TTLs
	logger   *logrus.Logger
}

func NewTeamService(repo ports.TeamRepository, userRepo ports.UserRepository, steps ports.StepService, storage ports.FileStorage, exec *query.Executor, ttl TTLs, logger *logrus.Logger) *TeamService {
	return &TeamService{
		repo:     repo,
		userRepo: userRepo,
		steps:    steps,
		storage:  storage,
		exec:     exec,
		ttl:      ttl,
		logger:   loggerOrDiscard(logger),
	}
}

func (s *TeamService) GetTeams(ctx context.Context, competitionID int64) result.Query[[]team.Team] {
	if err := requireCompetition(competitionID); err != nil {
		return queryFailure[[]team.Team](err)
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[[]team.TeamDTO, []team.Team]{
		Fetch: func(ctx context.Context) ([]team.TeamDTO, error) {
			return s.repo.List(ctx, competitionID)
		},
		Transform: infallible(team.FromDTOs),
		CacheKey:  cacheKey(teamServicePrefix, opGetTeams, competitionID),
		TTL:       s.ttl.Query,
	})
}

// GetTeamByID returns the team with its step totals. The team row and the member step sum are
// cached under separate keys with separate lifetimes.
func (s *TeamService) GetTeamByID(ctx context.Context, competitionID, teamID int64) result.Query[team.Team] {
	if err := requireCompetition(competitionID); err != nil {
		return queryFailure[team.Team](err)
	}
	if teamID <= 0 {
		return queryFailure[team.Team](apperr.Validation("team id is required"))
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[*team.TeamDTO, team.Team]{
		Fetch: func(ctx context.Context) (*team.TeamDTO, error) {
			return s.teamInCompetition(ctx, competitionID, teamID)
		},
		Transform: func(d *team.TeamDTO) (team.Team, error) {
			t := team.FromDTO(*d)
			total, err := s.steps.TotalStepsForUsers(ctx, competitionID, t.MemberIDs)
			if err != nil {
				return team.Team{}, err
			}
			return t.WithTotals(total), nil
		},
		CacheKey: cacheKey(teamServicePrefix, opGetTeamByID, teamID, competitionID),
		TTL:      s.ttl.Query,
	})
}

// GetTeamByUserID fails with "No data returned from API" when the user has no team.
func (s *TeamService) GetTeamByUserID(ctx context.Context, competitionID int64, userID string) result.Query[team.Team] {
	if err := requireScope(competitionID, userID); err != nil {
		return queryFailure[team.Team](err)
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[*team.TeamDTO, team.Team]{
		Fetch: func(ctx context.Context) (*team.TeamDTO, error) {
			return s.repo.GetByUserID(ctx, competitionID, userID)
		},
		Transform: infallible(func(d *team.TeamDTO) team.Team { return team.FromDTO(*d) }),
		CacheKey:  cacheKey(teamServicePrefix, opGetTeamByUserID, userID, competitionID),
		TTL:       s.ttl.Query,
	})
}

func (s *TeamService) GetTopTeams(ctx context.Context, competitionID int64, limit int) result.Query[[]team.TopTeam] {
	if err := requireCompetition(competitionID); err != nil {
		return queryFailure[[]team.TopTeam](err)
	}
	limit = normalizeLimit(limit)
	return query.ExecuteQuery(ctx, s.exec, query.Spec[[]team.TopTeamDTO, []team.TopTeam]{
		Fetch: func(ctx context.Context) ([]team.TopTeamDTO, error) {
			return s.repo.TopTeams(ctx, competitionID, limit)
		},
		Transform: infallible(team.TopTeamsFromDTOs),
		CacheKey:  cacheKey(teamServicePrefix, opGetTopTeams, limit, competitionID),
		TTL:       s.ttl.Leaderboard,
	})
}

func (s *TeamService) GetTeamMembers(ctx context.Context, competitionID, teamID int64) result.Query[[]user.Profile] {
	if err := requireCompetition(competitionID); err != nil {
		return queryFailure[[]user.Profile](err)
	}
	if teamID <= 0 {
		return queryFailure[[]user.Profile](apperr.Validation("team id is required"))
	}
	return query.ExecuteQuery(ctx, s.exec, query.Spec[[]user.ProfileDTO, []user.Profile]{
		Fetch: func(ctx context.Context) ([]user.ProfileDTO, error) {
			t, err := s.teamInCompetition(ctx, competitionID, teamID)
			if err != nil || t == nil {
				return nil, err
			}
			if len(t.MemberIDs) == 0 {
				return []user.ProfileDTO{}, nil
			}
			return s.userRepo.ListByIDs(ctx, t.MemberIDs)
		},
		Transform: infallible(user.FromDTOs),
		CacheKey:  cacheKey(teamServicePrefix, opGetTeamMembers, teamID, competitionID),
		TTL:       s.ttl.Query,
	})
}

// CreateTeam creates a team in the competition and makes the creator its first member.
func (s *TeamService) CreateTeam(ctx context.Context, competitionID int64, creatorID string, req *team.CreateTeamRequest) result.Mutation[team.Team] {
	if err := requireScope(competitionID, creatorID); err != nil {
		return mutationFailure[team.Team](err)
	}
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return mutationFailure[team.Team](apperr.Validation("team name is required"))
	}

	return mutate(ctx, s.exec, MutationCreateTeam, Scope{UserID: creatorID}, func(ctx context.Context) (team.Team, error) {
		if err := s.ensureTeamless(ctx, competitionID, creatorID); err != nil {
			return team.Team{}, err
		}
		created, err := s.repo.Create(ctx, &team.TeamDTO{
			CompetitionID: competitionID,
			Name:          strings.TrimSpace(req.Name),
			Description:   strings.TrimSpace(req.Description),
			CreatedBy:     creatorID,
		})
		if err != nil {
			return team.Team{}, err
		}
		if created == nil {
			return team.Team{}, apperr.NoData()
		}
		if err := s.repo.AddMember(ctx, created.ID, creatorID); err != nil {
			return team.Team{}, fmt.Errorf("team %d created but creator could not join: %w", created.ID, err)
		}
		created.MemberIDs = append(created.MemberIDs, creatorID)
		s.logger.WithFields(logrus.Fields{"team_id": created.ID, "competition_id": competitionID, "user_id": creatorID}).Info("team created")
		return team.FromDTO(*created), nil
	})
}

// UpdateTeam renames or re-describes a team. Only the team's creator may change it.
func (s *TeamService) UpdateTeam(ctx context.Context, callerID string, teamID int64, req *team.UpdateTeamRequest) result.Mutation[team.Team] {
	if err := requireUser(callerID); err != nil {
		return mutationFailure[team.Team](err)
	}
	if teamID <= 0 {
		return mutationFailure[team.Team](apperr.Validation("team id is required"))
	}
	if req == nil {
		return mutationFailure[team.Team](apperr.Validation("request body is required"))
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return mutationFailure[team.Team](apperr.Validation("team name must not be empty"))
	}

	return mutate(ctx, s.exec, MutationUpdateTeam, Scope{TeamID: teamID}, func(ctx context.Context) (team.Team, error) {
		existing, err := s.mustOwnTeam(ctx, callerID, teamID)
		if err != nil {
			return team.Team{}, err
		}
		if req.Name != nil {
			existing.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			existing.Description = strings.TrimSpace(*req.Description)
		}
		return s.save(ctx, existing)
	})
}

func (s *TeamService) DeleteTeam(ctx context.Context, callerID string, teamID int64) result.Mutation[struct{}] {
	if err := requireUser(callerID); err != nil {
		return mutationFailure[struct{}](err)
	}
	if teamID <= 0 {
		return mutationFailure[struct{}](apperr.Validation("team id is required"))
	}
	return mutate(ctx, s.exec, MutationDeleteTeam, Scope{TeamID: teamID}, func(ctx context.Context) (struct{}, error) {
		if _, err := s.mustOwnTeam(ctx, callerID, teamID); err != nil {
			return struct{}{}, err
		}
		if err := s.repo.Delete(ctx, teamID); err != nil {
			return struct{}{}, err
		}
		s.logger.WithField("team_id", teamID).Info("team deleted")
		return struct{}{}, nil
	})
}

// JoinTeam adds the user to the team. A user belongs to at most one team per competition.
func (s *TeamService) JoinTeam(ctx context.Context, userID string, teamID int64) result.Mutation[struct{}] {
	if err := requireUser(userID); err != nil {
		return mutationFailure[struct{}](err)
	}
	if teamID <= 0 {
		return mutationFailure[struct{}](apperr.Validation("team id is required"))
	}
	return mutate(ctx, s.exec, MutationJoinTeam, Scope{UserID: userID, TeamID: teamID}, func(ctx context.Context) (struct{}, error) {
		t, err := s.mustGetTeam(ctx, teamID)
		if err != nil {
			return struct{}{}, err
		}
		if err := s.ensureTeamless(ctx, t.CompetitionID, userID); err != nil {
			return struct{}{}, err
		}
		if err := s.repo.AddMember(ctx, teamID, userID); err != nil {
			return struct{}{}, err
		}
		s.logger.WithFields(logrus.Fields{"team_id": teamID, "user_id": userID}).Info("user joined team")
		return struct{}{}, nil
	})
}

func (s *TeamService) LeaveTeam(ctx context.Context, userID string, teamID int64) result.Mutation[struct{}] {
	if err := requireUser(userID); err != nil {
		return mutationFailure[struct{}](err)
	}
	if teamID <= 0 {
		return mutationFailure[struct{}](apperr.Validation("team id is required"))
	}
	return mutate(ctx, s.exec, MutationLeaveTeam, Scope{UserID: userID, TeamID: teamID}, func(ctx context.Context) (struct{}, error) {
		if err := s.repo.RemoveMember(ctx, teamID, userID); err != nil {
			return struct{}{}, err
		}
		s.logger.WithFields(logrus.Fields{"team_id": teamID, "user_id": userID}).Info("user left team")
		return struct{}{}, nil
	})
}

// UploadTeamImage stores the image in the team-images bucket and points the team at it.
func (s *TeamService) UploadTeamImage(ctx context.Context, callerID string, teamID int64, upload *ports.FileUpload) result.Mutation[team.Team] {
	if err := requireUser(callerID); err != nil {
		return mutationFailure[team.Team](err)
	}
	if teamID <= 0 {
		return mutationFailure[team.Team](apperr.Validation("team id is required"))
	}
	if err := validateImage(upload); err != nil {
		return mutationFailure[team.Team](err)
	}
	return mutate(ctx, s.exec, MutationUploadTeamImage, Scope{TeamID: teamID}, func(ctx context.Context) (team.Team, error) {
		existing, err := s.mustOwnTeam(ctx, callerID, teamID)
		if err != nil {
			return team.Team{}, err
		}
		objectPath := fmt.Sprintf("%d/%s%s", teamID, uuid.NewString(), path.Ext(upload.Filename))
		if err := s.storage.Upload(ctx, ports.BucketTeamImages, objectPath, upload.Body); err != nil {
			return team.Team{}, apperr.Wrap(apperr.CodeStorage, "failed to upload team image", err)
		}
		existing.ImageURL = s.storage.PublicURL(ports.BucketTeamImages, objectPath)
		return s.save(ctx, existing)
	})
}

func (s *TeamService) save(ctx context.Context, t *team.TeamDTO) (team.Team, error) {
	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return team.Team{}, err
	}
	if updated == nil {
		return team.Team{}, apperr.NoData()
	}
	return team.FromDTO(*updated), nil
}

func (s *TeamService) mustGetTeam(ctx context.Context, teamID int64) (*team.TeamDTO, error) {
	t, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.New(apperr.CodeNotFound, fmt.Sprintf("team %d not found", teamID))
	}
	return t, nil
}

func (s *TeamService) mustOwnTeam(ctx context.Context, callerID string, teamID int64) (*team.TeamDTO, error) {
	t, err := s.mustGetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if t.CreatedBy != callerID {
		return nil, apperr.New(apperr.CodeForbidden, fmt.Sprintf("only the creator of team %d can change it", teamID))
	}
	return t, nil
}

// teamInCompetition returns nil, nil when the team does not exist; a team of another competition is not found.
func (s *TeamService) teamInCompetition(ctx context.Context, competitionID, teamID int64) (*team.TeamDTO, error) {
	t, err := s.repo.GetByID(ctx, teamID)
	if err != nil || t == nil {
		return t, err
	}
	if t.CompetitionID != competitionID {
		return nil, apperr.New(apperr.CodeNotFound, fmt.Sprintf("team %d is not part of competition %d", teamID, competitionID))
	}
	return t, nil
}

func (s *TeamService) ensureTeamless(ctx context.Context, competitionID int64, userID string) error {
	current, err := s.repo.GetByUserID(ctx, competitionID, userID)
	if err != nil {
		return err
	}
	if current != nil {
		return apperr.New(apperr.CodeConflict, fmt.Sprintf("already a member of team %q", current.Name))
	}
	return nil
}

var _ ports.TeamService = (*TeamService)(nil)
