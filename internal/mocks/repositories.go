package mocks

import (
	"context"
	"time"

	"github.com/avatarctic/step-challenge/internal/core/domain/badge"
	"github.com/avatarctic/step-challenge/internal/core/domain/competition"
	"github.com/avatarctic/step-challenge/internal/core/domain/goals"
	"github.com/avatarctic/step-challenge/internal/core/domain/step"
	"github.com/avatarctic/step-challenge/internal/core/domain/team"
	"github.com/avatarctic/step-challenge/internal/core/domain/user"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// StepRepositoryMock is a lightweight mock for StepRepository
type StepRepositoryMock struct {
	ListByUserFn  func(ctx context.Context, competitionID int64, userID string) ([]step.StepsRecordDTO, error)
	GetOnDateFn   func(ctx context.Context, competitionID int64, userID string, date time.Time) (*step.StepsRecordDTO, error)
	UpsertFn      func(ctx context.Context, rec *step.StepsRecordDTO) (*step.StepsRecordDTO, error)
	DeleteFn      func(ctx context.Context, recordID int64, userID string) error
	SumForUserFn  func(ctx context.Context, competitionID int64, userID string) (*int64, error)
	SumForUsersFn func(ctx context.Context, competitionID int64, userIDs []string) (*int64, error)
	TopUsersFn    func(ctx context.Context, competitionID int64, limit int) ([]step.TopUserDTO, error)
}

func (m *StepRepositoryMock) ListByUser(ctx context.Context, competitionID int64, userID string) ([]step.StepsRecordDTO, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, competitionID, userID)
	}
	return []step.StepsRecordDTO{}, nil
}
func (m *StepRepositoryMock) GetOnDate(ctx context.Context, competitionID int64, userID string, date time.Time) (*step.StepsRecordDTO, error) {
	if m.GetOnDateFn != nil {
		return m.GetOnDateFn(ctx, competitionID, userID, date)
	}
	return nil, nil
}
func (m *StepRepositoryMock) Upsert(ctx context.Context, rec *step.StepsRecordDTO) (*step.StepsRecordDTO, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, rec)
	}
	return rec, nil
}
func (m *StepRepositoryMock) Delete(ctx context.Context, recordID int64, userID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, recordID, userID)
	}
	return nil
}
func (m *StepRepositoryMock) SumForUser(ctx context.Context, competitionID int64, userID string) (*int64, error) {
	if m.SumForUserFn != nil {
		return m.SumForUserFn(ctx, competitionID, userID)
	}
	var zero int64
	return &zero, nil
}
func (m *StepRepositoryMock) SumForUsers(ctx context.Context, competitionID int64, userIDs []string) (*int64, error) {
	if m.SumForUsersFn != nil {
		return m.SumForUsersFn(ctx, competitionID, userIDs)
	}
	var zero int64
	return &zero, nil
}
func (m *StepRepositoryMock) TopUsers(ctx context.Context, competitionID int64, limit int) ([]step.TopUserDTO, error) {
	if m.TopUsersFn != nil {
		return m.TopUsersFn(ctx, competitionID, limit)
	}
	return []step.TopUserDTO{}, nil
}

// TeamRepositoryMock is a lightweight mock for TeamRepository
type TeamRepositoryMock struct {
	ListFn         func(ctx context.Context, competitionID int64) ([]team.TeamDTO, error)
	GetByIDFn      func(ctx context.Context, teamID int64) (*team.TeamDTO, error)
	GetByUserIDFn  func(ctx context.Context, competitionID int64, userID string) (*team.TeamDTO, error)
	CreateFn       func(ctx context.Context, t *team.TeamDTO) (*team.TeamDTO, error)
	UpdateFn       func(ctx context.Context, t *team.TeamDTO) (*team.TeamDTO, error)
	DeleteFn       func(ctx context.Context, teamID int64) error
	AddMemberFn    func(ctx context.Context, teamID int64, userID string) error
	RemoveMemberFn func(ctx context.Context, teamID int64, userID string) error
	TopTeamsFn     func(ctx context.Context, competitionID int64, limit int) ([]team.TopTeamDTO, error)
}

func (m *TeamRepositoryMock) List(ctx context.Context, competitionID int64) ([]team.TeamDTO, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, competitionID)
	}
	return []team.TeamDTO{}, nil
}
func (m *TeamRepositoryMock) GetByID(ctx context.Context, teamID int64) (*team.TeamDTO, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, teamID)
	}
	return nil, nil
}
func (m *TeamRepositoryMock) GetByUserID(ctx context.Context, competitionID int64, userID string) (*team.TeamDTO, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, competitionID, userID)
	}
	return nil, nil
}
func (m *TeamRepositoryMock) Create(ctx context.Context, t *team.TeamDTO) (*team.TeamDTO, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return t, nil
}
func (m *TeamRepositoryMock) Update(ctx context.Context, t *team.TeamDTO) (*team.TeamDTO, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, t)
	}
	return t, nil
}
func (m *TeamRepositoryMock) Delete(ctx context.Context, teamID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, teamID)
	}
	return nil
}
func (m *TeamRepositoryMock) AddMember(ctx context.Context, teamID int64, userID string) error {
	if m.AddMemberFn != nil {
		return m.AddMemberFn(ctx, teamID, userID)
	}
	return nil
}
func (m *TeamRepositoryMock) RemoveMember(ctx context.Context, teamID int64, userID string) error {
	if m.RemoveMemberFn != nil {
		return m.RemoveMemberFn(ctx, teamID, userID)
	}
	return nil
}
func (m *TeamRepositoryMock) TopTeams(ctx context.Context, competitionID int64, limit int) ([]team.TopTeamDTO, error) {
	if m.TopTeamsFn != nil {
		return m.TopTeamsFn(ctx, competitionID, limit)
	}
	return []team.TopTeamDTO{}, nil
}

// UserRepositoryMock is a lightweight mock for UserRepository
type UserRepositoryMock struct {
	GetProfileFn    func(ctx context.Context, userID string) (*user.ProfileDTO, error)
	ListByIDsFn     func(ctx context.Context, userIDs []string) ([]user.ProfileDTO, error)
	UpdateProfileFn func(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.ProfileDTO, error)
}

func (m *UserRepositoryMock) GetProfile(ctx context.Context, userID string) (*user.ProfileDTO, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, userID)
	}
	return nil, nil
}
func (m *UserRepositoryMock) ListByIDs(ctx context.Context, userIDs []string) ([]user.ProfileDTO, error) {
	if m.ListByIDsFn != nil {
		return m.ListByIDsFn(ctx, userIDs)
	}
	return []user.ProfileDTO{}, nil
}
func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.ProfileDTO, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, userID, req)
	}
	p := &user.ProfileDTO{ID: userID}
	if req.DisplayName != nil {
		p.DisplayName = *req.DisplayName
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	return p, nil
}

// CompetitionRepositoryMock is a lightweight mock for CompetitionRepository
type CompetitionRepositoryMock struct {
	ListFn           func(ctx context.Context) ([]competition.CompetitionDTO, error)
	GetByIDFn        func(ctx context.Context, id int64) (*competition.CompetitionDTO, error)
	ListByUserFn     func(ctx context.Context, userID string) ([]competition.CompetitionDTO, error)
	CreateFn         func(ctx context.Context, c *competition.CompetitionDTO) (*competition.CompetitionDTO, error)
	UpdateFn         func(ctx context.Context, c *competition.CompetitionDTO) (*competition.CompetitionDTO, error)
	AddParticipantFn func(ctx context.Context, competitionID int64, userID string) error
}

func (m *CompetitionRepositoryMock) List(ctx context.Context) ([]competition.CompetitionDTO, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []competition.CompetitionDTO{}, nil
}
func (m *CompetitionRepositoryMock) GetByID(ctx context.Context, id int64) (*competition.CompetitionDTO, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *CompetitionRepositoryMock) ListByUser(ctx context.Context, userID string) ([]competition.CompetitionDTO, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return []competition.CompetitionDTO{}, nil
}
func (m *CompetitionRepositoryMock) Create(ctx context.Context, c *competition.CompetitionDTO) (*competition.CompetitionDTO, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return c, nil
}
func (m *CompetitionRepositoryMock) Update(ctx context.Context, c *competition.CompetitionDTO) (*competition.CompetitionDTO, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, c)
	}
	return c, nil
}
func (m *CompetitionRepositoryMock) AddParticipant(ctx context.Context, competitionID int64, userID string) error {
	if m.AddParticipantFn != nil {
		return m.AddParticipantFn(ctx, competitionID, userID)
	}
	return nil
}

// GoalsRepositoryMock is a lightweight mock for GoalsRepository
type GoalsRepositoryMock struct {
	GetByUserFn func(ctx context.Context, competitionID int64, userID string) (*goals.GoalDTO, error)
	UpsertFn    func(ctx context.Context, g *goals.GoalDTO) (*goals.GoalDTO, error)
}

func (m *GoalsRepositoryMock) GetByUser(ctx context.Context, competitionID int64, userID string) (*goals.GoalDTO, error) {
	if m.GetByUserFn != nil {
		return m.GetByUserFn(ctx, competitionID, userID)
	}
	return nil, nil
}
func (m *GoalsRepositoryMock) Upsert(ctx context.Context, g *goals.GoalDTO) (*goals.GoalDTO, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, g)
	}
	return g, nil
}

// BadgeRepositoryMock is a lightweight mock for BadgeRepository
type BadgeRepositoryMock struct {
	ListFn       func(ctx context.Context) ([]badge.BadgeDTO, error)
	ListByUserFn func(ctx context.Context, competitionID int64, userID string) ([]badge.UserBadgeDTO, error)
	AwardFn      func(ctx context.Context, competitionID int64, userID string, badgeID int64) error
}

func (m *BadgeRepositoryMock) List(ctx context.Context) ([]badge.BadgeDTO, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []badge.BadgeDTO{}, nil
}
func (m *BadgeRepositoryMock) ListByUser(ctx context.Context, competitionID int64, userID string) ([]badge.UserBadgeDTO, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, competitionID, userID)
	}
	return []badge.UserBadgeDTO{}, nil
}
func (m *BadgeRepositoryMock) Award(ctx context.Context, competitionID int64, userID string, badgeID int64) error {
	if m.AwardFn != nil {
		return m.AwardFn(ctx, competitionID, userID, badgeID)
	}
	return nil
}

var (
	_ ports.StepRepository        = (*StepRepositoryMock)(nil)
	_ ports.TeamRepository        = (*TeamRepositoryMock)(nil)
	_ ports.UserRepository        = (*UserRepositoryMock)(nil)
	_ ports.CompetitionRepository = (*CompetitionRepositoryMock)(nil)
	_ ports.GoalsRepository       = (*GoalsRepositoryMock)(nil)
	_ ports.BadgeRepository       = (*BadgeRepositoryMock)(nil)
)
