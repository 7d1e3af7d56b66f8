package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	config "github.com/avatarctic/step-challenge/configs"
	"github.com/avatarctic/step-challenge/internal/application/services"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/competition"
	"github.com/avatarctic/step-challenge/internal/mocks"
)

func inviteOnlyCompetition(t *testing.T, key string) *competition.CompetitionDTO {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return &competition.CompetitionDTO{ID: 4, Name: "Spring", IsActive: true, InviteKeyHash: string(hash)}
}

func TestJoinCompetition_InviteOnly(t *testing.T) {
	f := newFixture()
	joined := 0
	repo := &mocks.CompetitionRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*competition.CompetitionDTO, error) {
			return inviteOnlyCompetition(t, "spring-2026"), nil
		},
		AddParticipantFn: func(ctx context.Context, competitionID int64, userID string) error {
			joined++
			return nil
		},
	}
	svc := services.NewCompetitionService(repo, config.CompetitionModeInviteOnly, f.exec, services.DefaultTTLs(), nil)
	ctx := context.Background()

	res := svc.JoinCompetition(ctx, "u1", 4, "wrong")
	assert.False(t, res.Success)
	assert.Equal(t, apperr.CodeForbidden, res.Code)
	assert.Equal(t, "invalid invite key", res.Error)

	res = svc.JoinCompetition(ctx, "u1", 4, "")
	assert.Equal(t, apperr.CodeForbidden, res.Code)
	assert.Zero(t, joined)
	assert.Empty(t, f.cache.Invalidated())

	res = svc.JoinCompetition(ctx, "u1", 4, "spring-2026")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 1, joined)
	assert.ElementsMatch(t, []string{"competition_service_get-user-competitions-u1", "step_service_get-top-users-"}, f.cache.Invalidated())
}

func TestJoinCompetition_PublicIgnoresKey(t *testing.T) {
	f := newFixture()
	repo := &mocks.CompetitionRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*competition.CompetitionDTO, error) {
			return inviteOnlyCompetition(t, "spring-2026"), nil
		},
	}
	svc := services.NewCompetitionService(repo, config.CompetitionModePublic, f.exec, services.DefaultTTLs(), nil)

	res := svc.JoinCompetition(context.Background(), "u1", 4, "")
	assert.True(t, res.Success, res.Error)
}

func TestJoinCompetition_Closed(t *testing.T) {
	f := newFixture()
	repo := &mocks.CompetitionRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*competition.CompetitionDTO, error) {
			return &competition.CompetitionDTO{ID: id, IsActive: false}, nil
		},
	}
	svc := services.NewCompetitionService(repo, config.CompetitionModePublic, f.exec, services.DefaultTTLs(), nil)

	res := svc.JoinCompetition(context.Background(), "u1", 4, "")
	assert.Equal(t, apperr.CodeForbidden, res.Code)
}

func TestCreateCompetition(t *testing.T) {
	f := newFixture()
	var stored *competition.CompetitionDTO
	repo := &mocks.CompetitionRepositoryMock{CreateFn: func(ctx context.Context, c *competition.CompetitionDTO) (*competition.CompetitionDTO, error) {
		stored = c
		saved := *c
		saved.ID = 8
		return &saved, nil
	}}
	svc := services.NewCompetitionService(repo, config.CompetitionModeInviteOnly, f.exec, services.DefaultTTLs(), nil)
	ctx := context.Background()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	bad := svc.CreateCompetition(ctx, "u1", &competition.CreateCompetitionRequest{Name: "Spring", StartDate: start, EndDate: start.AddDate(0, 0, -1)})
	assert.Equal(t, apperr.CodeValidationFailed, bad.Code)

	res := svc.CreateCompetition(ctx, "u1", &competition.CreateCompetitionRequest{
		Name:      "Spring",
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
		InviteKey: "spring-2026",
	})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, int64(8), res.Data.ID)
	assert.True(t, res.Data.InviteOnly)
	require.NotNil(t, stored)
	assert.NotEqual(t, "spring-2026", stored.InviteKeyHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.InviteKeyHash), []byte("spring-2026")))
	assert.Equal(t, "u1", stored.CreatedBy)
	assert.Equal(t, "u1", res.Data.CreatedBy)
	assert.Equal(t, []string{"competition_service_"}, f.cache.Invalidated())
}

func TestGetCompetitions_CachedAndInvalidatedByUpdate(t *testing.T) {
	f := newFixture()
	listCalls := 0
	repo := &mocks.CompetitionRepositoryMock{
		ListFn: func(ctx context.Context) ([]competition.CompetitionDTO, error) {
			listCalls++
			return []competition.CompetitionDTO{{ID: 1, Name: "Winter", IsActive: true}}, nil
		},
		GetByIDFn: func(ctx context.Context, id int64) (*competition.CompetitionDTO, error) {
			return &competition.CompetitionDTO{ID: id, Name: "Winter", IsActive: true, CreatedBy: "u1"}, nil
		},
	}
	svc := services.NewCompetitionService(repo, config.CompetitionModePublic, f.exec, services.DefaultTTLs(), nil)
	ctx := context.Background()

	require.True(t, svc.GetCompetitions(ctx).Success)
	require.True(t, svc.GetCompetitionByID(ctx, 1).Success)
	ent, ok := f.store.Entry("competition_service_get-competitions")
	require.True(t, ok)
	assert.Equal(t, f.now.Add(60*time.Minute), ent.ExpiresAt)

	name := "Winter 2026"
	require.True(t, svc.UpdateCompetition(ctx, "u1", 1, &competition.UpdateCompetitionRequest{Name: &name}).Success)
	assert.Zero(t, f.store.Len())

	require.True(t, svc.GetCompetitions(ctx).Success)
	assert.Equal(t, 2, listCalls)
}

func TestUpdateCompetition_OnlyCreator(t *testing.T) {
	f := newFixture()
	updates := 0
	repo := &mocks.CompetitionRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*competition.CompetitionDTO, error) {
			return &competition.CompetitionDTO{ID: id, Name: "Winter", IsActive: true, CreatedBy: "organizer"}, nil
		},
		UpdateFn: func(ctx context.Context, c *competition.CompetitionDTO) (*competition.CompetitionDTO, error) {
			updates++
			return c, nil
		},
	}
	svc := services.NewCompetitionService(repo, config.CompetitionModePublic, f.exec, services.DefaultTTLs(), nil)

	inactive := false
	res := svc.UpdateCompetition(context.Background(), "participant", 1, &competition.UpdateCompetitionRequest{IsActive: &inactive})
	assert.False(t, res.Success)
	assert.Equal(t, apperr.CodeForbidden, res.Code)
	assert.Zero(t, updates)
	assert.Empty(t, f.cache.Invalidated())

	anon := svc.CreateCompetition(context.Background(), "", &competition.CreateCompetitionRequest{Name: "Spring"})
	assert.Equal(t, apperr.CodeValidationFailed, anon.Code)
}

func TestGetCompetitionByID_Missing(t *testing.T) {
	f := newFixture()
	svc := services.NewCompetitionService(&mocks.CompetitionRepositoryMock{}, config.CompetitionModePublic, f.exec, services.DefaultTTLs(), nil)

	res := svc.GetCompetitionByID(context.Background(), 9)
	assert.False(t, res.Success)
	assert.Equal(t, "No data returned from API", res.Error)
}
