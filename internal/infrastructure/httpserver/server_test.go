package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/step-challenge/configs"
	"github.com/avatarctic/step-challenge/internal/application/cache"
	"github.com/avatarctic/step-challenge/internal/application/query"
	"github.com/avatarctic/step-challenge/internal/application/services"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/auth"
	"github.com/avatarctic/step-challenge/internal/core/domain/badge"
	"github.com/avatarctic/step-challenge/internal/core/domain/competition"
	"github.com/avatarctic/step-challenge/internal/core/domain/step"
	"github.com/avatarctic/step-challenge/internal/core/domain/team"
	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver"
	"github.com/avatarctic/step-challenge/internal/mocks"
)

const testAnonKey = "anon-key"

type testEnv struct {
	srv     *httpserver.Server
	steps   *mocks.StepRepositoryMock
	teams   *mocks.TeamRepositoryMock
	users   *mocks.UserRepositoryMock
	comps   *mocks.CompetitionRepositoryMock
	goals   *mocks.GoalsRepositoryMock
	badges  *mocks.BadgeRepositoryMock
	prefs   *mocks.PreferenceStoreMock
	storage *mocks.FileStorageMock
	email   *mocks.EmailServiceMock
}

func newTestEnv(t *testing.T, basePath string, checkers ...ports.HealthChecker) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := &testEnv{
		steps:   &mocks.StepRepositoryMock{},
		teams:   &mocks.TeamRepositoryMock{},
		users:   &mocks.UserRepositoryMock{},
		comps:   &mocks.CompetitionRepositoryMock{},
		goals:   &mocks.GoalsRepositoryMock{},
		badges:  &mocks.BadgeRepositoryMock{},
		prefs:   &mocks.PreferenceStoreMock{},
		storage: &mocks.FileStorageMock{},
		email:   &mocks.EmailServiceMock{},
	}

	exec := query.NewExecutor(cache.NewStore(), logger)
	ttl := services.DefaultTTLs()
	stepSvc := services.NewStepService(env.steps, exec, ttl, logger)
	authMock := &mocks.AuthServiceMock{ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
		if !strings.HasPrefix(token, "good-") {
			return nil, errors.New("bad token")
		}
		return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: strings.TrimPrefix(token, "good-")}}, nil
	}}

	reg := prometheus.NewRegistry()
	env.srv = httpserver.NewServer(&httpserver.ServerConfig{
		Host:           "127.0.0.1",
		Port:           "0",
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		IdleTimeout:    time.Second,
		AllowedOrigins: []string{"*"},
		BasePath:       basePath,
		AnonKey:        testAnonKey,
	}, logger, httpserver.ServerDeps{
		StepService:        stepSvc,
		TeamService:        services.NewTeamService(env.teams, env.users, stepSvc, env.storage, exec, ttl, logger),
		UserService:        services.NewUserService(env.users, env.storage, exec, ttl, logger),
		CompetitionService: services.NewCompetitionService(env.comps, configs.CompetitionModePublic, exec, ttl, logger),
		GoalsService:       services.NewGoalsService(env.goals, env.steps, exec, ttl, logger),
		BadgeService:       services.NewBadgeService(env.badges, stepSvc, exec, ttl, logger),
		PreferenceService:  services.NewPreferenceService(env.prefs, logger),
		ContactService:     services.NewContactService(env.email, "team@example.com", logger),
		AuthService:        authMock,
		HealthCheckers:     checkers,
		Registerer:         reg,
		Gatherer:           reg,
	})
	return env
}

type request struct {
	method, path string
	body         any
	token        string
	headers      map[string]string
}

func (env *testEnv) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.srv.Echo().ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

type failingChecker struct{}

func (failingChecker) Name() string                   { return "database" }
func (failingChecker) Check(ctx context.Context) error { return errors.New("down") }

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(t, request{method: http.MethodGet, path: "/health"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	env = newTestEnv(t, "", failingChecker{})
	rec = env.do(t, request{method: http.MethodGet, path: "/health"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"unhealthy"`)
}

func TestBasePathPrefixesRoutes(t *testing.T) {
	env := newTestEnv(t, "/steps")
	assert.Equal(t, http.StatusOK, env.do(t, request{method: http.MethodGet, path: "/steps/health"}).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, request{method: http.MethodGet, path: "/health"}).Code)
}

func TestAPIRequiresToken(t *testing.T) {
	env := newTestEnv(t, "")
	assert.Equal(t, http.StatusUnauthorized, env.do(t, request{method: http.MethodGet, path: "/api/v1/competitions"}).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, request{method: http.MethodGet, path: "/api/v1/competitions", token: "forged"}).Code)
}

func TestAnonymousKeyAllowsReadsOnly(t *testing.T) {
	env := newTestEnv(t, "")
	anon := map[string]string{"apikey": testAnonKey}

	rec := env.do(t, request{method: http.MethodGet, path: "/api/v1/competitions", headers: anon})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).Success)

	rec = env.do(t, request{method: http.MethodPost, path: "/api/v1/teams", headers: anon, body: map[string]string{"name": "x"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, request{method: http.MethodGet, path: "/api/v1/users/me", headers: anon})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNoCompetitionSelected(t *testing.T) {
	env := newTestEnv(t, "")
	called := false
	env.steps.ListByUserFn = func(ctx context.Context, competitionID int64, userID string) ([]step.StepsRecordDTO, error) {
		called = true
		return nil, nil
	}

	rec := env.do(t, request{method: http.MethodGet, path: "/api/v1/steps", token: "good-u1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, apperr.MsgNoCompetitionSelected, body.Error)
	assert.Equal(t, apperr.CodeNoCompetitionSelected, body.Code)
	assert.False(t, called)
}

func TestCompetitionHeaderWinsOverPreference(t *testing.T) {
	env := newTestEnv(t, "")
	var gotCompetition int64
	var gotUser string
	env.steps.ListByUserFn = func(ctx context.Context, competitionID int64, userID string) ([]step.StepsRecordDTO, error) {
		gotCompetition, gotUser = competitionID, userID
		return []step.StepsRecordDTO{{ID: 1, UserID: userID, CompetitionID: competitionID, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Steps: 4200}}, nil
	}

	rec := env.do(t, request{method: http.MethodPut, path: "/api/v1/preferences/competition", token: "good-u1", body: map[string]int64{"competitionId": 5}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, request{method: http.MethodGet, path: "/api/v1/steps", token: "good-u1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), gotCompetition)
	assert.Equal(t, "u1", gotUser)

	rec = env.do(t, request{method: http.MethodGet, path: "/api/v1/steps?userId=u2", token: "good-u1", headers: map[string]string{"X-Competition-ID": "3"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), gotCompetition)
	assert.Equal(t, "u2", gotUser)

	var records []step.StepsRecord
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "2026-03-01", records[0].Date)
}

func TestInvalidCompetitionHeader(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(t, request{method: http.MethodGet, path: "/api/v1/steps", token: "good-u1", headers: map[string]string{"X-Competition-ID": "abc"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddStepsAwardsBadges(t *testing.T) {
	env := newTestEnv(t, "")
	env.badges.ListFn = func(ctx context.Context) ([]badge.BadgeDTO, error) {
		return []badge.BadgeDTO{{ID: 1, Name: "First 1k", StepThreshold: 1000}, {ID: 2, Name: "10k", StepThreshold: 10000}}, nil
	}
	total := int64(1500)
	env.steps.SumForUsersFn = func(ctx context.Context, competitionID int64, userIDs []string) (*int64, error) {
		return &total, nil
	}
	var awarded []int64
	env.badges.AwardFn = func(ctx context.Context, competitionID int64, userID string, badgeID int64) error {
		awarded = append(awarded, badgeID)
		return nil
	}

	rec := env.do(t, request{
		method:  http.MethodPost,
		path:    "/api/v1/steps",
		token:   "good-u1",
		headers: map[string]string{"X-Competition-ID": "2"},
		body:    step.AddStepsRequest{Date: "2026-03-01", Steps: 1500},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data struct {
		Record    step.StepsRecord `json:"record"`
		NewBadges []badge.Badge    `json:"newBadges"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	assert.Equal(t, int64(1500), data.Record.Steps)
	require.Len(t, data.NewBadges, 1)
	assert.Equal(t, "First 1k", data.NewBadges[0].Name)
	assert.Equal(t, []int64{1}, awarded)
}

func TestAddStepsValidationFailure(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(t, request{
		method:  http.MethodPost,
		path:    "/api/v1/steps",
		token:   "good-u1",
		headers: map[string]string{"X-Competition-ID": "2"},
		body:    step.AddStepsRequest{Date: "yesterday", Steps: 10},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.CodeValidationFailed, decode(t, rec).Code)
}

func TestNotFoundMapsTo404(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(t, request{method: http.MethodGet, path: "/api/v1/teams/9", token: "good-u1", headers: map[string]string{"X-Competition-ID": "2"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decode(t, rec).Success)
}

func TestContactIsPublic(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(t, request{method: http.MethodPost, path: "/api/v1/contact", body: ports.ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "hello"}})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Len(t, env.email.Sent, 1)
	assert.Equal(t, "hello", env.email.Sent[0].Message)
}

func TestUploadAvatar(t *testing.T) {
	env := newTestEnv(t, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="me.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/me/avatar", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer good-u1")
	rec := httptest.NewRecorder()
	env.srv.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, env.storage.Objects, 1)
	for key, data := range env.storage.Objects {
		assert.True(t, strings.HasPrefix(key, ports.BucketAvatars+"/u1/"), key)
		assert.True(t, strings.HasSuffix(key, ".png"), key)
		assert.Equal(t, "png-bytes", string(data))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, "")
	env.do(t, request{method: http.MethodGet, path: "/health"})
	rec := env.do(t, request{method: http.MethodGet, path: "/metrics"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{endpoint="/health",method="GET",status="200"} 1`)
}

func TestOnlyOwnersChangeTeamsAndCompetitions(t *testing.T) {
	env := newTestEnv(t, "")
	env.teams.GetByIDFn = func(ctx context.Context, teamID int64) (*team.TeamDTO, error) {
		return &team.TeamDTO{ID: teamID, CompetitionID: 2, Name: "Walkers", CreatedBy: "u1"}, nil
	}
	deleted := 0
	env.teams.DeleteFn = func(ctx context.Context, teamID int64) error {
		deleted++
		return nil
	}
	env.comps.GetByIDFn = func(ctx context.Context, id int64) (*competition.CompetitionDTO, error) {
		return &competition.CompetitionDTO{ID: id, Name: "Spring", IsActive: true, CreatedBy: "u1"}, nil
	}

	rec := env.do(t, request{method: http.MethodPut, path: "/api/v1/teams/9", token: "good-u2", body: map[string]string{"name": "Mine now"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperr.CodeForbidden, decode(t, rec).Code)

	rec = env.do(t, request{method: http.MethodDelete, path: "/api/v1/teams/9", token: "good-u2"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, deleted)

	rec = env.do(t, request{method: http.MethodPut, path: "/api/v1/competitions/4", token: "good-u2", body: map[string]string{"name": "Renamed"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, request{method: http.MethodDelete, path: "/api/v1/teams/9", token: "good-u1"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, deleted)
}

func TestAwardBadgeGoesToCaller(t *testing.T) {
	env := newTestEnv(t, "")
	env.badges.ListFn = func(ctx context.Context) ([]badge.BadgeDTO, error) {
		return []badge.BadgeDTO{{ID: 1, Name: "First 1k", StepThreshold: 1000}}, nil
	}
	env.steps.SumForUsersFn = func(ctx context.Context, competitionID int64, userIDs []string) (*int64, error) {
		total := int64(1500)
		return &total, nil
	}
	var awardedTo []string
	env.badges.AwardFn = func(ctx context.Context, competitionID int64, userID string, badgeID int64) error {
		awardedTo = append(awardedTo, userID)
		return nil
	}

	rec := env.do(t, request{
		method:  http.MethodPost,
		path:    "/api/v1/badges/1/award",
		token:   "good-u1",
		headers: map[string]string{"X-Competition-ID": "2"},
		body:    map[string]string{"userId": "u2"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"u1"}, awardedTo)
}

func TestShutdownBeforeStart(t *testing.T) {
	env := newTestEnv(t, "")
	assert.NoError(t, env.srv.Shutdown(context.Background()))
	assert.ErrorIs(t, env.srv.Start(), http.ErrServerClosed)
}
