package ports

import (
	"context"

	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/domain/team"
	"github.com/avatarctic/step-challenge/internal/core/domain/user"
)

// TeamRepository is the backend surface for teams and memberships.
type TeamRepository interface {
	List(ctx context.Context, competitionID int64) ([]team.TeamDTO, error)
	// GetByID returns nil, nil when the team does not exist.
	GetByID(ctx context.Context, teamID int64) (*team.TeamDTO, error)
	// GetByUserID returns nil, nil when the user has no team in the competition.
	GetByUserID(ctx context.Context, competitionID int64, userID string) (*team.TeamDTO, error)
	Create(ctx context.Context, t *team.TeamDTO) (*team.TeamDTO, error)
	Update(ctx context.Context, t *team.TeamDTO) (*team.TeamDTO, error)
	Delete(ctx context.Context, teamID int64) error
	AddMember(ctx context.Context, teamID int64, userID string) error
	RemoveMember(ctx context.Context, teamID int64, userID string) error
	// TopTeams calls get_top_teams(p_limit, p_competition_id).
	TopTeams(ctx context.Context, competitionID int64, limit int) ([]team.TopTeamDTO, error)
}

// TeamService defines team reads and writes scoped to a competition.
type TeamService interface {
	GetTeams(ctx context.Context, competitionID int64) result.Query[[]team.Team]
	GetTeamByID(ctx context.Context, competitionID, teamID int64) result.Query[team.Team]
	GetTeamByUserID(ctx context.Context, competitionID int64, userID string) result.Query[team.Team]
	GetTopTeams(ctx context.Context, competitionID int64, limit int) result.Query[[]team.TopTeam]
	GetTeamMembers(ctx context.Context, competitionID, teamID int64) result.Query[[]user.Profile]
	CreateTeam(ctx context.Context, competitionID int64, creatorID string, req *team.CreateTeamRequest) result.Mutation[team.Team]
	UpdateTeam(ctx context.Context, callerID string, teamID int64, req *team.UpdateTeamRequest) result.Mutation[team.Team]
	DeleteTeam(ctx context.Context, callerID string, teamID int64) result.Mutation[struct{}]
	JoinTeam(ctx context.Context, userID string, teamID int64) result.Mutation[struct{}]
	LeaveTeam(ctx context.Context, userID string, teamID int64) result.Mutation[struct{}]
	UploadTeamImage(ctx context.Context, callerID string, teamID int64, upload *FileUpload) result.Mutation[team.Team]
}
