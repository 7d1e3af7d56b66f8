package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/team"
	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/infrastructure/db"
)

// teamSelect loads teams with their member ids in join order.
const teamSelect = `
	SELECT t.id, t.competition_id, t.name, t.description, t.image_url, t.created_by, t.created_at,
	       COALESCE(ARRAY_AGG(tm.user_id ORDER BY tm.joined_at) FILTER (WHERE tm.user_id IS NOT NULL), '{}') AS member_ids
	FROM teams t
	LEFT JOIN team_members tm ON tm.team_id = t.id`

const teamGroup = ` GROUP BY t.id`

type TeamRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewTeamRepository(database *db.Database, logger *logrus.Logger) *TeamRepository {
	return &TeamRepository{db: database, logger: logger}
}

func (r *TeamRepository) List(ctx context.Context, competitionID int64) ([]team.TeamDTO, error) {
	out := []team.TeamDTO{}
	query := teamSelect + ` WHERE t.competition_id = $1` + teamGroup + ` ORDER BY t.name`
	if err := r.db.DB.SelectContext(ctx, &out, query, competitionID); err != nil {
		return nil, db.MapError(err, "list teams")
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (*team.TeamDTO, error) {
	return r.getOne(ctx, teamSelect+` WHERE t.id = $1`+teamGroup, teamID)
}

func (r *TeamRepository) GetByUserID(ctx context.Context, competitionID int64, userID string) (*team.TeamDTO, error) {
	query := teamSelect + `
		WHERE t.competition_id = $1
		  AND t.id IN (SELECT team_id FROM team_members WHERE user_id = $2)` + teamGroup + ` LIMIT 1`
	return r.getOne(ctx, query, competitionID, userID)
}

func (r *TeamRepository) getOne(ctx context.Context, query string, args ...interface{}) (*team.TeamDTO, error) {
	var t team.TeamDTO
	err := r.db.DB.GetContext(ctx, &t, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.MapError(err, "get team")
	}
	return &t, nil
}

// Create inserts the team row; membership is added separately.
func (r *TeamRepository) Create(ctx context.Context, t *team.TeamDTO) (*team.TeamDTO, error) {
	var id int64
	query := `
		INSERT INTO teams (competition_id, name, description, image_url, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.DB.GetContext(ctx, &id, query, t.CompetitionID, t.Name, t.Description, t.ImageURL, t.CreatedBy); err != nil {
		return nil, db.MapError(err, "create team")
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"team_id": id, "competition_id": t.CompetitionID}).Info("db: team created")
	}
	return r.GetByID(ctx, id)
}

func (r *TeamRepository) Update(ctx context.Context, t *team.TeamDTO) (*team.TeamDTO, error) {
	query := `UPDATE teams SET name = $2, description = $3, image_url = $4 WHERE id = $1`
	res, err := r.db.DB.ExecContext(ctx, query, t.ID, t.Name, t.Description, t.ImageURL)
	if err != nil {
		return nil, db.MapError(err, "update team")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.New(apperr.CodeNotFound, "team not found")
	}
	return r.GetByID(ctx, t.ID)
}

func (r *TeamRepository) Delete(ctx context.Context, teamID int64) error {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return db.MapError(err, "delete team")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.CodeNotFound, "team not found")
	}
	return nil
}

func (r *TeamRepository) AddMember(ctx context.Context, teamID int64, userID string) error {
	if _, err := r.db.DB.ExecContext(ctx, `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`, teamID, userID); err != nil {
		return db.MapError(err, "join team")
	}
	return nil
}

func (r *TeamRepository) RemoveMember(ctx context.Context, teamID int64, userID string) error {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return db.MapError(err, "leave team")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.CodeNotFound, "not a member of this team")
	}
	return nil
}

func (r *TeamRepository) TopTeams(ctx context.Context, competitionID int64, limit int) ([]team.TopTeamDTO, error) {
	out := []team.TopTeamDTO{}
	query := `
		SELECT team_id, name, image_url, total_steps, member_count, avg_steps_per_member, member_ids
		FROM get_top_teams($1, $2)`
	if err := r.db.DB.SelectContext(ctx, &out, query, limit, competitionID); err != nil {
		return nil, db.MapError(err, "load top teams")
	}
	return out, nil
}

var _ ports.TeamRepository = (*TeamRepository)(nil)
