package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/competition"
	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/infrastructure/db"
)

const competitionColumns = `id, name, description, start_date, end_date, is_active, invite_key_hash, created_by, created_at`

type CompetitionRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewCompetitionRepository(database *db.Database, logger *logrus.Logger) *CompetitionRepository {
	return &CompetitionRepository{db: database, logger: logger}
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.CompetitionDTO, error) {
	out := []competition.CompetitionDTO{}
	query := `SELECT ` + competitionColumns + ` FROM competitions ORDER BY start_date DESC, id DESC`
	if err := r.db.DB.SelectContext(ctx, &out, query); err != nil {
		return nil, db.MapError(err, "list competitions")
	}
	return out, nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, id int64) (*competition.CompetitionDTO, error) {
	var c competition.CompetitionDTO
	err := r.db.DB.GetContext(ctx, &c, `SELECT `+competitionColumns+` FROM competitions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.MapError(err, "get competition")
	}
	return &c, nil
}

func (r *CompetitionRepository) ListByUser(ctx context.Context, userID string) ([]competition.CompetitionDTO, error) {
	out := []competition.CompetitionDTO{}
	query := `
		SELECT c.id, c.name, c.description, c.start_date, c.end_date, c.is_active, c.invite_key_hash, c.created_by, c.created_at
		FROM competitions c
		JOIN competition_participants cp ON cp.competition_id = c.id
		WHERE cp.user_id = $1
		ORDER BY c.start_date DESC, c.id DESC`
	if err := r.db.DB.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, db.MapError(err, "list user competitions")
	}
	return out, nil
}

func (r *CompetitionRepository) Create(ctx context.Context, c *competition.CompetitionDTO) (*competition.CompetitionDTO, error) {
	var saved competition.CompetitionDTO
	query := `
		INSERT INTO competitions (name, description, start_date, end_date, is_active, invite_key_hash, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + competitionColumns
	if err := r.db.DB.GetContext(ctx, &saved, query, c.Name, c.Description, c.StartDate, c.EndDate, c.IsActive, c.InviteKeyHash, c.CreatedBy); err != nil {
		return nil, db.MapError(err, "create competition")
	}
	if r.logger != nil {
		r.logger.WithField("competition_id", saved.ID).Info("db: competition created")
	}
	return &saved, nil
}

func (r *CompetitionRepository) Update(ctx context.Context, c *competition.CompetitionDTO) (*competition.CompetitionDTO, error) {
	var saved competition.CompetitionDTO
	query := `
		UPDATE competitions
		SET name = $2, description = $3, start_date = $4, end_date = $5, is_active = $6, invite_key_hash = $7
		WHERE id = $1
		RETURNING ` + competitionColumns
	err := r.db.DB.GetContext(ctx, &saved, query, c.ID, c.Name, c.Description, c.StartDate, c.EndDate, c.IsActive, c.InviteKeyHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "competition not found")
	}
	if err != nil {
		return nil, db.MapError(err, "update competition")
	}
	return &saved, nil
}

// AddParticipant is idempotent.
func (r *CompetitionRepository) AddParticipant(ctx context.Context, competitionID int64, userID string) error {
	query := `
		INSERT INTO competition_participants (competition_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (competition_id, user_id) DO NOTHING`
	if _, err := r.db.DB.ExecContext(ctx, query, competitionID, userID); err != nil {
		return db.MapError(err, "join competition")
	}
	return nil
}

var _ ports.CompetitionRepository = (*CompetitionRepository)(nil)
