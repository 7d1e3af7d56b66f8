package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/step"
	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/infrastructure/db"
)

const stepColumns = `id, user_id, competition_id, date, steps, created_at`

// StepRepository implements ports.StepRepository on PostgreSQL.
type StepRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewStepRepository(database *db.Database, logger *logrus.Logger) *StepRepository {
	return &StepRepository{db: database, logger: logger}
}

func (r *StepRepository) ListByUser(ctx context.Context, competitionID int64, userID string) ([]step.StepsRecordDTO, error) {
	out := []step.StepsRecordDTO{}
	query := `SELECT ` + stepColumns + ` FROM steps WHERE competition_id = $1 AND user_id = $2 ORDER BY date DESC`
	if err := r.db.DB.SelectContext(ctx, &out, query, competitionID, userID); err != nil {
		return nil, db.MapError(err, "list steps")
	}
	return out, nil
}

func (r *StepRepository) GetOnDate(ctx context.Context, competitionID int64, userID string, date time.Time) (*step.StepsRecordDTO, error) {
	var rec step.StepsRecordDTO
	query := `SELECT ` + stepColumns + ` FROM steps WHERE competition_id = $1 AND user_id = $2 AND date = $3`
	err := r.db.DB.GetContext(ctx, &rec, query, competitionID, userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, db.MapError(err, "get steps on date")
	}
	return &rec, nil
}

// Upsert keeps one record per user, competition and day.
func (r *StepRepository) Upsert(ctx context.Context, rec *step.StepsRecordDTO) (*step.StepsRecordDTO, error) {
	var saved step.StepsRecordDTO
	query := `
		INSERT INTO steps (user_id, competition_id, date, steps)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, competition_id, date) DO UPDATE SET steps = EXCLUDED.steps
		RETURNING ` + stepColumns
	if err := r.db.DB.GetContext(ctx, &saved, query, rec.UserID, rec.CompetitionID, rec.Date, rec.Steps); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": rec.UserID, "competition_id": rec.CompetitionID}).WithError(err).Error("db: failed to upsert steps")
		}
		return nil, db.MapError(err, "record steps")
	}
	return &saved, nil
}

// Delete removes a record owned by userID.
func (r *StepRepository) Delete(ctx context.Context, recordID int64, userID string) error {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM steps WHERE id = $1 AND user_id = $2`, recordID, userID)
	if err != nil {
		return db.MapError(err, "delete steps")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.CodeNotFound, "step record not found")
	}
	return nil
}

func (r *StepRepository) SumForUser(ctx context.Context, competitionID int64, userID string) (*int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(steps), 0) FROM steps WHERE competition_id = $1 AND user_id = $2`
	if err := r.db.DB.GetContext(ctx, &total, query, competitionID, userID); err != nil {
		return nil, db.MapError(err, "sum steps")
	}
	return &total, nil
}

func (r *StepRepository) SumForUsers(ctx context.Context, competitionID int64, userIDs []string) (*int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(steps), 0) FROM steps WHERE competition_id = $1 AND user_id = ANY($2)`
	if err := r.db.DB.GetContext(ctx, &total, query, competitionID, pq.Array(userIDs)); err != nil {
		return nil, db.MapError(err, "sum steps for users")
	}
	return &total, nil
}

func (r *StepRepository) TopUsers(ctx context.Context, competitionID int64, limit int) ([]step.TopUserDTO, error) {
	out := []step.TopUserDTO{}
	query := `SELECT user_id, display_name, image_url, total_steps FROM get_top_users_by_steps($1, $2)`
	if err := r.db.DB.SelectContext(ctx, &out, query, limit, competitionID); err != nil {
		return nil, db.MapError(err, "load top users")
	}
	return out, nil
}

var _ ports.StepRepository = (*StepRepository)(nil)
