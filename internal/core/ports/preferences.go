package ports

import "context"

// PreferenceStore persists per-user client selection state. It survives restarts.
type PreferenceStore interface {
	// Get returns "" with ok=false when the field is unset.
	Get(ctx context.Context, userID, field string) (value string, ok bool, err error)
	Set(ctx context.Context, userID, field, value string) error
	Delete(ctx context.Context, userID, field string) error
}

// PreferenceService resolves and persists the selected competition and the invite key.
type PreferenceService interface {
	// SelectedCompetition returns 0 when nothing is selected.
	SelectedCompetition(ctx context.Context, userID string) (int64, error)
	SelectCompetition(ctx context.Context, userID string, competitionID int64) error
	InviteKey(ctx context.Context, userID string) (string, error)
	SetInviteKey(ctx context.Context, userID, key string) error
}
