package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// Preference fields.
const (
	PrefSelectedCompetition = "selectedCompetition"
	PrefInviteKey           = "inviteKey"
)

// PreferenceService keeps the per-user selection state the UI reads on every request.
type PreferenceService struct {
	store  ports.PreferenceStore
	logger *logrus.Logger
}

func NewPreferenceService(store ports.PreferenceStore, logger *logrus.Logger) *PreferenceService {
	return &PreferenceService{store: store, logger: loggerOrDiscard(logger)}
}

// SelectedCompetition returns 0 when nothing usable is stored.
func (s *PreferenceService) SelectedCompetition(ctx context.Context, userID string) (int64, error) {
	raw, ok, err := s.store.Get(ctx, userID, PrefSelectedCompetition)
	if err != nil {
		return 0, fmt.Errorf("failed to read selected competition: %w", err)
	}
	if !ok {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "value": raw}).Warn("ignoring malformed selected competition")
		return 0, nil
	}
	return id, nil
}

// SelectCompetition stores the selection; 0 clears it.
func (s *PreferenceService) SelectCompetition(ctx context.Context, userID string, competitionID int64) error {
	if competitionID <= 0 {
		return s.store.Delete(ctx, userID, PrefSelectedCompetition)
	}
	return s.store.Set(ctx, userID, PrefSelectedCompetition, strconv.FormatInt(competitionID, 10))
}

func (s *PreferenceService) InviteKey(ctx context.Context, userID string) (string, error) {
	v, _, err := s.store.Get(ctx, userID, PrefInviteKey)
	if err != nil {
		return "", fmt.Errorf("failed to read invite key: %w", err)
	}
	return v, nil
}

// SetInviteKey stores the key; an empty key clears it.
func (s *PreferenceService) SetInviteKey(ctx context.Context, userID, key string) error {
	if key == "" {
		return s.store.Delete(ctx, userID, PrefInviteKey)
	}
	return s.store.Set(ctx, userID, PrefInviteKey, key)
}

var _ ports.PreferenceService = (*PreferenceService)(nil)
