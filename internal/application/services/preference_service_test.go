package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/step-challenge/internal/application/services"
	"github.com/avatarctic/step-challenge/internal/mocks"
)

func TestPreferenceService_SelectedCompetition(t *testing.T) {
	store := &mocks.PreferenceStoreMock{}
	svc := services.NewPreferenceService(store, nil)
	ctx := context.Background()

	id, err := svc.SelectedCompetition(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, id)

	require.NoError(t, svc.SelectCompetition(ctx, "u1", 12))
	id, err = svc.SelectedCompetition(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	raw, ok, _ := store.Get(ctx, "u1", services.PrefSelectedCompetition)
	assert.True(t, ok)
	assert.Equal(t, "12", raw)

	require.NoError(t, svc.SelectCompetition(ctx, "u1", 0))
	id, _ = svc.SelectedCompetition(ctx, "u1")
	assert.Zero(t, id)
}

func TestPreferenceService_MalformedSelectionIsIgnored(t *testing.T) {
	store := &mocks.PreferenceStoreMock{}
	svc := services.NewPreferenceService(store, nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "u1", services.PrefSelectedCompetition, "abc"))
	id, err := svc.SelectedCompetition(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestPreferenceService_InviteKey(t *testing.T) {
	svc := services.NewPreferenceService(&mocks.PreferenceStoreMock{}, nil)
	ctx := context.Background()

	require.NoError(t, svc.SetInviteKey(ctx, "u1", "spring-2026"))
	key, err := svc.InviteKey(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "spring-2026", key)

	require.NoError(t, svc.SetInviteKey(ctx, "u1", ""))
	key, _ = svc.InviteKey(ctx, "u1")
	assert.Empty(t, key)
}
