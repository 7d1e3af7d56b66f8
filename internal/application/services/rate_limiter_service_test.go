package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avatarctic/step-challenge/internal/application/services"
	"github.com/avatarctic/step-challenge/internal/mocks"
)

func TestRateLimiter_AllowsBurstThenBlocks(t *testing.T) {
	svc := services.NewRateLimiterService(&mocks.RateLimitRepositoryMock{}, &services.RateLimiterConfig{
		DefaultRequestsPerMinute: 2,
		BurstMultiplier:          1.5,
		Window:                   time.Minute,
	}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, limit, _, err := svc.Allow(ctx, "u1")
		assert.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 2, limit)
	}
	allowed, remaining, _, _, err := svc.Allow(ctx, "u1")
	assert.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)

	allowed, _, _, _, _ = svc.Allow(ctx, "u2")
	assert.True(t, allowed, "limits are per subject")
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{IncrementWindowFn: func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
		return 0, time.Time{}, errors.New("redis down")
	}}
	svc := services.NewRateLimiterService(repo, nil, nil)

	allowed, _, _, _, err := svc.Allow(context.Background(), "u1")
	assert.Error(t, err)
	assert.True(t, allowed)
}
