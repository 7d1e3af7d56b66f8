package repositories

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"

	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// PreferenceRedisRepository keeps per-user preferences in a Redis hash at prefs:<userID>.
type PreferenceRedisRepository struct {
	r redis.Cmdable
}

func NewPreferenceRedisRepository(r redis.Cmdable) *PreferenceRedisRepository {
	return &PreferenceRedisRepository{r: r}
}

func prefsKey(userID string) string { return "prefs:" + userID }

func (repo *PreferenceRedisRepository) Get(ctx context.Context, userID, field string) (string, bool, error) {
	v, err := repo.r.HGet(ctx, prefsKey(userID), field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (repo *PreferenceRedisRepository) Set(ctx context.Context, userID, field, value string) error {
	return repo.r.HSet(ctx, prefsKey(userID), field, value).Err()
}

func (repo *PreferenceRedisRepository) Delete(ctx context.Context, userID, field string) error {
	return repo.r.HDel(ctx, prefsKey(userID), field).Err()
}

var _ ports.PreferenceStore = (*PreferenceRedisRepository)(nil)
