package services_test

import (
	"time"

	"github.com/avatarctic/step-challenge/internal/application/cache"
	"github.com/avatarctic/step-challenge/internal/application/query"
	"github.com/avatarctic/step-challenge/internal/mocks"
)

// fixture wires an executor over a real memory store so tests observe cache state directly.
type fixture struct {
	now   time.Time
	store *cache.Store
	cache *mocks.RecordingCache
	exec  *query.Executor
}

func newFixture() *fixture {
	f := &fixture{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	f.store = cache.NewStore(cache.WithClock(func() time.Time { return f.now }))
	f.cache = mocks.NewRecordingCache(f.store)
	f.exec = query.NewExecutor(f.cache, nil)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func int64Ptr(v int64) *int64 { return &v }
