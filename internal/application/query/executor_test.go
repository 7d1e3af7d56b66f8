package query

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/step-challenge/internal/application/cache"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
)

type rowDTO struct {
	ID    int64    `json:"id"`
	Names []string `json:"names"`
}

type rowView struct {
	ID    int64 `json:"id"`
	Count int   `json:"count"`
}

func toView(d *rowDTO) (rowView, error) {
	return rowView{ID: d.ID, Count: len(d.Names)}, nil
}

func newExecutor() (*Executor, *cache.Store) {
	store := cache.NewStore()
	return NewExecutor(store, nil), store
}

func TestExecuteQuery_MissThenHit(t *testing.T) {
	ctx := context.Background()
	ex, store := newExecutor()

	calls := 0
	spec := Spec[*rowDTO, rowView]{
		Fetch: func(ctx context.Context) (*rowDTO, error) {
			calls++
			return &rowDTO{ID: 7, Names: []string{"a", "b"}}, nil
		},
		Transform: toView,
		CacheKey:  "team_service_get-team-by-id-7-1",
		TTL:       5 * time.Minute,
	}

	first := ExecuteQuery(ctx, ex, spec)
	require.True(t, first.Success)
	assert.Equal(t, rowView{ID: 7, Count: 2}, first.Data)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, store.Len())

	transformCalls := 0
	spec.Transform = func(d *rowDTO) (rowView, error) {
		transformCalls++
		return toView(d)
	}
	second := ExecuteQuery(ctx, ex, spec)
	require.True(t, second.Success)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, 1, calls)
	assert.Zero(t, transformCalls)
}

func TestExecuteQuery_DefaultTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := cache.NewStore(cache.WithClock(func() time.Time { return now }))
	ex := NewExecutor(store, nil)

	res := ExecuteQuery(ctx, ex, Spec[int, int]{
		Fetch:    func(ctx context.Context) (int, error) { return 1, nil },
		CacheKey: "k",
	})
	require.True(t, res.Success)
	ent, ok := store.Entry("k")
	require.True(t, ok)
	assert.Equal(t, now.Add(DefaultTTL), ent.ExpiresAt)
}

func TestExecuteQuery_ErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	ex, store := newExecutor()

	res := ExecuteQuery(ctx, ex, Spec[*rowDTO, rowView]{
		Fetch:     func(ctx context.Context) (*rowDTO, error) { return nil, errors.New("X") },
		Transform: toView,
		CacheKey:  "k",
	})
	assert.False(t, res.Success)
	assert.Equal(t, "X", res.Error)
	assert.Equal(t, apperr.CodeBackend, res.Code)
	assert.Equal(t, 0, store.Len())
}

func TestExecuteQuery_CodedErrorKeepsCode(t *testing.T) {
	ex, _ := newExecutor()
	res := ExecuteQuery(context.Background(), ex, Spec[int, int]{
		Fetch: func(ctx context.Context) (int, error) {
			return 0, apperr.New(apperr.CodeConflict, "already a member")
		},
	})
	assert.False(t, res.Success)
	assert.Equal(t, apperr.CodeConflict, res.Code)
	assert.Equal(t, "already a member", res.Error)
}

func TestExecuteQuery_PostgresErrorReportsSQLState(t *testing.T) {
	ex, _ := newExecutor()
	res := ExecuteQuery(context.Background(), ex, Spec[[]int, []int]{
		Fetch: func(ctx context.Context) ([]int, error) {
			return nil, fmt.Errorf("failed to list steps: %w", &pq.Error{Code: "40001", Message: "could not serialize access"})
		},
		CacheKey: "step_service_get-user-steps-u1-1",
	})
	assert.False(t, res.Success)
	assert.Equal(t, "40001", res.Code)
	assert.Contains(t, res.Error, "failed to list steps")
}

func TestExecuteQuery_NoData(t *testing.T) {
	ctx := context.Background()
	ex, store := newExecutor()

	ptr := ExecuteQuery(ctx, ex, Spec[*rowDTO, rowView]{
		Fetch:     func(ctx context.Context) (*rowDTO, error) { return nil, nil },
		Transform: toView,
		CacheKey:  "k",
	})
	assert.False(t, ptr.Success)
	assert.Equal(t, "No data returned from API", ptr.Error)
	assert.Equal(t, apperr.CodeNoData, ptr.Code)

	slice := ExecuteQuery(ctx, ex, Spec[[]rowDTO, []rowDTO]{
		Fetch: func(ctx context.Context) ([]rowDTO, error) { return nil, nil },
	})
	assert.False(t, slice.Success)
	assert.Equal(t, "No data returned from API", slice.Error)
	assert.Equal(t, 0, store.Len())
}

func TestExecuteQuery_EmptySliceIsData(t *testing.T) {
	ex, _ := newExecutor()
	res := ExecuteQuery(context.Background(), ex, Spec[[]rowDTO, []rowDTO]{
		Fetch: func(ctx context.Context) ([]rowDTO, error) { return []rowDTO{}, nil },
	})
	require.True(t, res.Success)
	assert.Empty(t, res.Data)
}

func TestExecuteQuery_PanicsBecomeFailures(t *testing.T) {
	ctx := context.Background()
	ex, store := newExecutor()

	fromFetch := ExecuteQuery(ctx, ex, Spec[int, int]{
		Fetch:    func(ctx context.Context) (int, error) { panic("fetch blew up") },
		CacheKey: "k1",
	})
	assert.False(t, fromFetch.Success)
	assert.Equal(t, "fetch blew up", fromFetch.Error)

	fromTransform := ExecuteQuery(ctx, ex, Spec[int, string]{
		Fetch: func(ctx context.Context) (int, error) { return 1, nil },
		Transform: func(int) (string, error) {
			panic(errors.New("transform blew up"))
		},
		CacheKey: "k2",
	})
	assert.False(t, fromTransform.Success)
	assert.Equal(t, "transform blew up", fromTransform.Error)
	assert.Equal(t, 0, store.Len())
}

func TestExecuteQuery_TransformError(t *testing.T) {
	ex, store := newExecutor()
	res := ExecuteQuery(context.Background(), ex, Spec[int, string]{
		Fetch:     func(ctx context.Context) (int, error) { return 1, nil },
		Transform: func(int) (string, error) { return "", errors.New("bad row") },
		CacheKey:  "k",
	})
	assert.False(t, res.Success)
	assert.Equal(t, "bad row", res.Error)
	assert.Equal(t, 0, store.Len())
}

func TestExecuteQuery_MissingTransform(t *testing.T) {
	ex, _ := newExecutor()
	res := ExecuteQuery(context.Background(), ex, Spec[int, string]{
		Fetch: func(ctx context.Context) (int, error) { return 1, nil },
	})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "no transform")
}

func TestExecuteQuery_InvalidateRunsOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	ex, _ := newExecutor()

	invalidated := 0
	onSuccess := func(ctx context.Context) { invalidated++ }

	ok := ExecuteQuery(ctx, ex, Spec[int, int]{
		Fetch:      func(ctx context.Context) (int, error) { return 1, nil },
		Invalidate: onSuccess,
	})
	require.True(t, ok.Success)
	assert.Equal(t, 1, invalidated)
	assert.Nil(t, ok.ClearCache)

	failed := ExecuteQuery(ctx, ex, Spec[int, int]{
		Fetch:      func(ctx context.Context) (int, error) { return 0, errors.New("down") },
		Invalidate: onSuccess,
	})
	require.False(t, failed.Success)
	assert.Equal(t, 1, invalidated)
}

func TestExecuteQuery_ClearCache(t *testing.T) {
	ctx := context.Background()
	ex, store := newExecutor()

	calls := 0
	spec := Spec[int, int]{
		Fetch: func(ctx context.Context) (int, error) {
			calls++
			return calls, nil
		},
		CacheKey: "k",
	}
	res := ExecuteQuery(ctx, ex, spec)
	require.NotNil(t, res.ClearCache)
	res.ClearCache()
	assert.Equal(t, 0, store.Len())

	again := ExecuteQuery(ctx, ex, spec)
	assert.Equal(t, 2, again.Data)
	assert.Equal(t, 2, calls)
}

func TestExecuteQuery_NoCacheKeyAlwaysFetches(t *testing.T) {
	ex, store := newExecutor()
	var calls int
	spec := Spec[int, int]{Fetch: func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}}
	ExecuteQuery(context.Background(), ex, spec)
	ExecuteQuery(context.Background(), ex, spec)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, store.Len())
}

func TestExecuteQuery_CoalescedMisses(t *testing.T) {
	ex := NewExecutor(cache.NewStore(), nil, WithCoalescing(true))

	var calls atomic.Int32
	release := make(chan struct{})
	spec := Spec[int, string]{
		Fetch: func(ctx context.Context) (int, error) {
			calls.Add(1)
			<-release
			return 42, nil
		},
		Transform: func(n int) (string, error) { return strconv.Itoa(n), nil },
		CacheKey:  "step_service_get-top-users-10-1",
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ExecuteQuery(context.Background(), ex, spec).Data
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "42", r)
	}
}

func TestExecuteQuery_CoalescedCallersGetOwnCopies(t *testing.T) {
	ex := NewExecutor(cache.NewStore(), nil, WithCoalescing(true))

	release := make(chan struct{})
	spec := Spec[[]string, []string]{
		Fetch: func(ctx context.Context) ([]string, error) {
			<-release
			return []string{"u1", "u2"}, nil
		},
		CacheKey: "user_service_get-users-by-ids-u1,u2",
	}

	var wg sync.WaitGroup
	results := make([][]string, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ExecuteQuery(context.Background(), ex, spec).Data
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	results[0][0] = "changed"
	for _, r := range results[1:] {
		assert.Equal(t, []string{"u1", "u2"}, r)
	}
}

func TestWrapWithCache(t *testing.T) {
	ctx := context.Background()
	ex, _ := newExecutor()

	calls := 0
	action := func(ctx context.Context) (int64, error) { calls++; return 1234, nil }

	v, err := WrapWithCache(ctx, ex, "step_service_get-total-steps-1-a,b", 10*time.Minute, action)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), v)

	v, err = WrapWithCache(ctx, ex, "step_service_get-total-steps-1-a,b", 10*time.Minute, action)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), v)
	assert.Equal(t, 1, calls)
}

func TestWrapWithCache_DefaultTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := cache.NewStore(cache.WithClock(func() time.Time { return now }))
	ex := NewExecutor(store, nil)

	_, err := WrapWithCache(context.Background(), ex, "k", 0, func(ctx context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	ent, ok := store.Entry("k")
	require.True(t, ok)
	assert.Equal(t, now.Add(DefaultTTL), ent.ExpiresAt)
}

func TestWrapWithCache_ErrorMessageVerbatim(t *testing.T) {
	ex, store := newExecutor()
	_, err := WrapWithCache(context.Background(), ex, "k", time.Minute, func(ctx context.Context) (int, error) {
		return 0, errors.New("relation \"steps\" does not exist")
	})
	require.Error(t, err)
	assert.Equal(t, "relation \"steps\" does not exist", err.Error())
	assert.Equal(t, 0, store.Len())
}

func TestWrapWithCache_NilData(t *testing.T) {
	ex, _ := newExecutor()
	_, err := WrapWithCache(context.Background(), ex, "k", time.Minute, func(ctx context.Context) (*int64, error) {
		return nil, nil
	})
	require.Error(t, err)
	assert.Equal(t, "No data returned from API", err.Error())
}

func TestWrapWithCache_RequiresKey(t *testing.T) {
	ex, _ := newExecutor()
	_, err := WrapWithCache(context.Background(), ex, "", time.Minute, func(ctx context.Context) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrCacheKeyRequired)
}

func TestExecutor_InvalidateWithoutCache(t *testing.T) {
	ex := NewExecutor(nil, nil)
	ex.Invalidate(context.Background(), "team_service_")

	res := ExecuteQuery(context.Background(), ex, Spec[int, int]{
		Fetch:    func(ctx context.Context) (int, error) { return 3, nil },
		CacheKey: "k",
	})
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Data)
}
