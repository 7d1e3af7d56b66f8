package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/avatarctic/step-challenge/internal/application/cache"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// DefaultTTL is used by ExecuteQuery and WrapWithCache when no positive TTL is given.
const DefaultTTL = 5 * time.Minute

// ErrCacheKeyRequired is returned by WrapWithCache when called without a key.
var ErrCacheKeyRequired = errors.New("cache key is required")

// Fetch performs one remote call. A nil pointer, slice or map with a nil error means "no data".
type Fetch[D any] func(ctx context.Context) (D, error)

// Spec describes one executor run.
type Spec[D, V any] struct {
	Fetch Fetch[D]
	// Transform maps the backend shape to the view model. Nil passes data through, which
	// requires D and V to be the same type.
	Transform func(D) (V, error)
	// CacheKey enables caching when non-empty.
	CacheKey string
	TTL      time.Duration
	// Invalidate runs after a successful fetch, before the result is returned.
	Invalidate func(ctx context.Context)
}

// Executor runs remote calls through the cache and normalizes their outcome.
type Executor struct {
	cache    ports.Cache
	logger   *logrus.Logger
	metrics  ports.CacheMetrics
	coalesce bool
	sf       singleflight.Group
}

type Option func(*Executor)

// WithCoalescing makes concurrent misses on the same key share one remote call.
func WithCoalescing(enabled bool) Option {
	return func(e *Executor) { e.coalesce = enabled }
}

func WithMetrics(m ports.CacheMetrics) Option {
	return func(e *Executor) {
		if m != nil {
			e.metrics = m
		}
	}
}

func NewExecutor(c ports.Cache, logger *logrus.Logger, opts ...Option) *Executor {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	e := &Executor{cache: c, logger: logger, metrics: ports.NoopCacheMetrics{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cache exposes the underlying cache, e.g. for invalidation rules.
func (e *Executor) Cache() ports.Cache {
	return e.cache
}

// Invalidate evicts every prefix. Failures are logged and otherwise ignored.
func (e *Executor) Invalidate(ctx context.Context, prefixes ...string) {
	if e.cache == nil {
		return
	}
	for _, p := range prefixes {
		if err := e.cache.Invalidate(ctx, p); err != nil {
			e.logger.WithFields(logrus.Fields{"prefix": p}).WithError(err).Warn("cache invalidation failed")
			continue
		}
		e.logger.WithField("prefix", p).Debug("cache invalidated")
	}
}

// ExecuteQuery checks the cache, otherwise fetches, transforms, stores and returns the data.
// It never returns an error: every failure, panics included, becomes an unsuccessful envelope.
// On a cache hit neither Fetch nor Transform is called.
func ExecuteQuery[D, V any](ctx context.Context, e *Executor, spec Spec[D, V]) (res result.Query[V]) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(logrus.Fields{"cache_key": spec.CacheKey, "panic": r}).Error("query panicked")
			res = result.Fail[V](panicMessage(r), apperr.CodeInternal)
		}
	}()

	key := spec.CacheKey
	if key != "" {
		if v, ok := cacheGet[V](ctx, e, key); ok {
			e.metrics.Hit(cache.ServiceOf(key))
			e.logger.WithField("cache_key", key).Debug("cache hit")
			res = result.OK(v)
			res.ClearCache = e.clearFunc(key)
			return res
		}
		e.metrics.Miss(cache.ServiceOf(key))
	}

	load := func() (V, error) {
		var zero V
		data, err := spec.Fetch(ctx)
		if err != nil {
			return zero, err
		}
		if isNil(data) {
			return zero, apperr.NoData()
		}
		v, err := transform(spec.Transform, data)
		if err != nil {
			return zero, err
		}
		if key != "" {
			ttl := spec.TTL
			if ttl <= 0 {
				ttl = DefaultTTL
			}
			cacheSet(ctx, e, key, v, ttl)
		}
		return v, nil
	}

	var (
		v   V
		err error
	)
	if e.coalesce && key != "" {
		var (
			val    any
			shared bool
		)
		val, err, shared = e.sf.Do(key, func() (any, error) { return load() })
		if err == nil {
			v = val.(V)
			if shared {
				v = detach(e, key, v)
			}
		}
	} else {
		v, err = load()
	}
	if err != nil {
		e.logger.WithFields(logrus.Fields{"cache_key": key}).WithError(err).Warn("query failed")
		return result.Fail[V](err.Error(), codeOf(err))
	}

	if spec.Invalidate != nil {
		spec.Invalidate(ctx)
	}

	res = result.OK(v)
	if key != "" {
		res.ClearCache = e.clearFunc(key)
	}
	return res
}

// WrapWithCache is the throwing counterpart of ExecuteQuery: it returns the bare value and
// reports failure as an error carrying the action's message. Callers must check the error.
func WrapWithCache[T any](ctx context.Context, e *Executor, key string, ttl time.Duration, action Fetch[T]) (T, error) {
	var zero T
	if key == "" {
		return zero, ErrCacheKeyRequired
	}
	if v, ok := cacheGet[T](ctx, e, key); ok {
		e.metrics.Hit(cache.ServiceOf(key))
		return v, nil
	}
	e.metrics.Miss(cache.ServiceOf(key))

	data, err := action(ctx)
	if err != nil {
		return zero, err
	}
	if isNil(data) {
		return zero, apperr.NoData()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cacheSet(ctx, e, key, data, ttl)
	return data, nil
}

// detach gives a caller that shared a coalesced load its own copy, the same one a cache hit
// would decode. Values that do not survive a JSON round trip are returned as is.
func detach[V any](e *Executor, key string, v V) V {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out V
	if err := json.Unmarshal(b, &out); err != nil {
		e.logger.WithField("cache_key", key).WithError(err).Debug("sharing coalesced value without copy")
		return v
	}
	return out
}

func (e *Executor) clearFunc(key string) func() {
	return func() {
		if e.cache == nil {
			return
		}
		if err := e.cache.Delete(context.Background(), key); err != nil {
			e.logger.WithField("cache_key", key).WithError(err).Warn("failed to clear cache entry")
		}
	}
}

func transform[D, V any](fn func(D) (V, error), data D) (V, error) {
	if fn != nil {
		return fn(data)
	}
	v, ok := any(data).(V)
	if !ok {
		var zero V
		return zero, fmt.Errorf("no transform from %T to %T", data, zero)
	}
	return v, nil
}

func cacheGet[T any](ctx context.Context, e *Executor, key string) (T, bool) {
	var v T
	if e.cache == nil {
		return v, false
	}
	b, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.WithField("cache_key", key).WithError(err).Warn("cache read failed")
		return v, false
	}
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(b, &v); err != nil {
		e.logger.WithField("cache_key", key).WithError(err).Warn("discarding undecodable cache entry")
		return v, false
	}
	return v, true
}

func cacheSet(ctx context.Context, e *Executor, key string, v any, ttl time.Duration) {
	if e.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		e.logger.WithField("cache_key", key).WithError(err).Warn("value not cacheable")
		return
	}
	if err := e.cache.Set(ctx, key, b, ttl); err != nil {
		e.logger.WithField("cache_key", key).WithError(err).Warn("cache write failed")
	}
}

// codeOf prefers an application code, then the PostgreSQL SQLSTATE.
func codeOf(err error) string {
	if code := apperr.CodeOf(err); code != "" {
		return code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code != "" {
		return string(pqErr.Code)
	}
	return apperr.CodeBackend
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func panicMessage(r any) string {
	switch x := r.(type) {
	case error:
		return x.Error()
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
