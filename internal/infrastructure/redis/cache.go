package redis

import (
	"context"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/avatarctic/step-challenge/internal/application/cache"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// scanBatch is the COUNT hint passed to SCAN during invalidation.
const scanBatch = 200

// RedisCache implements ports.Cache using a Redis client.
// Expiry is delegated to Redis key TTLs, so expiries are never observed here and only
// invalidations are reported to metrics.
type RedisCache struct {
	r redis.Cmdable
	// optional key prefix to namespace entries
	prefix     string
	defaultTTL time.Duration
	metrics    ports.CacheMetrics
}

type Option func(*RedisCache)

// WithMetrics reports invalidations.
func WithMetrics(m ports.CacheMetrics) Option {
	return func(c *RedisCache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithDefaultTTL overrides cache.DefaultTTL for Set calls without a positive TTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// NewRedisCache creates a new Redis-backed cache.
func NewRedisCache(r redis.Cmdable, prefix string, opts ...Option) *RedisCache {
	c := &RedisCache{r: r, prefix: prefix, defaultTTL: cache.DefaultTTL, metrics: ports.NoopCacheMetrics{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) namespaced(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// Get implements Cache.Get.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ns := c.namespaced(key)
	val, err := c.r.Get(ctx, ns).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements Cache.Set. A non-positive ttl means the default, never "no expiry".
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	ns := c.namespaced(key)
	return c.r.Set(ctx, ns, value, ttl).Err()
}

// Delete implements Cache.Delete.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	ns := c.namespaced(key)
	return c.r.Del(ctx, ns).Err()
}

// Invalidate implements Cache.Invalidate by scanning for keys under the prefix.
// Keys written while the scan runs may survive it.
func (c *RedisCache) Invalidate(ctx context.Context, prefix string) error {
	pattern := MatchPattern(c.namespaced(prefix))
	var cursor uint64
	for {
		keys, next, err := c.r.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.r.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			c.metrics.Invalidate(cache.ServiceOf(prefix))
			return nil
		}
		cursor = next
	}
}

// MatchPattern turns a literal key prefix into a SCAN MATCH pattern.
func MatchPattern(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('*')
	return b.String()
}

var _ ports.Cache = (*RedisCache)(nil)
