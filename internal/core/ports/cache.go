package ports

import (
	"context"
	"time"
)

// Cache defines the key-value contract used by the query executor.
// Values are opaque bytes; implementations treat an expired entry as absent.
type Cache interface {
	// Get returns the raw bytes for key. ok=false if not found or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL, overwriting any existing entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
	// Invalidate removes every key starting with prefix. Calling it twice is the same as once.
	Invalidate(ctx context.Context, prefix string) error
}

// CacheMetrics receives cache lifecycle events. Service is the key's service prefix.
type CacheMetrics interface {
	Hit(service string)
	Miss(service string)
	Expire(service string)
	Invalidate(service string)
}

// NoopCacheMetrics ignores every event.
type NoopCacheMetrics struct{}

func (NoopCacheMetrics) Hit(string)        {}
func (NoopCacheMetrics) Miss(string)       {}
func (NoopCacheMetrics) Expire(string)     {}
func (NoopCacheMetrics) Invalidate(string) {}
