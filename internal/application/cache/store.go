package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// DefaultTTL applies when Set is called with a non-positive TTL.
const DefaultTTL = 30 * time.Minute

// Entry is one cached value. The entry is logically absent once now is after ExpiresAt.
type Entry struct {
	Data      []byte
	Timestamp time.Time
	ExpiresAt time.Time
}

func (e *Entry) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store is an in-process TTL cache keyed by string.
//
// Expired entries are removed lazily when read; there is no background sweep and no size bound,
// so entries that are never read again stay in memory until an invalidation covers them.
type Store struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	defaultTTL time.Duration
	now        func() time.Time
	metrics    ports.CacheMetrics
}

type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDefaultTTL overrides DefaultTTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// WithMetrics reports expiries and invalidations.
func WithMetrics(m ports.CacheMetrics) Option {
	return func(s *Store) {
		if m != nil {
			s.metrics = m
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		entries:    make(map[string]*Entry),
		defaultTTL: DefaultTTL,
		now:        time.Now,
		metrics:    ports.NoopCacheMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the stored bytes if present and unexpired. An expired entry is deleted.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if ent.expired(s.now()) {
		delete(s.entries, key)
		s.metrics.Expire(ServiceOf(key))
		return nil, false, nil
	}
	return ent.Data, true, nil
}

// Set overwrites any existing entry for key.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &Entry{Data: value, Timestamp: now, ExpiresAt: now.Add(ttl)}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Invalidate deletes every key starting with prefix.
func (s *Store) Invalidate(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.metrics.Invalidate(ServiceOf(prefix))
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entry returns a copy of the raw entry for key without checking expiry.
func (s *Store) Entry(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *ent, true
}

// ServiceOf extracts the service label from a key such as "team_service_get-teams-1".
func ServiceOf(key string) string {
	if i := strings.Index(key, "_service"); i > 0 {
		return key[:i+len("_service")]
	}
	return "other"
}

var _ ports.Cache = (*Store)(nil)
