package mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/avatarctic/step-challenge/internal/core/domain/auth"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// RecordingCache wraps a cache and records every invalidated prefix.
type RecordingCache struct {
	ports.Cache

	mu          sync.Mutex
	invalidated []string
}

func NewRecordingCache(inner ports.Cache) *RecordingCache {
	return &RecordingCache{Cache: inner}
}

func (c *RecordingCache) Invalidate(ctx context.Context, prefix string) error {
	c.mu.Lock()
	c.invalidated = append(c.invalidated, prefix)
	c.mu.Unlock()
	return c.Cache.Invalidate(ctx, prefix)
}

// Invalidated returns the prefixes seen so far, in call order.
func (c *RecordingCache) Invalidated() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

func (c *RecordingCache) Reset() {
	c.mu.Lock()
	c.invalidated = nil
	c.mu.Unlock()
}

// FileStorageMock keeps uploads in memory.
type FileStorageMock struct {
	UploadFn func(ctx context.Context, bucket, path string, body io.Reader) error

	mu      sync.Mutex
	Objects map[string][]byte
}

func (m *FileStorageMock) Upload(ctx context.Context, bucket, path string, body io.Reader) error {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, bucket, path, body)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Objects == nil {
		m.Objects = map[string][]byte{}
	}
	m.Objects[bucket+"/"+path] = buf.Bytes()
	return nil
}

func (m *FileStorageMock) PublicURL(bucket, path string) string {
	return fmt.Sprintf("http://storage.test/%s/%s", bucket, path)
}

// PreferenceStoreMock is an in-memory PreferenceStore.
type PreferenceStoreMock struct {
	GetFn func(ctx context.Context, userID, field string) (string, bool, error)

	mu     sync.Mutex
	values map[string]string
}

func (m *PreferenceStoreMock) Get(ctx context.Context, userID, field string) (string, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, field)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[userID+"/"+field]
	return v, ok, nil
}

func (m *PreferenceStoreMock) Set(ctx context.Context, userID, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[userID+"/"+field] = value
	return nil
}

func (m *PreferenceStoreMock) Delete(ctx context.Context, userID, field string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, userID+"/"+field)
	return nil
}

// EmailServiceMock records sent contact messages.
type EmailServiceMock struct {
	SendContactMessageFn func(ctx context.Context, to string, msg *ports.ContactMessage) error
	Sent                 []*ports.ContactMessage
}

func (m *EmailServiceMock) SendContactMessage(ctx context.Context, to string, msg *ports.ContactMessage) error {
	if m.SendContactMessageFn != nil {
		return m.SendContactMessageFn(ctx, to, msg)
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// AuthServiceMock is a lightweight mock for AuthService
type AuthServiceMock struct {
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return nil, fmt.Errorf("invalid token")
}

// RateLimitRepositoryMock counts requests per subject in memory.
type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)

	mu     sync.Mutex
	counts map[string]int
}

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, subject, window, keyPrefix, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[subject]++
	return m.counts[subject], time.Now().Truncate(window), nil
}

var (
	_ ports.Cache               = (*RecordingCache)(nil)
	_ ports.FileStorage         = (*FileStorageMock)(nil)
	_ ports.PreferenceStore     = (*PreferenceStoreMock)(nil)
	_ ports.EmailService        = (*EmailServiceMock)(nil)
	_ ports.AuthService         = (*AuthServiceMock)(nil)
	_ ports.RateLimitRepository = (*RateLimitRepositoryMock)(nil)
)
