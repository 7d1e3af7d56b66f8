package health

import (
	"context"
	"os"

	"github.com/go-redis/redis/v8"

	"github.com/avatarctic/step-challenge/internal/core/ports"
	infraDB "github.com/avatarctic/step-challenge/internal/infrastructure/db"
)

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return "database" }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.Ping(ctx) }

// redisHealthChecker wraps the redis client for health checks.
type redisHealthChecker struct{ client *redis.Client }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// storageHealthChecker verifies the storage root is still a writable directory.
type storageHealthChecker struct{ root string }

func (s *storageHealthChecker) Name() string { return "storage" }
func (s *storageHealthChecker) Check(ctx context.Context) error {
	f, err := os.CreateTemp(s.root, ".health-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// NewStorageHealthChecker creates a health checker for local file storage.
func NewStorageHealthChecker(root string) ports.HealthChecker { return &storageHealthChecker{root: root} }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client *redis.Client) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}
