package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-redis/redis/v8"

	config "github.com/avatarctic/step-challenge/configs"
)

// defaultPingTimeout bounds the startup ping when no dial timeout is configured.
const defaultPingTimeout = 5 * time.Second

// ClientOptions maps RedisConfig onto go-redis options. Zero pool and timeout values keep the
// go-redis defaults.
func ClientOptions(cfg *config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// NewRedisClient connects to the Redis instance that backs preferences, rate-limit windows and,
// with CACHE_BACKEND=redis, the query cache. The client is only returned once it answers a ping.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	opts := ClientOptions(cfg)
	client := redis.NewClient(opts)

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}
