package persistence

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk/internal/config"
)

// Redis wraps the go-redis client backing chat threads.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis when enabled. A disabled Redis yields a wrapper
// with a nil client and chat threads stay in memory.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	if !cfg.Enabled {
		logger.Info("redis disabled; chat threads kept in memory")
		return &Redis{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	return &Redis{Client: client}, nil
}

// Enabled reports whether a client is configured.
func (r *Redis) Enabled() bool {
	return r != nil && r.Client != nil
}

// Close closes the client.
func (r *Redis) Close() {
	if r.Enabled() {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity; a disabled Redis is healthy.
func (r *Redis) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}
	return r.Client.Ping(ctx).Err()
}
