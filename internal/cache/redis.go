// Package cache provides the Redis client and a read-through user cache
// that decorates store.UserRepository.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Client is the subset of redis commands the cache needs.
// *redis.Client satisfies it.
type Client interface {
	redis.Scripter
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// NewRedisClient parses cfg.RedisURL, connects and pings the server.
func NewRedisClient(ctx context.Context, cfg config.Cache, log *logger.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRedisURL, err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err = client.Ping(pingCtx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisClient").Str("addr", opts.Addr).Msg("error connecting redis (ping)")
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}

	log.Info().Str("func", "NewRedisClient").Str("addr", opts.Addr).Msg("connected to redis successfully")
	return client, nil
}
