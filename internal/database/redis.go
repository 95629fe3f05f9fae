package database

import (
	"context"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/config"
)

// RedisModeMemory runs an embedded miniredis instead of dialing REDIS_URL.
const RedisModeMemory = "memory"

// NewRedisClient creates and validates a Redis client. In memory mode it
// starts an embedded server; the returned closer stops both.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, func(), error) {
	if cfg.RedisMode == RedisModeMemory {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start embedded redis: %w", err)
		}
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

		log.Warn().
			Str("addr", mr.Addr()).
			Msg("Redis running in memory mode, sessions do not survive restarts")

		return rdb, func() {
			_ = rdb.Close()
			mr.Close()
		}, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("Redis connected")

	return rdb, func() { _ = rdb.Close() }, nil
}
