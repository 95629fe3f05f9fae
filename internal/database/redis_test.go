package database

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClientMemoryMode(t *testing.T) {
	cfg := &config.Config{RedisMode: RedisModeMemory}

	rdb, closeFn, err := NewRedisClient(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closeFn()

	ctx := context.Background()
	require.NoError(t, rdb.Set(ctx, "k", "v", 0).Err())
	got, err := rdb.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClientBadURL(t *testing.T) {
	cfg := &config.Config{RedisURL: "://nope"}

	_, _, err := NewRedisClient(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
