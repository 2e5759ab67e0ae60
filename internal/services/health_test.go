package services_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/localnerve/mindsync/internal/config"
	"github.com/localnerve/mindsync/internal/services"
	"github.com/localnerve/mindsync/internal/sessionstore"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downStore struct {
	storage.Storage
}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthCheckHealthy(t *testing.T) {
	cfg := &config.Config{DBType: "memory", SessionStore: "memory"}

	result := services.HealthCheck(context.Background(), cfg, storage.NewMemory(), nil)
	assert.True(t, result.Healthy())
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "memory", result.Sessions)
	assert.Equal(t, "memory", result.Details["database_type"])
	assert.Empty(t, result.ErrorMessage)
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	cfg := &config.Config{DBType: "postgres", DBDatabase: "mindsync", SessionStore: "database"}

	result := services.HealthCheck(context.Background(), cfg, downStore{storage.NewMemory()}, nil)
	assert.False(t, result.Healthy())
	assert.Equal(t, "unreachable", result.Database)
	assert.Contains(t, result.ErrorMessage, "Database ping failed")
}

// pingFunc adapts a function to services.Pinger
type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheckRedisDown(t *testing.T) {
	// reserve a port, then free it so nothing is listening
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client := redis.NewClient(&redis.Options{Addr: addr, DialTimeout: 500 * time.Millisecond, MaxRetries: -1})
	sessions := sessionstore.NewRedisStorageFromClient(client)
	defer sessions.Close()

	cfg := &config.Config{DBType: "memory", SessionStore: "redis", RedisAddr: addr}

	result := services.HealthCheck(context.Background(), cfg, storage.NewMemory(), sessions)
	assert.False(t, result.Healthy())
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "unreachable", result.Sessions)
	assert.Contains(t, result.ErrorMessage, "Redis ping failed")
	assert.NotEmpty(t, result.Details["redis_error"])
}

func TestHealthCheckRedisUp(t *testing.T) {
	pinged := false
	sessions := pingFunc(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline, "the ping is bounded")
		pinged = true
		return nil
	})
	cfg := &config.Config{DBType: "memory", SessionStore: "redis", RedisAddr: "127.0.0.1:6379"}

	result := services.HealthCheck(context.Background(), cfg, storage.NewMemory(), sessions)
	assert.True(t, pinged)
	assert.True(t, result.Healthy())
	assert.Equal(t, "redis", result.Sessions)
}

func TestHealthCheckRedisWithoutClient(t *testing.T) {
	cfg := &config.Config{DBType: "memory", SessionStore: "redis", RedisAddr: "127.0.0.1:6379"}

	result := services.HealthCheck(context.Background(), cfg, storage.NewMemory(), nil)
	assert.False(t, result.Healthy())
	assert.Equal(t, "unreachable", result.Sessions)
}

func TestHealthCheckIgnoresPingerForOtherStores(t *testing.T) {
	cfg := &config.Config{DBType: "memory", SessionStore: "database"}
	sessions := pingFunc(func(context.Context) error { return errors.New("should not be asked") })

	result := services.HealthCheck(context.Background(), cfg, storage.NewMemory(), sessions)
	assert.True(t, result.Healthy())
	assert.Equal(t, "database", result.Sessions)
}
