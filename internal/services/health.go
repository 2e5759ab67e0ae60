package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/localnerve/mindsync/internal/config"
	"github.com/localnerve/mindsync/internal/storage"
)

// HealthCheckResult represents the health check response
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Sessions     string            `json:"sessions"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Healthy reports whether every dependency answered
func (r HealthCheckResult) Healthy() bool {
	return r.Status == "healthy"
}

// Pinger is a dependency that answers a round trip, such as the redis session storage
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck pings the store and, when sessions live in redis, the redis
// server through the session storage client
func HealthCheck(ctx context.Context, cfg *config.Config, store storage.Storage, sessions Pinger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		log.Printf("Health check failed - database ping: %v", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		if cfg.DBType != "memory" {
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	result.Sessions = cfg.SessionStore
	if cfg.SessionStore == "redis" {
		err := errors.New("no redis client")
		if sessions != nil {
			err = sessions.Ping(ctx)
		}
		if err != nil {
			result.Status = "unhealthy"
			result.Sessions = "unreachable"
			result.Details["redis_error"] = err.Error()
			if result.ErrorMessage == "" {
				result.ErrorMessage = fmt.Sprintf("Redis ping failed: %v", err)
			} else {
				result.ErrorMessage += fmt.Sprintf("; Redis ping failed: %v", err)
			}
			log.Printf("Health check failed - redis ping: %v", err)
		}
	}

	return result
}
