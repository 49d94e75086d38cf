package handlers

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Pinger checks one dependency's connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger adapts redis.Client to the Pinger interface.
type RedisPinger struct {
	client *redis.Client
}

// NewRedisPinger creates a new Redis health checker.
func NewRedisPinger(client *redis.Client) *RedisPinger {
	return &RedisPinger{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisPinger) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// HealthHandler handles health check operations.
type HealthHandler struct {
	redis    Pinger
	postgres Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(redis, postgres Pinger) *HealthHandler {
	return &HealthHandler{redis: redis, postgres: postgres}
}

// Check performs a health check of the application and its dependencies.
func (h *HealthHandler) Check(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Redis = "healthy"
	resp.Body.Postgres = "healthy"

	if err := h.redis.Ping(ctx); err != nil {
		resp.Body.Redis = "unhealthy"
		resp.Body.Status = "degraded"
	}

	if err := h.postgres.Ping(ctx); err != nil {
		resp.Body.Postgres = "unhealthy"
		resp.Body.Status = "degraded"
	}

	return resp, nil
}
