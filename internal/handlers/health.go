package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/config"
	"github.com/localnerve/mindsync/internal/services"
	"github.com/localnerve/mindsync/internal/storage"
)

// HealthHandler reports dependency health
type HealthHandler struct {
	Config *config.Config
	Store  storage.Storage
	// Sessions is pinged when SESSION_STORE is redis
	Sessions services.Pinger
}

// Get handles GET /api/health
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Get(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Config, h.Store, h.Sessions)
	status := fiber.StatusOK
	if !result.Healthy() {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
