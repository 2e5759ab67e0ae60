package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/localnerve/mindsync/internal/types"
	"github.com/localnerve/mindsync/internal/validation"
)

// UserStatsHandler handles the caller's single stats row
type UserStatsHandler struct {
	Store storage.Storage
}

// loadOrCreate returns the stats of userID, creating zeroed stats when absent
func (h *UserStatsHandler) loadOrCreate(ctx context.Context, userID uint) (*models.UserStats, error) {
	stats, err := h.Store.UserStats().Get(ctx, userID)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, internal("Error fetching user stats", err)
	}

	fresh := models.NewUserStats(userID)
	if err := h.Store.UserStats().Create(ctx, &fresh); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return h.loadOrCreate(ctx, userID)
		}
		return nil, internal("Error fetching user stats", err)
	}
	return &fresh, nil
}

// Get handles GET /api/user-stats
// @Summary Get user statistics
// @Description Zeroed statistics are created when none exist
// @Tags UserStats
// @Produce json
// @Success 200 {object} models.UserStats
// @Router /user-stats [get]
func (h *UserStatsHandler) Get(c *fiber.Ctx) error {
	stats, err := h.loadOrCreate(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// Update handles PUT /api/user-stats
// @Summary Update user statistics
// @Tags UserStats
// @Accept json
// @Produce json
// @Param body body models.UserStats true "Changed fields"
// @Success 200 {object} models.UserStats
// @Failure 400 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /user-stats [put]
func (h *UserStatsHandler) Update(c *fiber.Ctx) error {
	var patch models.UserStatsPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	stats, err := h.Store.UserStats().Get(c.UserContext(), userID(c))
	if errors.Is(err, storage.ErrNotFound) {
		return types.NewNotFoundError("User stats not found")
	}
	if err != nil {
		return internal("Error updating user stats", err)
	}

	patch.Apply(stats)
	if err := validation.Struct(stats); err != nil {
		return err
	}

	if err := h.Store.UserStats().Update(c.UserContext(), stats); err != nil {
		return internal("Error updating user stats", err)
	}
	return c.JSON(stats)
}
