package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/storage"
)

// SettingsHandler handles the caller's single settings row
type SettingsHandler struct {
	Store storage.Storage
}

// loadOrCreate returns the settings of userID, creating defaults when absent
func (h *SettingsHandler) loadOrCreate(ctx context.Context, userID uint) (*models.Settings, error) {
	settings, err := h.Store.Settings().Get(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, internal("Error fetching settings", err)
	}

	defaults := models.DefaultSettings(userID)
	if err := h.Store.Settings().Create(ctx, &defaults); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			// created by a concurrent request
			return h.loadOrCreate(ctx, userID)
		}
		return nil, internal("Error creating settings", err)
	}
	return &defaults, nil
}

// Get handles GET /api/settings
// @Summary Get settings
// @Description Default settings are created on first access
// @Tags Settings
// @Produce json
// @Success 200 {object} models.Settings
// @Router /settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.loadOrCreate(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

// Update handles PUT /api/settings
// @Summary Update settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body models.Settings true "Changed fields"
// @Success 200 {object} models.Settings
// @Failure 400 {object} utils.MessageResponse
// @Router /settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var patch models.SettingsPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	settings, err := h.loadOrCreate(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	patch.Apply(settings)

	if err := h.Store.Settings().Update(c.UserContext(), settings); err != nil {
		return internal("Error updating settings", err)
	}
	return c.JSON(settings)
}
