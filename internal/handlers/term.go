package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/localnerve/mindsync/internal/types"
	"github.com/localnerve/mindsync/internal/validation"
)

// TermHandler handles term routes
type TermHandler struct {
	Store storage.Storage
	Now   func() time.Time
}

// List handles GET /api/terms
// @Summary List terms
// @Tags Terms
// @Produce json
// @Success 200 {array} models.Term
// @Router /terms [get]
func (h *TermHandler) List(c *fiber.Ctx) error {
	terms, err := h.Store.Terms().List(c.UserContext(), userID(c))
	if err != nil {
		return internal("Error fetching terms", err)
	}
	return c.JSON(terms)
}

// Active handles GET /api/terms/active
// @Summary Current active term
// @Description The term whose date range contains now, latest start first
// @Tags Terms
// @Produce json
// @Success 200 {object} models.Term
// @Failure 404 {object} utils.MessageResponse
// @Router /terms/active [get]
func (h *TermHandler) Active(c *fiber.Ctx) error {
	term, err := h.Store.Terms().Active(c.UserContext(), userID(c), h.Now().UTC())
	if errors.Is(err, storage.ErrNotFound) {
		return types.NewNotFoundError("No active term found")
	}
	if err != nil {
		return internal("Error fetching active term", err)
	}
	return c.JSON(term)
}

// Create handles POST /api/terms
// @Summary Create a term
// @Tags Terms
// @Accept json
// @Produce json
// @Param body body models.TermInput true "Term"
// @Success 201 {object} models.Term
// @Failure 400 {object} utils.MessageResponse
// @Router /terms [post]
func (h *TermHandler) Create(c *fiber.Ctx) error {
	var in models.TermInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	term := in.ToModel(userID(c))
	if err := validation.Struct(term); err != nil {
		return err
	}

	if err := h.Store.Terms().Create(c.UserContext(), &term); err != nil {
		return internal("Error creating term", err)
	}
	return c.Status(fiber.StatusCreated).JSON(term)
}

// Get handles GET /api/terms/:id
// @Summary Get a term
// @Tags Terms
// @Produce json
// @Param id path int true "Term ID"
// @Success 200 {object} models.Term
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /terms/{id} [get]
func (h *TermHandler) Get(c *fiber.Ctx) error {
	term, err := loadOwned[models.Term](c, h.Store.Terms(), "Term")
	if err != nil {
		return err
	}
	return c.JSON(term)
}

// Update handles PUT /api/terms/:id
// @Summary Update a term
// @Tags Terms
// @Accept json
// @Produce json
// @Param id path int true "Term ID"
// @Param body body models.TermInput true "Changed fields"
// @Success 200 {object} models.Term
// @Failure 400 {object} utils.MessageResponse
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /terms/{id} [put]
func (h *TermHandler) Update(c *fiber.Ctx) error {
	term, err := loadOwned[models.Term](c, h.Store.Terms(), "Term")
	if err != nil {
		return err
	}

	var patch models.TermPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	patch.Apply(term)
	if err := validation.Struct(term); err != nil {
		return err
	}

	if err := h.Store.Terms().Update(c.UserContext(), term); err != nil {
		return internal("Error updating term", err)
	}
	return c.JSON(term)
}

// Delete handles DELETE /api/terms/:id
// @Summary Delete a term
// @Tags Terms
// @Param id path int true "Term ID"
// @Success 204
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /terms/{id} [delete]
func (h *TermHandler) Delete(c *fiber.Ctx) error {
	term, err := loadOwned[models.Term](c, h.Store.Terms(), "Term")
	if err != nil {
		return err
	}
	if err := h.Store.Terms().Delete(c.UserContext(), term.ID); err != nil {
		return internal("Error deleting term", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
