package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/localnerve/mindsync/internal/validation"
)

// GoalHandler handles goal routes
type GoalHandler struct {
	Store storage.Storage
}

// List handles GET /api/goals
// @Summary List goals
// @Tags Goals
// @Produce json
// @Success 200 {array} models.Goal
// @Router /goals [get]
func (h *GoalHandler) List(c *fiber.Ctx) error {
	goals, err := h.Store.Goals().List(c.UserContext(), userID(c))
	if err != nil {
		return internal("Error fetching goals", err)
	}
	return c.JSON(goals)
}

// Create handles POST /api/goals
// @Summary Create a goal
// @Tags Goals
// @Accept json
// @Produce json
// @Param body body models.GoalInput true "Goal"
// @Success 201 {object} models.Goal
// @Failure 400 {object} utils.MessageResponse
// @Failure 403 {object} utils.MessageResponse
// @Router /goals [post]
func (h *GoalHandler) Create(c *fiber.Ctx) error {
	var in models.GoalInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	goal := in.ToModel(userID(c))
	if err := validation.Struct(goal); err != nil {
		return err
	}
	if err := checkCourse(c, h.Store, goal.CourseID); err != nil {
		return err
	}

	if err := h.Store.Goals().Create(c.UserContext(), &goal); err != nil {
		return internal("Error creating goal", err)
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

// Get handles GET /api/goals/:id
// @Summary Get a goal
// @Tags Goals
// @Produce json
// @Param id path int true "Goal ID"
// @Success 200 {object} models.Goal
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /goals/{id} [get]
func (h *GoalHandler) Get(c *fiber.Ctx) error {
	goal, err := loadOwned[models.Goal](c, h.Store.Goals(), "Goal")
	if err != nil {
		return err
	}
	return c.JSON(goal)
}

// Update handles PUT /api/goals/:id
// @Summary Update a goal
// @Tags Goals
// @Accept json
// @Produce json
// @Param id path int true "Goal ID"
// @Param body body models.GoalInput true "Changed fields"
// @Success 200 {object} models.Goal
// @Failure 400 {object} utils.MessageResponse
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /goals/{id} [put]
func (h *GoalHandler) Update(c *fiber.Ctx) error {
	goal, err := loadOwned[models.Goal](c, h.Store.Goals(), "Goal")
	if err != nil {
		return err
	}

	var patch models.GoalPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	patch.Apply(goal)

	if err := validation.Struct(goal); err != nil {
		return err
	}
	if patch.CourseID.IsSpecified() {
		if err := checkCourse(c, h.Store, goal.CourseID); err != nil {
			return err
		}
	}

	if err := h.Store.Goals().Update(c.UserContext(), goal); err != nil {
		return internal("Error updating goal", err)
	}
	return c.JSON(goal)
}

// Delete handles DELETE /api/goals/:id
// @Summary Delete a goal
// @Tags Goals
// @Param id path int true "Goal ID"
// @Success 204
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /goals/{id} [delete]
func (h *GoalHandler) Delete(c *fiber.Ctx) error {
	goal, err := loadOwned[models.Goal](c, h.Store.Goals(), "Goal")
	if err != nil {
		return err
	}
	if err := h.Store.Goals().Delete(c.UserContext(), goal.ID); err != nil {
		return internal("Error deleting goal", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
