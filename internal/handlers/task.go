package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/localnerve/mindsync/internal/types"
	"github.com/localnerve/mindsync/internal/validation"
)

// DefaultUpcomingDays is the window of /api/tasks/upcoming without ?days
const DefaultUpcomingDays = 7

// MaxUpcomingDays caps ?days so the window end stays a real date
const MaxUpcomingDays = 3660

// TaskHandler handles task routes
type TaskHandler struct {
	Store storage.Storage
	Now   func() time.Time
}

// List handles GET /api/tasks
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param type query string false "Only tasks of this type"
// @Success 200 {array} models.Task
// @Router /tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	if taskType := c.Query("type"); taskType != "" {
		return h.listByType(c, taskType)
	}
	tasks, err := h.Store.Tasks().List(c.UserContext(), userID(c))
	if err != nil {
		return internal("Error fetching tasks", err)
	}
	return c.JSON(tasks)
}

// ByType handles GET /api/tasks/type/:type
// @Summary List tasks of one type
// @Tags Tasks
// @Produce json
// @Param type path string true "assignment, project, exam or quiz"
// @Success 200 {array} models.Task
// @Router /tasks/type/{type} [get]
func (h *TaskHandler) ByType(c *fiber.Ctx) error {
	return h.listByType(c, c.Params("type"))
}

func (h *TaskHandler) listByType(c *fiber.Ctx, taskType string) error {
	tasks, err := h.Store.Tasks().ListByType(c.UserContext(), userID(c), taskType)
	if err != nil {
		return internal("Error fetching tasks by type", err)
	}
	return c.JSON(tasks)
}

// ByCourse handles GET /api/tasks/course/:courseId
// @Summary List tasks of a course
// @Tags Tasks
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {array} models.Task
// @Failure 403 {object} utils.MessageResponse
// @Router /tasks/course/{courseId} [get]
func (h *TaskHandler) ByCourse(c *fiber.Ctx) error {
	courseID, err := parseID(c, "courseId")
	if err != nil {
		return err
	}
	if err := checkCourse(c, h.Store, &courseID); err != nil {
		return err
	}
	tasks, err := h.Store.Tasks().ListByCourse(c.UserContext(), userID(c), courseID)
	if err != nil {
		return internal("Error fetching tasks by course", err)
	}
	return c.JSON(tasks)
}

// Upcoming handles GET /api/tasks/upcoming
// @Summary Upcoming tasks
// @Description Tasks due between now and now plus days, earliest first
// @Tags Tasks
// @Produce json
// @Param days query int false "Window in days, capped at 3660" default(7)
// @Success 200 {array} models.Task
// @Failure 400 {object} utils.MessageResponse
// @Router /tasks/upcoming [get]
func (h *TaskHandler) Upcoming(c *fiber.Ctx) error {
	days, err := upcomingDays(c.Query("days"))
	if err != nil {
		return err
	}

	now := h.Now().UTC()
	tasks, err := h.Store.Tasks().ListDueBetween(c.UserContext(), userID(c), now, now.AddDate(0, 0, days))
	if err != nil {
		return internal("Error fetching upcoming tasks", err)
	}
	return c.JSON(tasks)
}

func upcomingDays(raw string) (int, error) {
	if raw == "" {
		return DefaultUpcomingDays, nil
	}
	days, err := strconv.Atoi(raw)
	switch {
	case err != nil && errors.Is(err, strconv.ErrRange) && raw[0] != '-':
		return MaxUpcomingDays, nil
	case err != nil:
		return 0, types.NewValidationError("days must be a whole number")
	case days < 0:
		return 0, types.NewValidationError("days must not be negative")
	}
	return min(days, MaxUpcomingDays), nil
}

// Create handles POST /api/tasks
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param body body models.TaskInput true "Task"
// @Success 201 {object} models.Task
// @Failure 400 {object} utils.MessageResponse
// @Failure 403 {object} utils.MessageResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var in models.TaskInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	task := in.ToModel(userID(c))
	if err := validation.Struct(task); err != nil {
		return err
	}
	if err := checkCourse(c, h.Store, task.CourseID); err != nil {
		return err
	}

	if err := h.Store.Tasks().Create(c.UserContext(), &task); err != nil {
		return internal("Error creating task", err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// Get handles GET /api/tasks/:id
// @Summary Get a task
// @Tags Tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	task, err := loadOwned[models.Task](c, h.Store.Tasks(), "Task")
	if err != nil {
		return err
	}
	return c.JSON(task)
}

// Update handles PUT /api/tasks/:id
// @Summary Update a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param body body models.TaskInput true "Changed fields"
// @Success 200 {object} models.Task
// @Failure 400 {object} utils.MessageResponse
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	task, err := loadOwned[models.Task](c, h.Store.Tasks(), "Task")
	if err != nil {
		return err
	}

	var patch models.TaskPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	patch.Apply(task)

	if err := validation.Struct(task); err != nil {
		return err
	}
	if patch.CourseID.IsSpecified() {
		if err := checkCourse(c, h.Store, task.CourseID); err != nil {
			return err
		}
	}

	if err := h.Store.Tasks().Update(c.UserContext(), task); err != nil {
		return internal("Error updating task", err)
	}
	return c.JSON(task)
}

// Delete handles DELETE /api/tasks/:id
// @Summary Delete a task
// @Tags Tasks
// @Param id path int true "Task ID"
// @Success 204
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	task, err := loadOwned[models.Task](c, h.Store.Tasks(), "Task")
	if err != nil {
		return err
	}
	if err := h.Store.Tasks().Delete(c.UserContext(), task.ID); err != nil {
		return internal("Error deleting task", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
