package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/localnerve/mindsync/internal/validation"
)

// StudySessionHandler handles study session routes. Calendar days are
// evaluated in Location.
type StudySessionHandler struct {
	Store    storage.Storage
	Location *time.Location
	Now      func() time.Time
}

// List handles GET /api/study-sessions
// @Summary List study sessions
// @Description With ?date only sessions starting on that calendar day are returned
// @Tags StudySessions
// @Produce json
// @Param date query string false "ISO 8601 date or timestamp"
// @Success 200 {array} models.StudySession
// @Failure 400 {object} utils.MessageResponse
// @Router /study-sessions [get]
func (h *StudySessionHandler) List(c *fiber.Ctx) error {
	if c.Query("date") != "" {
		return h.ForDay(c)
	}
	sessions, err := h.Store.StudySessions().List(c.UserContext(), userID(c))
	if err != nil {
		return internal("Error fetching study sessions", err)
	}
	return c.JSON(sessions)
}

// ForDay handles GET /api/study-sessions/day
// @Summary Study sessions of one day
// @Description Sessions starting between 00:00:00.000 and 23:59:59.999 of the date, today by default
// @Tags StudySessions
// @Produce json
// @Param date query string false "ISO 8601 date or timestamp"
// @Success 200 {array} models.StudySession
// @Failure 400 {object} utils.MessageResponse
// @Router /study-sessions/day [get]
func (h *StudySessionHandler) ForDay(c *fiber.Ctx) error {
	day, err := parseDay(c.Query("date"), h.Location, h.Now())
	if err != nil {
		return err
	}

	from, to := dayBounds(day, h.Location)
	sessions, err := h.Store.StudySessions().ListStartingBetween(c.UserContext(), userID(c), from, to)
	if err != nil {
		return internal("Error fetching study sessions for day", err)
	}
	return c.JSON(sessions)
}

// Create handles POST /api/study-sessions
// @Summary Create a study session
// @Tags StudySessions
// @Accept json
// @Produce json
// @Param body body models.StudySessionInput true "Study session"
// @Success 201 {object} models.StudySession
// @Failure 400 {object} utils.MessageResponse
// @Failure 403 {object} utils.MessageResponse
// @Router /study-sessions [post]
func (h *StudySessionHandler) Create(c *fiber.Ctx) error {
	var in models.StudySessionInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	session := in.ToModel(userID(c))
	if err := validation.Struct(session); err != nil {
		return err
	}
	if err := checkCourse(c, h.Store, session.CourseID); err != nil {
		return err
	}

	if err := h.Store.StudySessions().Create(c.UserContext(), &session); err != nil {
		return internal("Error creating study session", err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// Get handles GET /api/study-sessions/:id
// @Summary Get a study session
// @Tags StudySessions
// @Produce json
// @Param id path int true "Study session ID"
// @Success 200 {object} models.StudySession
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /study-sessions/{id} [get]
func (h *StudySessionHandler) Get(c *fiber.Ctx) error {
	session, err := loadOwned[models.StudySession](c, h.Store.StudySessions(), "Study session")
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// Update handles PUT /api/study-sessions/:id
// @Summary Update a study session
// @Tags StudySessions
// @Accept json
// @Produce json
// @Param id path int true "Study session ID"
// @Param body body models.StudySessionInput true "Changed fields"
// @Success 200 {object} models.StudySession
// @Failure 400 {object} utils.MessageResponse
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /study-sessions/{id} [put]
func (h *StudySessionHandler) Update(c *fiber.Ctx) error {
	session, err := loadOwned[models.StudySession](c, h.Store.StudySessions(), "Study session")
	if err != nil {
		return err
	}

	var patch models.StudySessionPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	patch.Apply(session)

	if err := validation.Struct(session); err != nil {
		return err
	}
	if patch.CourseID.IsSpecified() {
		if err := checkCourse(c, h.Store, session.CourseID); err != nil {
			return err
		}
	}

	if err := h.Store.StudySessions().Update(c.UserContext(), session); err != nil {
		return internal("Error updating study session", err)
	}
	return c.JSON(session)
}

// Delete handles DELETE /api/study-sessions/:id
// @Summary Delete a study session
// @Tags StudySessions
// @Param id path int true "Study session ID"
// @Success 204
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /study-sessions/{id} [delete]
func (h *StudySessionHandler) Delete(c *fiber.Ctx) error {
	session, err := loadOwned[models.StudySession](c, h.Store.StudySessions(), "Study session")
	if err != nil {
		return err
	}
	if err := h.Store.StudySessions().Delete(c.UserContext(), session.ID); err != nil {
		return internal("Error deleting study session", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
