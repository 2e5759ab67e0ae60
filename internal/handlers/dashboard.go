package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/middleware"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/storage"
)

// Dashboard is everything the dashboard view shows in one response
type Dashboard struct {
	User          *models.User          `json:"user"`
	Stats         *models.UserStats     `json:"stats"`
	UpcomingTasks []models.Task         `json:"upcomingTasks"`
	TodaySessions []models.StudySession `json:"todaySessions"`
	Goals         []models.Goal         `json:"goals"`
	Courses       []models.Course       `json:"courses"`
	ActiveTerm    *models.Term          `json:"activeTerm"`
}

// DashboardHandler composes the dashboard from the other resources
type DashboardHandler struct {
	Store    storage.Storage
	Stats    *UserStatsHandler
	Location *time.Location
	Now      func() time.Time
}

// Get handles GET /api/dashboard
// @Summary Dashboard summary
// @Description Stats, upcoming tasks, today's sessions, goals, courses and the active term
// @Tags Dashboard
// @Produce json
// @Success 200 {object} handlers.Dashboard
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()
	uid := userID(c)
	now := h.Now().UTC()

	stats, err := h.Stats.loadOrCreate(ctx, uid)
	if err != nil {
		return err
	}

	upcoming, err := h.Store.Tasks().ListDueBetween(ctx, uid, now, now.AddDate(0, 0, DefaultUpcomingDays))
	if err != nil {
		return internal("Error fetching upcoming tasks", err)
	}

	from, to := dayBounds(now, h.Location)
	sessions, err := h.Store.StudySessions().ListStartingBetween(ctx, uid, from, to)
	if err != nil {
		return internal("Error fetching study sessions for day", err)
	}

	goals, err := h.Store.Goals().List(ctx, uid)
	if err != nil {
		return internal("Error fetching goals", err)
	}

	courses, err := h.Store.Courses().List(ctx, uid)
	if err != nil {
		return internal("Error fetching courses", err)
	}

	term, err := h.Store.Terms().Active(ctx, uid, now)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return internal("Error fetching active term", err)
	}

	return c.JSON(Dashboard{
		User:          middleware.CurrentUser(c),
		Stats:         stats,
		UpcomingTasks: upcoming,
		TodaySessions: sessions,
		Goals:         goals,
		Courses:       courses,
		ActiveTerm:    term,
	})
}
