package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/services"
	"github.com/pkg/errors"
)

// API paths
const (
	PathHealth        = "/api/health"
	PathSession       = "/api/auth/session"
	PathCourses       = "/api/courses"
	PathTerms         = "/api/terms"
	PathActiveTerm    = "/api/terms/active"
	PathTasks         = "/api/tasks"
	PathUpcomingTasks = "/api/tasks/upcoming"
	PathStudySessions = "/api/study-sessions"
	PathSessionsDay   = "/api/study-sessions/day"
	PathGoals         = "/api/goals"
	PathSettings      = "/api/settings"
	PathUserStats     = "/api/user-stats"
	PathDashboard     = "/api/dashboard"
)

// Related read paths refreshed after a mutation of each resource
var (
	courseReads  = []string{PathCourses, PathDashboard}
	termReads    = []string{PathTerms, PathActiveTerm, PathDashboard}
	taskReads    = []string{PathTasks, PathUpcomingTasks, PathDashboard}
	sessionReads = []string{PathStudySessions, PathSessionsDay, PathDashboard}
	goalReads    = []string{PathGoals, PathDashboard}
	statsReads   = []string{PathUserStats, PathDashboard}
)

// Register creates an account and keeps its session
func (c *Client) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	var user models.User
	if err := c.Post(ctx, "/api/auth/register", in, &user); err != nil {
		return nil, err
	}
	c.cache.clear()
	return &user, nil
}

// Login starts a session. Cached reads of any previous identity are dropped.
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	in := models.LoginInput{Username: username, Password: password}
	if err := c.Post(ctx, "/api/auth/login", in, &user); err != nil {
		return nil, err
	}
	c.cache.clear()
	return &user, nil
}

// Health fetches the service health report. An unhealthy service answers 503;
// its report is returned together with the *APIError.
func (c *Client) Health(ctx context.Context) (*services.HealthCheckResult, error) {
	body, err := c.do(ctx, http.MethodGet, PathHealth, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusServiceUnavailable {
		body = apiErr.Body
	} else if err != nil {
		return nil, err
	}

	var result services.HealthCheckResult
	if decodeErr := decode(body, &result); decodeErr != nil {
		return nil, decodeErr
	}
	return &result, err
}

// Logout ends the session and empties the cache
func (c *Client) Logout(ctx context.Context) error {
	err := c.Post(ctx, "/api/auth/logout", nil, nil)
	c.cache.clear()
	return err
}

// CurrentUser returns the session user, or nil without error when there is
// no session
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	err := c.Get(ctx, NewKey(PathSession), &user)
	if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Courses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := c.Get(ctx, NewKey(PathCourses), &courses)
	return courses, err
}

func (c *Client) CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error) {
	return mutateOne[models.Course](ctx, c, http.MethodPost, PathCourses, in, courseReads...)
}

// UpdateCourse sends only the fields in changes
func (c *Client) UpdateCourse(ctx context.Context, id uint, changes map[string]interface{}) (*models.Course, error) {
	return mutateOne[models.Course](ctx, c, http.MethodPut, itemPath(PathCourses, id), changes, courseReads...)
}

func (c *Client) DeleteCourse(ctx context.Context, id uint) error {
	// tasks, study sessions and goals of the course lose their course reference
	return c.Delete(ctx, itemPath(PathCourses, id),
		PathCourses, PathDashboard, PathTasks, PathUpcomingTasks, PathStudySessions, PathSessionsDay, PathGoals)
}

func (c *Client) Terms(ctx context.Context) ([]models.Term, error) {
	var terms []models.Term
	err := c.Get(ctx, NewKey(PathTerms), &terms)
	return terms, err
}

// ActiveTerm returns nil without error when no term is active
func (c *Client) ActiveTerm(ctx context.Context) (*models.Term, error) {
	var term models.Term
	err := c.Get(ctx, NewKey(PathActiveTerm), &term)
	if IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &term, nil
}

func (c *Client) CreateTerm(ctx context.Context, in models.TermInput) (*models.Term, error) {
	return mutateOne[models.Term](ctx, c, http.MethodPost, PathTerms, in, termReads...)
}

// Tasks lists tasks, optionally of a single type
func (c *Client) Tasks(ctx context.Context, taskType string) ([]models.Task, error) {
	key := NewKey(PathTasks)
	if taskType != "" {
		key = NewKey(PathTasks, "type", taskType)
	}
	var tasks []models.Task
	err := c.Get(ctx, key, &tasks)
	return tasks, err
}

func (c *Client) UpcomingTasks(ctx context.Context, days int) ([]models.Task, error) {
	var tasks []models.Task
	err := c.Get(ctx, NewKey(PathUpcomingTasks, "days", strconv.Itoa(days)), &tasks)
	return tasks, err
}

func (c *Client) CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	return mutateOne[models.Task](ctx, c, http.MethodPost, PathTasks, in, taskReads...)
}

// ToggleTask flips the status between complete and incomplete
func (c *Client) ToggleTask(ctx context.Context, task models.Task) (*models.Task, error) {
	status := models.StatusComplete
	if task.Status == models.StatusComplete {
		status = models.StatusIncomplete
	}
	changes := map[string]interface{}{"status": status}
	return mutateOne[models.Task](ctx, c, http.MethodPut, itemPath(PathTasks, task.ID), changes, taskReads...)
}

func (c *Client) DeleteTask(ctx context.Context, id uint) error {
	return c.Delete(ctx, itemPath(PathTasks, id), taskReads...)
}

// SessionsForDay lists study sessions starting on date's calendar day
func (c *Client) SessionsForDay(ctx context.Context, date time.Time) ([]models.StudySession, error) {
	var sessions []models.StudySession
	key := NewKey(PathSessionsDay, "date", date.Format("2006-01-02"))
	err := c.Get(ctx, key, &sessions)
	return sessions, err
}

func (c *Client) CreateStudySession(ctx context.Context, in models.StudySessionInput) (*models.StudySession, error) {
	return mutateOne[models.StudySession](ctx, c, http.MethodPost, PathStudySessions, in, sessionReads...)
}

func (c *Client) Goals(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	err := c.Get(ctx, NewKey(PathGoals), &goals)
	return goals, err
}

func (c *Client) CreateGoal(ctx context.Context, in models.GoalInput) (*models.Goal, error) {
	return mutateOne[models.Goal](ctx, c, http.MethodPost, PathGoals, in, goalReads...)
}

// ToggleGoal flips the completed flag
func (c *Client) ToggleGoal(ctx context.Context, goal models.Goal) (*models.Goal, error) {
	changes := map[string]interface{}{"completed": !goal.Completed}
	return mutateOne[models.Goal](ctx, c, http.MethodPut, itemPath(PathGoals, goal.ID), changes, goalReads...)
}

func (c *Client) Settings(ctx context.Context) (*models.Settings, error) {
	return getOne[models.Settings](ctx, c, NewKey(PathSettings))
}

func (c *Client) UpdateSettings(ctx context.Context, changes map[string]interface{}) (*models.Settings, error) {
	return mutateOne[models.Settings](ctx, c, http.MethodPut, PathSettings, changes, PathSettings)
}

func (c *Client) UserStats(ctx context.Context) (*models.UserStats, error) {
	return getOne[models.UserStats](ctx, c, NewKey(PathUserStats))
}

func (c *Client) UpdateUserStats(ctx context.Context, changes map[string]interface{}) (*models.UserStats, error) {
	return mutateOne[models.UserStats](ctx, c, http.MethodPut, PathUserStats, changes, statsReads...)
}

// Dashboard mirrors the server's dashboard response
type Dashboard struct {
	User          *models.User          `json:"user"`
	Stats         *models.UserStats     `json:"stats"`
	UpcomingTasks []models.Task         `json:"upcomingTasks"`
	TodaySessions []models.StudySession `json:"todaySessions"`
	Goals         []models.Goal         `json:"goals"`
	Courses       []models.Course       `json:"courses"`
	ActiveTerm    *models.Term          `json:"activeTerm"`
}

func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	return getOne[Dashboard](ctx, c, NewKey(PathDashboard))
}

func itemPath(base string, id uint) string {
	return fmt.Sprintf("%s/%d", base, id)
}

func getOne[T any](ctx context.Context, c *Client, key Key) (*T, error) {
	var v T
	if err := c.Get(ctx, key, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func mutateOne[T any](ctx context.Context, c *Client, method, path string, in interface{}, invalidate ...string) (*T, error) {
	var v T
	if err := c.mutate(ctx, method, path, in, &v, invalidate); err != nil {
		return nil, err
	}
	return &v, nil
}
