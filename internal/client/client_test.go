package client_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/localnerve/mindsync/internal/client"
	"github.com/localnerve/mindsync/internal/config"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/routes"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/localnerve/mindsync/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve runs the full application on a loopback port and returns its base url
func serve(t *testing.T) string {
	t.Helper()
	return serveStore(t, storage.NewMemory())
}

func serveStore(t *testing.T, store storage.Storage) string {
	t.Helper()
	app := routes.New(routes.Options{
		Config: &config.Config{
			CORSOrigin:   "http://localhost:3000",
			Location:     time.UTC,
			DBType:       "memory",
			SessionStore: "memory",
			SessionTTL:   time.Hour,
		},
		Store: store,
		Quiet: true,
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})
	return "http://" + ln.Addr().String()
}

func newClient(t *testing.T, baseURL, username string) *client.Client {
	t.Helper()
	api, err := client.New(baseURL + "/")
	require.NoError(t, err)
	_, err = api.Register(context.Background(), models.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "pa55word",
		FullName: "Student " + username,
	})
	require.NoError(t, err)
	return api
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	baseURL := serve(t)

	api, err := client.New(baseURL)
	require.NoError(t, err)

	user, err := api.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = api.Login(ctx, "nobody", "nothing")
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid username or password", apiErr.Message)

	newClient(t, baseURL, "alice")

	user, err = api.Login(ctx, "alice", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	user, err = api.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)

	require.NoError(t, api.Logout(ctx))
	_, err = api.Courses(ctx)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
}

func TestReadsAreCachedUntilMutation(t *testing.T) {
	ctx := context.Background()
	baseURL := serve(t)
	alice := newClient(t, baseURL, "alice")
	// a second session for the same user changes data behind alice's cache
	other, err := client.New(baseURL)
	require.NoError(t, err)
	_, err = other.Login(ctx, "alice", "pa55word")
	require.NoError(t, err)

	courses, err := alice.Courses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)

	_, err = other.CreateCourse(ctx, models.CourseInput{Name: "Physics"})
	require.NoError(t, err)

	courses, err = alice.Courses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses, "served from cache")

	alice.Invalidate(client.PathCourses)
	courses, err = alice.Courses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)

	created, err := alice.CreateCourse(ctx, models.CourseInput{Name: "Biology"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCourseColor, created.Color)

	courses, err = alice.Courses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 2, "create refreshes the course list")

	course, err := alice.UpdateCourse(ctx, created.ID, map[string]interface{}{"progress": 40})
	require.NoError(t, err)
	assert.Equal(t, 40, course.Progress)
	assert.Equal(t, "Biology", course.Name)

	require.NoError(t, alice.DeleteCourse(ctx, created.ID))
	courses, err = alice.Courses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 1)

	err = alice.DeleteCourse(ctx, created.ID)
	assert.True(t, client.IsStatus(err, http.StatusNotFound))
}

func TestTasksAndGoals(t *testing.T) {
	ctx := context.Background()
	alice := newClient(t, serve(t), "alice")

	due := types.FlexTime(time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second))
	task, err := alice.CreateTask(ctx, models.TaskInput{Name: "Problem set", TaskType: "assignment", DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, models.StatusIncomplete, task.Status)

	upcoming, err := alice.UpcomingTasks(ctx, 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)

	toggled, err := alice.ToggleTask(ctx, *task)
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, toggled.Status)

	upcoming, err = alice.UpcomingTasks(ctx, 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, models.StatusComplete, upcoming[0].Status, "toggle refreshes upcoming")

	exams, err := alice.Tasks(ctx, "exam")
	require.NoError(t, err)
	assert.Empty(t, exams)

	goal, err := alice.CreateGoal(ctx, models.GoalInput{Title: "Review notes"})
	require.NoError(t, err)
	goal, err = alice.ToggleGoal(ctx, *goal)
	require.NoError(t, err)
	assert.True(t, goal.Completed)

	dash, err := alice.Dashboard(ctx)
	require.NoError(t, err)
	assert.Len(t, dash.UpcomingTasks, 1)
	require.Len(t, dash.Goals, 1)
	assert.True(t, dash.Goals[0].Completed)
	assert.Nil(t, dash.ActiveTerm)

	term, err := alice.ActiveTerm(ctx)
	require.NoError(t, err)
	assert.Nil(t, term)
}

func TestSettingsAndStats(t *testing.T) {
	ctx := context.Background()
	alice := newClient(t, serve(t), "alice")

	settings, err := alice.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.DarkMode)

	settings, err = alice.UpdateSettings(ctx, map[string]interface{}{"darkMode": true})
	require.NoError(t, err)
	assert.True(t, settings.DarkMode)

	settings, err = alice.Settings(ctx)
	require.NoError(t, err)
	assert.True(t, settings.DarkMode)

	_, err = alice.UpdateUserStats(ctx, map[string]interface{}{"overallProgress": 101})
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))

	stats, err := alice.UpdateUserStats(ctx, map[string]interface{}{"totalHoursStudied": 12})
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalHoursStudied)
}

type unreachableStore struct {
	storage.Storage
}

func (unreachableStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	ctx := context.Background()

	api, err := client.New(serve(t))
	require.NoError(t, err)
	report, err := api.Health(ctx)
	require.NoError(t, err)
	assert.True(t, report.Healthy())
	assert.Equal(t, "ok", report.Database)

	api, err = client.New(serveStore(t, unreachableStore{storage.NewMemory()}))
	require.NoError(t, err)
	report, err = api.Health(ctx)
	assert.True(t, client.IsStatus(err, http.StatusServiceUnavailable))
	require.NotNil(t, report, "the report comes back with the error")
	assert.False(t, report.Healthy())
	assert.Equal(t, "unreachable", report.Database)
}
