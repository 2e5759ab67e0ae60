package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/localnerve/mindsync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forEachStore runs fn against every Storage implementation
func forEachStore(t *testing.T, fn func(t *testing.T, store storage.Storage)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, storage.NewMemory())
	})
	t.Run("sqlite", func(t *testing.T) {
		fn(t, storage.NewDatabase(testutil.NewSQLite(t)))
	})
}

func newUser(t *testing.T, store storage.Storage, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
		Password: "hash.salt",
	}
	stats := models.NewUserStats(0)
	settings := models.DefaultSettings(0)
	require.NoError(t, store.Users().Register(context.Background(), user, &stats, &settings))
	return user
}

func ptr[T any](v T) *T { return &v }

func day(d, h int) time.Time {
	return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC)
}

func TestRegister(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Storage) {
		ctx := context.Background()
		alice := newUser(t, store, "alice")
		assert.NotZero(t, alice.ID)

		byName, err := store.Users().GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byName.ID)

		byEmail, err := store.Users().GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byEmail.ID)

		stats, err := store.UserStats().Get(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, stats.UserID)

		settings, err := store.Settings().Get(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, settings.UserID)

		dupName := &models.User{Username: "alice", Email: "x@example.com", FullName: "x", Password: "p"}
		s, st := models.NewUserStats(0), models.DefaultSettings(0)
		assert.ErrorIs(t, store.Users().Register(ctx, dupName, &s, &st), storage.ErrUsernameExists)

		dupEmail := &models.User{Username: "x", Email: "alice@example.com", FullName: "x", Password: "p"}
		s, st = models.NewUserStats(0), models.DefaultSettings(0)
		assert.ErrorIs(t, store.Users().Register(ctx, dupEmail, &s, &st), storage.ErrEmailExists)

		_, err = store.Users().Get(ctx, alice.ID+99)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.Users().GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestRepositoryCRUD(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Storage) {
		ctx := context.Background()
		alice := newUser(t, store, "alice")
		bob := newUser(t, store, "bob")
		courses := store.Courses()

		math := models.Course{UserID: alice.ID, Name: "Math", Color: models.DefaultCourseColor}
		require.NoError(t, courses.Create(ctx, &math))
		assert.NotZero(t, math.ID)

		art := models.Course{UserID: bob.ID, Name: "Art", Color: models.DefaultCourseColor}
		require.NoError(t, courses.Create(ctx, &art))

		physics := models.Course{UserID: alice.ID, Name: "Physics", Color: "#000000", Instructor: ptr("Dr. Curie")}
		require.NoError(t, courses.Create(ctx, &physics))

		list, err := courses.List(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Math", list[0].Name)
		assert.Equal(t, "Physics", list[1].Name)

		got, err := courses.Get(ctx, physics.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dr. Curie", *got.Instructor)

		got.Progress = 40
		got.Instructor = nil
		require.NoError(t, courses.Update(ctx, got))
		got, err = courses.Get(ctx, physics.ID)
		require.NoError(t, err)
		assert.Equal(t, 40, got.Progress)
		assert.Nil(t, got.Instructor)

		require.NoError(t, courses.Delete(ctx, math.ID))
		_, err = courses.Get(ctx, math.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, courses.Delete(ctx, math.ID), storage.ErrNotFound)

		empty, err := courses.List(ctx, alice.ID+bob.ID+10)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})
}

func TestActiveTerm(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Storage) {
		ctx := context.Background()
		alice := newUser(t, store, "alice")
		bob := newUser(t, store, "bob")
		terms := store.Terms()
		now := day(15, 12)

		_, err := terms.Active(ctx, alice.ID, now)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		rows := []models.Term{
			{UserID: alice.ID, Name: "Inactive", StartDate: day(1, 0), EndDate: day(30, 0), IsActive: false},
			{UserID: alice.ID, Name: "Past", StartDate: day(1, 0), EndDate: day(10, 0), IsActive: true},
			{UserID: alice.ID, Name: "Spring", StartDate: day(2, 0), EndDate: day(28, 0), IsActive: true},
			{UserID: alice.ID, Name: "Module B", StartDate: day(12, 0), EndDate: day(20, 0), IsActive: true},
			{UserID: bob.ID, Name: "Bob's", StartDate: day(14, 0), EndDate: day(20, 0), IsActive: true},
		}
		for i := range rows {
			require.NoError(t, terms.Create(ctx, &rows[i]))
		}

		active, err := terms.Active(ctx, alice.ID, now)
		require.NoError(t, err)
		assert.Equal(t, "Module B", active.Name, "latest start wins")

		active, err = terms.Active(ctx, alice.ID, day(25, 0))
		require.NoError(t, err)
		assert.Equal(t, "Spring", active.Name)

		// the flag does not take part, only the date range
		active, err = terms.Active(ctx, alice.ID, day(29, 0))
		require.NoError(t, err)
		assert.Equal(t, "Inactive", active.Name)
		assert.False(t, active.IsActive)
	})
}

func TestTaskQueries(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Storage) {
		ctx := context.Background()
		alice := newUser(t, store, "alice")
		bob := newUser(t, store, "bob")

		course := models.Course{UserID: alice.ID, Name: "Chemistry", Color: models.DefaultCourseColor}
		require.NoError(t, store.Courses().Create(ctx, &course))

		task := func(user uint, name, kind string, due *time.Time, courseID *uint) models.Task {
			return models.Task{
				UserID: user, Name: name, TaskType: kind, DueDate: due, CourseID: courseID,
				Priority: models.PriorityMedium, Status: models.StatusIncomplete,
			}
		}
		rows := []models.Task{
			task(alice.ID, "Lab report", models.TaskTypeAssignment, ptr(day(18, 9)), &course.ID),
			task(alice.ID, "Midterm", models.TaskTypeExam, ptr(day(16, 9)), &course.ID),
			task(alice.ID, "Reading", models.TaskTypeAssignment, nil, nil),
			task(alice.ID, "Final", models.TaskTypeExam, ptr(day(30, 9)), nil),
			task(alice.ID, "Boundary", models.TaskTypeQuiz, ptr(day(22, 12)), nil),
			task(bob.ID, "Bob's exam", models.TaskTypeExam, ptr(day(17, 9)), nil),
		}
		for i := range rows {
			require.NoError(t, store.Tasks().Create(ctx, &rows[i]))
		}

		exams, err := store.Tasks().ListByType(ctx, alice.ID, models.TaskTypeExam)
		require.NoError(t, err)
		require.Len(t, exams, 2)
		assert.Equal(t, "Midterm", exams[0].Name)
		assert.Equal(t, "Final", exams[1].Name)

		byCourse, err := store.Tasks().ListByCourse(ctx, alice.ID, course.ID)
		require.NoError(t, err)
		require.Len(t, byCourse, 2)
		assert.Equal(t, "Lab report", byCourse[0].Name)

		upcoming, err := store.Tasks().ListDueBetween(ctx, alice.ID, day(15, 12), day(22, 12))
		require.NoError(t, err)
		names := make([]string, len(upcoming))
		for i, u := range upcoming {
			names[i] = u.Name
		}
		assert.Equal(t, []string{"Midterm", "Lab report", "Boundary"}, names)
	})
}

func TestStudySessionsStartingBetween(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Storage) {
		ctx := context.Background()
		alice := newUser(t, store, "alice")

		rows := []models.StudySession{
			{UserID: alice.ID, Title: "Evening", StartTime: day(15, 19), EndTime: day(15, 21)},
			{UserID: alice.ID, Title: "Morning", StartTime: day(15, 8), EndTime: day(15, 10)},
			{UserID: alice.ID, Title: "Tomorrow", StartTime: day(16, 8), EndTime: day(16, 9)},
			{UserID: alice.ID, Title: "Late start", StartTime: day(14, 23), EndTime: day(15, 1)},
		}
		for i := range rows {
			require.NoError(t, store.StudySessions().Create(ctx, &rows[i]))
		}

		got, err := store.StudySessions().ListStartingBetween(ctx, alice.ID, day(15, 0), day(15, 23))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Morning", got[0].Title)
		assert.Equal(t, "Evening", got[1].Title)
	})
}

func TestSettingsAndStats(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Storage) {
		ctx := context.Background()
		alice := newUser(t, store, "alice")

		settings, err := store.Settings().Get(ctx, alice.ID)
		require.NoError(t, err)
		settings.DarkMode = true
		require.NoError(t, store.Settings().Update(ctx, settings))

		settings, err = store.Settings().Get(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, settings.DarkMode)

		again := models.DefaultSettings(alice.ID)
		assert.ErrorIs(t, store.Settings().Create(ctx, &again), storage.ErrDuplicate)

		_, err = store.UserStats().Get(ctx, alice.ID+50)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		stats, err := store.UserStats().Get(ctx, alice.ID)
		require.NoError(t, err)
		last := day(1, 0)
		stats.WeeklyHoursStudied = 6
		stats.StreakDays = 4
		stats.LastStudyDate = &last
		require.NoError(t, store.UserStats().Update(ctx, stats))

		n, err := store.UserStats().ResetWeekly(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = store.UserStats().ResetStreaks(ctx, day(10, 0))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		stats, err = store.UserStats().Get(ctx, alice.ID)
		require.NoError(t, err)
		assert.Zero(t, stats.WeeklyHoursStudied)
		assert.Zero(t, stats.StreakDays)

		n, err = store.UserStats().ResetWeekly(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestPing(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Storage) {
		assert.NoError(t, store.Ping(context.Background()))
	})
}

func TestDeleteDetachesReferences(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Storage) {
		ctx := context.Background()
		alice := newUser(t, store, "alice")

		term := models.Term{UserID: alice.ID, Name: "Spring", StartDate: day(1, 0), EndDate: day(30, 0)}
		require.NoError(t, store.Terms().Create(ctx, &term))
		course := models.Course{UserID: alice.ID, Name: "Biology", Color: models.DefaultCourseColor, TermID: &term.ID}
		require.NoError(t, store.Courses().Create(ctx, &course))
		other := models.Course{UserID: alice.ID, Name: "Geology", Color: models.DefaultCourseColor}
		require.NoError(t, store.Courses().Create(ctx, &other))

		task := models.Task{UserID: alice.ID, Name: "Lab", TaskType: models.TaskTypeProject, CourseID: &course.ID,
			Priority: models.PriorityMedium, Status: models.StatusIncomplete}
		require.NoError(t, store.Tasks().Create(ctx, &task))
		kept := models.Task{UserID: alice.ID, Name: "Field trip", TaskType: models.TaskTypeProject, CourseID: &other.ID,
			Priority: models.PriorityMedium, Status: models.StatusIncomplete}
		require.NoError(t, store.Tasks().Create(ctx, &kept))
		session := models.StudySession{UserID: alice.ID, Title: "Cells", StartTime: day(15, 9), EndTime: day(15, 10), CourseID: &course.ID}
		require.NoError(t, store.StudySessions().Create(ctx, &session))
		goal := models.Goal{UserID: alice.ID, Title: "Pass lab", CourseID: &course.ID}
		require.NoError(t, store.Goals().Create(ctx, &goal))

		require.NoError(t, store.Terms().Delete(ctx, term.ID))
		gotCourse, err := store.Courses().Get(ctx, course.ID)
		require.NoError(t, err)
		assert.Nil(t, gotCourse.TermID)

		require.NoError(t, store.Courses().Delete(ctx, course.ID))

		gotTask, err := store.Tasks().Get(ctx, task.ID)
		require.NoError(t, err)
		assert.Nil(t, gotTask.CourseID)
		gotSession, err := store.StudySessions().Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Nil(t, gotSession.CourseID)
		gotGoal, err := store.Goals().Get(ctx, goal.ID)
		require.NoError(t, err)
		assert.Nil(t, gotGoal.CourseID)

		gotKept, err := store.Tasks().Get(ctx, kept.ID)
		require.NoError(t, err)
		require.NotNil(t, gotKept.CourseID)
		assert.Equal(t, other.ID, *gotKept.CourseID)
	})
}

func TestForeignKeys(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLite(t)
	store := storage.NewDatabase(db)
	alice := newUser(t, store, "alice")

	orphan := models.Course{UserID: alice.ID + 100, Name: "Nobody's", Color: models.DefaultCourseColor}
	assert.Error(t, store.Courses().Create(ctx, &orphan), "user_id must name a user")

	missing := uint(4242)
	dangling := models.Task{UserID: alice.ID, Name: "Dangling", TaskType: models.TaskTypeQuiz, CourseID: &missing,
		Priority: models.PriorityMedium, Status: models.StatusIncomplete}
	assert.Error(t, store.Tasks().Create(ctx, &dangling), "course_id must name a course")

	course := models.Course{UserID: alice.ID, Name: "Statistics", Color: models.DefaultCourseColor}
	require.NoError(t, store.Courses().Create(ctx, &course))
	task := models.Task{UserID: alice.ID, Name: "Homework", TaskType: models.TaskTypeAssignment, CourseID: &course.ID,
		Priority: models.PriorityMedium, Status: models.StatusIncomplete}
	require.NoError(t, store.Tasks().Create(ctx, &task))

	// removing the user removes everything the user owns
	require.NoError(t, db.Delete(&models.User{}, alice.ID).Error)

	_, err := store.Courses().Get(ctx, course.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Tasks().Get(ctx, task.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Settings().Get(ctx, alice.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.UserStats().Get(ctx, alice.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
