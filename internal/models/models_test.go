package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskInputDefaults(t *testing.T) {
	var in TaskInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Essay","taskType":"assignment","courseId":"4","dueDate":"2026-04-01"}`), &in))

	task := in.ToModel(9)
	assert.Equal(t, uint(9), task.UserID)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, StatusIncomplete, task.Status)
	require.NotNil(t, task.CourseID)
	assert.Equal(t, uint(4), *task.CourseID)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCourseInputDefaults(t *testing.T) {
	course := CourseInput{Name: "Biology", Color: new(string)}.ToModel(1)
	assert.Equal(t, DefaultCourseColor, course.Color, "an empty color falls back to the default")
	assert.Zero(t, course.Progress)
	assert.Nil(t, course.TermID)
}

func TestTermInputActiveByDefault(t *testing.T) {
	assert.True(t, TermInput{Name: "Fall"}.ToModel(1).IsActive)

	inactive := false
	assert.False(t, TermInput{Name: "Fall", IsActive: &inactive}.ToModel(1).IsActive)
}

func TestTaskPatchMergesOnlySuppliedFields(t *testing.T) {
	due := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	course := uint(3)
	desc := "draft"
	hours := 2
	task := Task{
		ID: 1, UserID: 9, Name: "Essay", Description: &desc, DueDate: &due, CourseID: &course,
		TaskType: TaskTypeAssignment, Priority: PriorityLow, Status: StatusIncomplete, EstimatedHours: &hours,
	}

	var patch TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{"status":"complete","description":null,"courseId":0}`), &patch))
	patch.Apply(&task)

	assert.Equal(t, StatusComplete, task.Status)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.CourseID, "zero clears the course")
	assert.Equal(t, "Essay", task.Name)
	assert.Equal(t, PriorityLow, task.Priority)
	require.NotNil(t, task.DueDate)
	assert.True(t, due.Equal(*task.DueDate))
	assert.Equal(t, 2, *task.EstimatedHours)
	assert.Equal(t, uint(9), task.UserID)
}

func TestCoursePatchClearsDates(t *testing.T) {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	course := Course{Name: "Art", StartDate: &start, Color: DefaultCourseColor}

	var patch CoursePatch
	require.NoError(t, json.Unmarshal([]byte(`{"startDate":null,"endDate":"2026-05-30","termId":"7"}`), &patch))
	patch.Apply(&course)

	assert.Nil(t, course.StartDate)
	require.NotNil(t, course.EndDate)
	assert.Equal(t, 30, course.EndDate.Day())
	require.NotNil(t, course.TermID)
	assert.Equal(t, uint(7), *course.TermID)
}

func TestTermPatchIgnoresNullDates(t *testing.T) {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	term := Term{Name: "Spring", StartDate: start, EndDate: start.AddDate(0, 4, 0), IsActive: true}

	var patch TermPatch
	require.NoError(t, json.Unmarshal([]byte(`{"startDate":null,"isActive":false}`), &patch))
	patch.Apply(&term)

	assert.True(t, start.Equal(term.StartDate), "required columns are not nullable")
	assert.False(t, term.IsActive)
}

func TestTermContains(t *testing.T) {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	term := Term{StartDate: start, EndDate: end}

	assert.True(t, term.Contains(start))
	assert.True(t, term.Contains(end))
	assert.True(t, term.Contains(start.AddDate(0, 1, 0)))
	assert.False(t, term.Contains(start.Add(-time.Second)))
	assert.False(t, term.Contains(end.Add(time.Second)))
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{}.Expired(now), "no expiry never expires")

	past := now.Add(-time.Minute)
	assert.True(t, Session{ExpiresAt: &past}.Expired(now))

	future := now.Add(time.Minute)
	assert.False(t, Session{ExpiresAt: &future}.Expired(now))
}

func TestUserPasswordNotSerialized(t *testing.T) {
	out, err := json.Marshal(User{ID: 1, Username: "alice", Password: "secret.hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")
	assert.Contains(t, string(out), `"fullName"`)
}

func TestAllModelsListed(t *testing.T) {
	assert.Len(t, All(), 9)
}
