package validation_test

import (
	"testing"

	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/types"
	"github.com/localnerve/mindsync/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructValid(t *testing.T) {
	in := models.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret!",
		FullName: "Alice Liddell",
	}
	assert.NoError(t, validation.Struct(in))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := validation.Struct(models.RegisterInput{Email: "not-an-email"})
	require.Error(t, err)

	appErr, ok := types.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, types.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Message, "Validation error: ")
	assert.Contains(t, appErr.Message, "username is a required field")
	assert.Contains(t, appErr.Message, "fullName is a required field")
	assert.Contains(t, appErr.Message, "email must be a valid email address")
	assert.NotContains(t, appErr.Message, "FullName")
}

func TestNotBlank(t *testing.T) {
	err := validation.Struct(models.Goal{Title: "   "})
	require.Error(t, err)

	appErr, ok := types.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Validation error: title cannot be blank", appErr.Message)
}

func TestEnumAndRange(t *testing.T) {
	task := models.Task{
		Name:     "Essay",
		TaskType: "homework",
		Priority: models.PriorityHigh,
		Status:   models.StatusIncomplete,
	}
	err := validation.Struct(task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "taskType must be one of [assignment project exam quiz]")

	course := models.Course{Name: "Physics", Progress: 120}
	err = validation.Struct(course)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "progress must be 100 or less")
}
