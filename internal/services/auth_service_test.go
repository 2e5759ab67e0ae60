package services_test

import (
	"context"
	"testing"

	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/services"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/localnerve/mindsync/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput(username, email string) models.RegisterInput {
	return models.RegisterInput{
		Username: username,
		Email:    email,
		Password: "pa55word",
		FullName: "Test Student",
	}
}

func requireKind(t *testing.T, err error, kind types.ErrorKind, message string) {
	t.Helper()
	appErr, ok := types.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

func TestRegisterCreatesStatsAndSettings(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	auth := services.NewAuthService(store)

	user, err := auth.Register(ctx, registerInput("alice", "alice@example.com"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "pa55word", user.Password)
	assert.True(t, services.VerifyPassword("pa55word", user.Password))

	stats, err := store.UserStats().Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultWeeklyStudyGoal, stats.WeeklyStudyGoal)
	assert.Zero(t, stats.StreakDays)

	settings, err := store.Settings().Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(user.ID).EmailNotifications, settings.EmailNotifications)
	assert.False(t, settings.DarkMode)
}

func TestRegisterConflicts(t *testing.T) {
	ctx := context.Background()
	auth := services.NewAuthService(storage.NewMemory())

	_, err := auth.Register(ctx, registerInput("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = auth.Register(ctx, registerInput("alice", "other@example.com"))
	requireKind(t, err, types.KindConflict, "Username already exists")

	_, err = auth.Register(ctx, registerInput("bob", "alice@example.com"))
	requireKind(t, err, types.KindConflict, "Email already exists")
}

func TestRegisterValidates(t *testing.T) {
	auth := services.NewAuthService(storage.NewMemory())

	_, err := auth.Register(context.Background(), models.RegisterInput{Username: "carol"})
	requireKind(t, err, types.KindValidation, "")
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	auth := services.NewAuthService(storage.NewMemory())

	registered, err := auth.Register(ctx, registerInput("alice", "alice@example.com"))
	require.NoError(t, err)

	user, err := auth.Login(ctx, models.LoginInput{Username: "alice", Password: "pa55word"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = auth.Login(ctx, models.LoginInput{Username: "alice", Password: "wrong"})
	requireKind(t, err, types.KindUnauthorized, "Invalid username or password")

	_, err = auth.Login(ctx, models.LoginInput{Username: "nobody", Password: "pa55word"})
	requireKind(t, err, types.KindUnauthorized, "Invalid username or password")

	_, err = auth.Login(ctx, models.LoginInput{Username: "alice"})
	requireKind(t, err, types.KindValidation, "")
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	auth := services.NewAuthService(storage.NewMemory())

	registered, err := auth.Register(ctx, registerInput("alice", "alice@example.com"))
	require.NoError(t, err)

	user, err := auth.Lookup(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = auth.Lookup(ctx, registered.ID+100)
	requireKind(t, err, types.KindUnauthorized, "")
}
