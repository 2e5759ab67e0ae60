package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	calls int
	n     int64
	err   error
}

func (p *fakePruner) PruneExpired() (int64, error) {
	p.calls++
	return p.n, p.err
}

func seedStats(t *testing.T, store *storage.Memory, username string, stats models.UserStats) uint {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", FullName: username, Password: "x"}
	settings := models.DefaultSettings(0)
	require.NoError(t, store.Users().Register(context.Background(), user, &stats, &settings))
	return user.ID
}

func TestSchedulerResetWeekly(t *testing.T) {
	store := storage.NewMemory()
	busy := models.NewUserStats(0)
	busy.WeeklyHoursStudied = 12
	busy.TotalHoursStudied = 40
	id := seedStats(t, store, "busy", busy)
	seedStats(t, store, "idle", models.NewUserStats(0))

	s := NewScheduler(store, time.UTC)
	s.ResetWeekly()

	got, err := store.UserStats().Get(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, got.WeeklyHoursStudied)
	assert.Equal(t, 40, got.TotalHoursStudied, "totals are kept")
}

func TestSchedulerStreakCutoff(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	s := NewScheduler(storage.NewMemory(), loc)
	// 03:00 UTC on the 10th is still the evening of the 9th in New York
	s.now = func() time.Time { return time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC) }

	want := time.Date(2026, 3, 8, 0, 0, 0, 0, loc).UTC()
	assert.True(t, want.Equal(s.streakCutoff()), "got %v want %v", s.streakCutoff(), want)
}

func TestSchedulerResetStreaks(t *testing.T) {
	store := storage.NewMemory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	yesterday := now.AddDate(0, 0, -1)
	recent := models.NewUserStats(0)
	recent.StreakDays = 5
	recent.LastStudyDate = &yesterday
	recentID := seedStats(t, store, "recent", recent)

	lapsedDate := now.AddDate(0, 0, -3)
	lapsed := models.NewUserStats(0)
	lapsed.StreakDays = 9
	lapsed.LastStudyDate = &lapsedDate
	lapsedID := seedStats(t, store, "lapsed", lapsed)

	never := models.NewUserStats(0)
	never.StreakDays = 2
	neverID := seedStats(t, store, "never", never)

	s := NewScheduler(store, time.UTC)
	s.now = func() time.Time { return now }
	s.ResetStreaks()

	ctx := context.Background()
	got, err := store.UserStats().Get(ctx, recentID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StreakDays)

	got, err = store.UserStats().Get(ctx, lapsedID)
	require.NoError(t, err)
	assert.Zero(t, got.StreakDays)

	got, err = store.UserStats().Get(ctx, neverID)
	require.NoError(t, err)
	assert.Zero(t, got.StreakDays)
}

func TestSchedulerRegister(t *testing.T) {
	s := NewScheduler(storage.NewMemory(), time.UTC)
	require.NoError(t, s.Register(nil))
	assert.Len(t, s.cron.Entries(), 2)

	s = NewScheduler(storage.NewMemory(), time.UTC)
	require.NoError(t, s.Register(&fakePruner{}))
	assert.Len(t, s.cron.Entries(), 3)

	s.Start()
	s.Stop()
}

func TestSchedulerPruneSessions(t *testing.T) {
	s := NewScheduler(storage.NewMemory(), time.UTC)

	ok := &fakePruner{n: 3}
	s.PruneSessions(ok)
	assert.Equal(t, 1, ok.calls)

	failing := &fakePruner{err: errors.New("locked")}
	s.PruneSessions(failing)
	assert.Equal(t, 1, failing.calls)
}
