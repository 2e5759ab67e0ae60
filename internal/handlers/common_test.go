package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/localnerve/mindsync/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	now := time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC)

	day, err := parseDay("", tokyo, now)
	require.NoError(t, err)
	assert.Equal(t, 16, day.Day(), "now is already the 16th in Tokyo")

	day, err = parseDay("2026-04-01", tokyo, now)
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 4, 1, 0, 0, 0, 0, tokyo).Equal(day))
	assert.Equal(t, 1, day.Day())

	day, err = parseDay("2026-04-01T18:00:00Z", tokyo, now)
	require.NoError(t, err)
	assert.Equal(t, 2, day.Day())

	_, err = parseDay("01/04/2026", tokyo, now)
	appErr, ok := types.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, types.KindValidation, appErr.Kind)
	assert.Equal(t, "Invalid date", appErr.Message)
}

func TestDayBounds(t *testing.T) {
	from, to := dayBounds(time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC), time.UTC)
	assertInstant(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), from)
	assertInstant(t, time.Date(2026, 3, 15, 23, 59, 59, 999_000_000, time.UTC), to)

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 8 March 2026 is 23 hours long in New York
	from, to = dayBounds(time.Date(2026, 3, 8, 12, 0, 0, 0, ny), ny)
	assertInstant(t, time.Date(2026, 3, 8, 5, 0, 0, 0, time.UTC), from)
	assertInstant(t, time.Date(2026, 3, 9, 3, 59, 59, 999_000_000, time.UTC), to)
	assert.Equal(t, time.UTC, from.Location())
}

func assertInstant(t *testing.T, want, got time.Time) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

func TestUpcomingDays(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: DefaultUpcomingDays},
		{raw: "0", want: 0},
		{raw: "14", want: 14},
		{raw: "3660", want: MaxUpcomingDays},
		{raw: "100000", want: MaxUpcomingDays},
		{raw: "9223372036854775807", want: MaxUpcomingDays},
		{raw: "99999999999999999999999", want: MaxUpcomingDays},
		{raw: "-1", wantErr: true},
		{raw: "-99999999999999999999999", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "3.5", wantErr: true},
		{raw: " 7", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := upcomingDays(tt.raw)
			if tt.wantErr {
				var appErr *types.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, http.StatusBadRequest, appErr.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
