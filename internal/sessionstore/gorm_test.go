package sessionstore

import (
	"testing"
	"time"

	"github.com/localnerve/mindsync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGormStorage(t *testing.T, now *time.Time) *GormStorage {
	t.Helper()
	s := NewGormStorage(testutil.NewSQLite(t))
	s.now = func() time.Time { return *now }
	return s
}

func TestGormStorageRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	s := newGormStorage(t, &now)

	got, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set("abc", []byte("one"), time.Hour))
	got, err = s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got)

	// upsert replaces the data
	require.NoError(t, s.Set("abc", []byte("two"), time.Hour))
	got, err = s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)

	require.NoError(t, s.Delete("abc"))
	got, err = s.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGormStorageEmptyKeys(t *testing.T) {
	now := time.Now()
	s := newGormStorage(t, &now)

	require.NoError(t, s.Set("", []byte("x"), 0))
	require.NoError(t, s.Set("k", nil, 0))
	require.NoError(t, s.Delete(""))

	got, err := s.Get("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGormStorageExpiry(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	s := newGormStorage(t, &now)

	require.NoError(t, s.Set("short", []byte("a"), time.Minute))
	require.NoError(t, s.Set("long", []byte("b"), 2*time.Hour))
	require.NoError(t, s.Set("forever", []byte("c"), 0))

	now = now.Add(time.Hour)

	got, err := s.Get("short")
	require.NoError(t, err)
	assert.Nil(t, got, "expired sessions are not returned")

	got, err = s.Get("forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), got)

	n, err := s.PruneExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = s.Get("long")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got)
}

func TestGormStorageReset(t *testing.T) {
	now := time.Now()
	s := newGormStorage(t, &now)

	require.NoError(t, s.Set("a", []byte("1"), time.Hour))
	require.NoError(t, s.Set("b", []byte("2"), time.Hour))
	require.NoError(t, s.Reset())

	for _, key := range []string{"a", "b"} {
		got, err := s.Get(key)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.NoError(t, s.Close())
}
