package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/localnerve/mindsync/internal/config"
	"github.com/localnerve/mindsync/internal/routes"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downStore struct {
	storage.Storage
}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func serve(t *testing.T, store storage.Storage) string {
	t.Helper()
	app := routes.New(routes.Options{
		Config: &config.Config{
			CORSOrigin:    "http://localhost:3000",
			Location:      time.UTC,
			DBType:        "memory",
			SessionSecret: config.DefaultSessionSecret,
			SessionStore:  "memory",
			SessionTTL:    time.Hour,
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

func TestRun(t *testing.T) {
	closed, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closedURL := "http://" + closed.Addr().String()
	require.NoError(t, closed.Close())

	tests := []struct {
		name       string
		url        string
		wantErr    bool
		wantOutput []string
	}{
		{
			name:       "healthy",
			url:        serve(t, storage.NewMemory()),
			wantOutput: []string{`"status": "healthy"`, `"database": "ok"`, `"sessions": "memory"`},
		},
		{
			name:       "database down",
			url:        serve(t, downStore{storage.NewMemory()}),
			wantErr:    true,
			wantOutput: []string{`"status": "unhealthy"`, `"database": "unreachable"`, "Database ping failed"},
		},
		{
			name:    "not listening",
			url:     closedURL,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run([]string{"-url", tt.url, "-timeout", "2s"}, &out)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if len(tt.wantOutput) == 0 {
				assert.Empty(t, out.String())
			}
			for _, want := range tt.wantOutput {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestRunUnhealthyWrapsSentinel(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-url", serve(t, downStore{storage.NewMemory()})}, &out)
	assert.ErrorIs(t, err, errUnhealthy)
}

func TestRunDefaultsToPort(t *testing.T) {
	t.Setenv("MINDSYNC_URL", "")
	t.Setenv("PORT", "1")
	var out bytes.Buffer
	err := run([]string{"-timeout", "500ms"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "localhost:1")
}
