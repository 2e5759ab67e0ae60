package utils

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/app", func(c *fiber.Ctx) error {
		return types.NewForbiddenError("Invalid course ID")
	})
	app.Get("/wrapped", func(c *fiber.Ctx) error {
		return types.NewInternalError("Error fetching tasks", errors.New("connection reset"))
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Too big")
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("secret detail")
	})
	app.Get("/ok", func(c *fiber.Ctx) error {
		return MessageOK(c, "done")
	})

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/app", http.StatusForbidden, "Invalid course ID"},
		{"/wrapped", http.StatusInternalServerError, "Error fetching tasks"},
		{"/fiber", http.StatusRequestEntityTooLarge, "Too big"},
		{"/plain", http.StatusInternalServerError, "Internal server error"},
		{"/ok", http.StatusOK, "done"},
		{"/missing", http.StatusNotFound, "Cannot GET /missing"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			var body MessageResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestPingService(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	assert.NoError(t, PingService("redis://"+addr, time.Second))
	assert.NoError(t, PingService("http://"+addr+"/health", time.Second))

	ln.Close()
	assert.Error(t, PingService("redis://"+addr, 200*time.Millisecond))
	assert.Error(t, PingService("://bad", time.Second))
}
