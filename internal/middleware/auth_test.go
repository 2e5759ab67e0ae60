package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/mindsync/internal/middleware"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/types"
	"github.com/localnerve/mindsync/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "sessionId"

func lookupFrom(users map[uint]*models.User) middleware.IdentityLookup {
	return func(_ context.Context, id uint) (*models.User, error) {
		if id == 99 {
			return nil, errors.New("database unavailable")
		}
		user, ok := users[id]
		if !ok {
			return nil, types.NewUnauthorizedError("User not found")
		}
		return user, nil
	}
}

// newTestApp mounts /login/:id to bind a session and /whoami behind RequireAuthenticated
func newTestApp(lookup middleware.IdentityLookup) *fiber.App {
	store := session.New(session.Config{KeyLookup: "cookie:" + cookieName})
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})

	app.Get("/login/:id", func(c *fiber.Ctx) error {
		id, _ := strconv.Atoi(c.Params("id"))
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		sess.Set(middleware.SessionUserKey, uint(id))
		return sess.Save()
	})

	app.Use(middleware.Identify(store, lookup))
	app.Get("/public", func(c *fiber.Ctx) error {
		if user := middleware.CurrentUser(c); user != nil {
			return c.SendString(user.Username)
		}
		return c.SendString("anonymous")
	})
	app.Get("/whoami", middleware.RequireAuthenticated(), func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentUser(c).Username)
	})
	return app
}

func login(t *testing.T, app *fiber.App, id int) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login/"+strconv.Itoa(id), nil))
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			return c.Value
		}
	}
	t.Fatal("no session cookie issued")
	return ""
}

func get(t *testing.T, app *fiber.App, path, cookie string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := make([]byte, 512)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestIdentify(t *testing.T) {
	app := newTestApp(lookupFrom(map[uint]*models.User{
		1: {ID: 1, Username: "alice"},
	}))

	status, body := get(t, app, "/public", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body)

	status, body = get(t, app, "/public", "not-a-session")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body)

	cookie := login(t, app, 1)
	status, body = get(t, app, "/public", cookie)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body)

	status, body = get(t, app, "/whoami", cookie)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body)
}

func TestIdentifyDeletedUser(t *testing.T) {
	app := newTestApp(lookupFrom(map[uint]*models.User{}))
	cookie := login(t, app, 7)

	status, body := get(t, app, "/public", cookie)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body)

	status, body = get(t, app, "/whoami", cookie)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, body)
}

func TestIdentifyLookupFailure(t *testing.T) {
	app := newTestApp(lookupFrom(map[uint]*models.User{}))
	cookie := login(t, app, 99)

	status, body := get(t, app, "/public", cookie)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"message":"Internal server error"}`, body)
}
