package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/types"
)

const (
	// SessionUserKey is the session field holding the authenticated user id
	SessionUserKey = "userId"

	localsUser = "user"
)

// IdentityLookup resolves the user id stored in a session to the user record
type IdentityLookup func(ctx context.Context, userID uint) (*models.User, error)

// Identify resolves the session once per request and stores the user in
// Locals. Anonymous requests pass through untouched.
func Identify(store *session.Store, lookup IdentityLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return types.NewInternalError("Failed to load session", err)
		}

		userID, ok := sess.Get(SessionUserKey).(uint)
		if !ok || userID == 0 {
			return c.Next()
		}

		user, err := lookup(c.UserContext(), userID)
		if err != nil {
			if appErr, ok := types.AsAppError(err); ok && appErr.Kind == types.KindUnauthorized {
				// user was deleted after the session was issued
				return c.Next()
			}
			return err
		}

		c.Locals(localsUser, user)
		return c.Next()
	}
}

// RequireAuthenticated rejects requests without a resolved identity
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return types.NewUnauthorizedError("Unauthorized")
		}
		return c.Next()
	}
}

// CurrentUser returns the identity resolved by Identify, or nil
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUser).(*models.User)
	return user
}

// SetCurrentUser stores user as the request identity
func SetCurrentUser(c *fiber.Ctx, user *models.User) {
	c.Locals(localsUser, user)
}
