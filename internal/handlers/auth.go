package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/mindsync/internal/middleware"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/services"
	"github.com/localnerve/mindsync/internal/types"
	"github.com/localnerve/mindsync/internal/utils"
)

// AuthHandler handles registration, login and the session lifecycle
type AuthHandler struct {
	Auth     *services.AuthService
	Sessions *session.Store
}

// Register handles POST /api/auth/register
// @Summary Register a user
// @Description Creates the user with default stats and settings and starts a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.RegisterInput true "New user"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.MessageResponse
// @Failure 500 {object} utils.MessageResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in models.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	user, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.LoginInput true "Credentials"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.MessageResponse
// @Failure 401 {object} utils.MessageResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in models.LoginInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	user, err := h.Auth.Login(c.UserContext(), in)
	if err != nil {
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.MessageResponse
// @Failure 500 {object} utils.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.Sessions.Get(c)
	if err != nil {
		return internal("Error during logout", err)
	}
	if err := sess.Destroy(); err != nil {
		return internal("Error destroying session", err)
	}
	return utils.MessageOK(c, "Logged out successfully")
}

// Session handles GET /api/auth/session
// @Summary Current session user
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.MessageResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return types.NewUnauthorizedError("Not authenticated")
	}
	return c.JSON(user)
}

// startSession binds user to a fresh session id
func (h *AuthHandler) startSession(c *fiber.Ctx, user *models.User) error {
	sess, err := h.Sessions.Get(c)
	if err != nil {
		return internal("Failed to load session", err)
	}
	if err := sess.Regenerate(); err != nil {
		return internal("Failed to create session", err)
	}
	sess.Set(middleware.SessionUserKey, user.ID)
	if err := sess.Save(); err != nil {
		return internal("Failed to save session", err)
	}
	middleware.SetCurrentUser(c, user)
	return nil
}
