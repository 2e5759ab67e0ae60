package services

import (
	"context"
	"errors"

	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/localnerve/mindsync/internal/types"
	"github.com/localnerve/mindsync/internal/validation"
)

// AuthService registers users, checks credentials and resolves session identities
type AuthService struct {
	store storage.Storage
}

// NewAuthService creates an AuthService over store
func NewAuthService(store storage.Storage) *AuthService {
	return &AuthService{store: store}
}

// Register creates the user with zeroed stats and default settings
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, types.NewInternalError("Registration failed", err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		FullName: in.FullName,
		Password: hash,
	}
	stats := models.NewUserStats(0)
	settings := models.DefaultSettings(0)

	err = s.store.Users().Register(ctx, user, &stats, &settings)
	switch {
	case errors.Is(err, storage.ErrUsernameExists):
		return nil, types.NewConflictError("Username already exists")
	case errors.Is(err, storage.ErrEmailExists):
		return nil, types.NewConflictError("Email already exists")
	case errors.Is(err, storage.ErrDuplicate):
		// lost a race against a concurrent registration
		return nil, types.NewConflictError("Username or email already exists")
	case err != nil:
		return nil, types.NewInternalError("Registration failed", err)
	}
	return user, nil
}

// Login returns the user when the credentials match
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByUsername(ctx, in.Username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.NewUnauthorizedError("Invalid username or password")
	}
	if err != nil {
		return nil, types.NewInternalError("Login failed", err)
	}
	if !VerifyPassword(in.Password, user.Password) {
		return nil, types.NewUnauthorizedError("Invalid username or password")
	}
	return user, nil
}

// Lookup resolves a session's user id to the full user record
func (s *AuthService) Lookup(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.NewUnauthorizedError("Unauthorized")
	}
	if err != nil {
		return nil, types.NewInternalError("Failed to load user", err)
	}
	return user, nil
}
