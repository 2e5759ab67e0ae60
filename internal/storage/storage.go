// Package storage is the persistence adapter. Two interchangeable
// implementations exist: Database (GORM, any supported SQL dialect) and
// Memory (process-local maps). Nothing above this package may depend on
// which one is active.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/localnerve/mindsync/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrUsernameExists is returned when registering a taken username
	ErrUsernameExists = errors.New("username already exists")
	// ErrEmailExists is returned when registering a taken email
	ErrEmailExists = errors.New("email already exists")
	// ErrDuplicate is returned for any other unique constraint violation
	ErrDuplicate = errors.New("duplicate key")
)

// Storage exposes typed repositories for every entity
type Storage interface {
	Users() UserRepository
	Courses() Repository[models.Course]
	Terms() TermRepository
	Tasks() TaskRepository
	StudySessions() StudySessionRepository
	Goals() Repository[models.Goal]
	Settings() SettingsRepository
	UserStats() UserStatsRepository

	// Ping checks the backing store is reachable
	Ping(ctx context.Context) error
	// Close releases the backing store
	Close() error
}

// Repository is the CRUD contract shared by every user-owned entity.
// List returns rows ordered by id.
type Repository[T any] interface {
	List(ctx context.Context, userID uint) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, row *T) error
	Delete(ctx context.Context, id uint) error
}

// UserRepository persists users
type UserRepository interface {
	Get(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Register creates the user together with its stats and settings rows.
	// The user's id is assigned and copied into stats and settings.
	Register(ctx context.Context, user *models.User, stats *models.UserStats, settings *models.Settings) error
}

// TermRepository adds active-term lookup
type TermRepository interface {
	Repository[models.Term]
	// Active returns the user's term whose date range contains at. The latest
	// start date wins when ranges overlap.
	Active(ctx context.Context, userID uint, at time.Time) (*models.Term, error)
}

// TaskRepository adds filtered task queries
type TaskRepository interface {
	Repository[models.Task]
	ListByType(ctx context.Context, userID uint, taskType string) ([]models.Task, error)
	ListByCourse(ctx context.Context, userID, courseID uint) ([]models.Task, error)
	// ListDueBetween returns tasks due within [from, to], ordered by due date ascending
	ListDueBetween(ctx context.Context, userID uint, from, to time.Time) ([]models.Task, error)
}

// StudySessionRepository adds start-time range queries
type StudySessionRepository interface {
	Repository[models.StudySession]
	// ListStartingBetween returns sessions starting within [from, to], ordered by start time
	ListStartingBetween(ctx context.Context, userID uint, from, to time.Time) ([]models.StudySession, error)
}

// SettingsRepository persists the single settings row of each user
type SettingsRepository interface {
	Get(ctx context.Context, userID uint) (*models.Settings, error)
	Create(ctx context.Context, settings *models.Settings) error
	Update(ctx context.Context, settings *models.Settings) error
}

// UserStatsRepository persists the single stats row of each user
type UserStatsRepository interface {
	Get(ctx context.Context, userID uint) (*models.UserStats, error)
	Create(ctx context.Context, stats *models.UserStats) error
	Update(ctx context.Context, stats *models.UserStats) error
	// ResetWeekly zeroes weekly hours for every user
	ResetWeekly(ctx context.Context) (int64, error)
	// ResetStreaks zeroes the streak of users whose last study date is before cutoff
	ResetStreaks(ctx context.Context, cutoff time.Time) (int64, error)
}
