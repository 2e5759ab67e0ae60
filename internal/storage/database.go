package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/mindsync/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Database is the GORM-backed Storage
type Database struct {
	db *gorm.DB

	users         *dbUsers
	courses       *dbCourses
	terms         *dbTerms
	tasks         *dbTasks
	studySessions *dbStudySessions
	goals         *dbRepo[models.Goal]
	settings      *dbSettings
	userStats     *dbUserStats
}

// NewDatabase wraps an open GORM connection
func NewDatabase(db *gorm.DB) *Database {
	return &Database{
		db:            db,
		users:         &dbUsers{db: db},
		courses:       &dbCourses{dbRepo[models.Course]{db: db}},
		terms:         &dbTerms{dbRepo[models.Term]{db: db}},
		tasks:         &dbTasks{dbRepo[models.Task]{db: db}},
		studySessions: &dbStudySessions{dbRepo[models.StudySession]{db: db}},
		goals:         &dbRepo[models.Goal]{db: db},
		settings:      &dbSettings{db: db},
		userStats:     &dbUserStats{db: db},
	}
}

func (s *Database) Users() UserRepository                 { return s.users }
func (s *Database) Courses() Repository[models.Course]    { return s.courses }
func (s *Database) Terms() TermRepository                 { return s.terms }
func (s *Database) Tasks() TaskRepository                 { return s.tasks }
func (s *Database) StudySessions() StudySessionRepository { return s.studySessions }
func (s *Database) Goals() Repository[models.Goal]        { return s.goals }
func (s *Database) Settings() SettingsRepository          { return s.settings }
func (s *Database) UserStats() UserStatsRepository        { return s.userStats }

// DB exposes the underlying connection
func (s *Database) DB() *gorm.DB {
	return s.db
}

// Ping checks database connectivity
func (s *Database) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *Database) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps GORM errors onto the storage sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// dbRepo implements Repository for any user-owned model
type dbRepo[T any] struct {
	db *gorm.DB
}

func (r *dbRepo[T]) List(ctx context.Context, userID uint) ([]T, error) {
	rows := []T{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&rows).Error
	return rows, translate(err)
}

func (r *dbRepo[T]) Get(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *dbRepo[T]) Create(ctx context.Context, row *T) error {
	return translate(r.db.WithContext(ctx).Create(row).Error)
}

func (r *dbRepo[T]) Update(ctx context.Context, row *T) error {
	return translate(r.db.WithContext(ctx).Save(row).Error)
}

func (r *dbRepo[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type dbUsers struct {
	db *gorm.DB
}

func (r *dbUsers) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *dbUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *dbUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *dbUsers) Register(ctx context.Context, user *models.User, stats *models.UserStats, settings *models.Settings) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameExists
		}
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailExists
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}
		stats.UserID = user.ID
		if err := tx.Create(stats).Error; err != nil {
			return fmt.Errorf("failed to create user stats: %w", err)
		}
		settings.UserID = user.ID
		if err := tx.Create(settings).Error; err != nil {
			return fmt.Errorf("failed to create settings: %w", err)
		}
		return nil
	})
	return translate(err)
}

// detachColumn nulls column on every row of model that points at id
func detachColumn(tx *gorm.DB, model any, column string, id uint) error {
	return tx.Model(model).Where(column+" = ?", id).Update(column, nil).Error
}

type dbCourses struct {
	dbRepo[models.Course]
}

// Delete nulls the course reference of tasks, study sessions and goals before removing the course
func (r *dbCourses) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Task{}, &models.StudySession{}, &models.Goal{}} {
			if err := detachColumn(tx, model, "course_id", id); err != nil {
				return translate(err)
			}
		}
		return (&dbRepo[models.Course]{db: tx}).Delete(ctx, id)
	})
}

type dbTerms struct {
	dbRepo[models.Term]
}

// Delete nulls the term reference of courses before removing the term
func (r *dbTerms) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := detachColumn(tx, &models.Course{}, "term_id", id); err != nil {
			return translate(err)
		}
		return (&dbRepo[models.Term]{db: tx}).Delete(ctx, id)
	})
}

func (r *dbTerms) Active(ctx context.Context, userID uint, at time.Time) (*models.Term, error) {
	// stored times are UTC and sqlite compares them as text
	at = at.UTC()
	var term models.Term
	err := r.db.WithContext(ctx).
		Clauses(hints.CommentBefore("select", "mindsync:active_term")).
		Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, at, at).
		Order("start_date DESC, id").
		First(&term).Error
	if err != nil {
		return nil, translate(err)
	}
	return &term, nil
}

type dbTasks struct {
	dbRepo[models.Task]
}

func (r *dbTasks) ListByType(ctx context.Context, userID uint, taskType string) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND task_type = ?", userID, taskType).
		Order("id").
		Find(&tasks).Error
	return tasks, translate(err)
}

func (r *dbTasks) ListByCourse(ctx context.Context, userID, courseID uint) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("id").
		Find(&tasks).Error
	return tasks, translate(err)
}

func (r *dbTasks) ListDueBetween(ctx context.Context, userID uint, from, to time.Time) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).
		Clauses(hints.CommentBefore("select", "mindsync:upcoming_tasks")).
		Where("user_id = ? AND due_date IS NOT NULL AND due_date >= ? AND due_date <= ?", userID, from.UTC(), to.UTC()).
		Order("due_date ASC, id").
		Find(&tasks).Error
	return tasks, translate(err)
}

type dbStudySessions struct {
	dbRepo[models.StudySession]
}

func (r *dbStudySessions) ListStartingBetween(ctx context.Context, userID uint, from, to time.Time) ([]models.StudySession, error) {
	sessions := []models.StudySession{}
	err := r.db.WithContext(ctx).
		Clauses(hints.CommentBefore("select", "mindsync:sessions_for_day")).
		Where("user_id = ? AND start_time >= ? AND start_time <= ?", userID, from.UTC(), to.UTC()).
		Order("start_time ASC, id").
		Find(&sessions).Error
	return sessions, translate(err)
}

type dbSettings struct {
	db *gorm.DB
}

func (r *dbSettings) Get(ctx context.Context, userID uint) (*models.Settings, error) {
	var settings models.Settings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

func (r *dbSettings) Create(ctx context.Context, settings *models.Settings) error {
	return translate(r.db.WithContext(ctx).Create(settings).Error)
}

func (r *dbSettings) Update(ctx context.Context, settings *models.Settings) error {
	return translate(r.db.WithContext(ctx).Save(settings).Error)
}

type dbUserStats struct {
	db *gorm.DB
}

func (r *dbUserStats) Get(ctx context.Context, userID uint) (*models.UserStats, error) {
	var stats models.UserStats
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, translate(err)
	}
	return &stats, nil
}

func (r *dbUserStats) Create(ctx context.Context, stats *models.UserStats) error {
	return translate(r.db.WithContext(ctx).Create(stats).Error)
}

func (r *dbUserStats) Update(ctx context.Context, stats *models.UserStats) error {
	return translate(r.db.WithContext(ctx).Save(stats).Error)
}

func (r *dbUserStats) ResetWeekly(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UserStats{}).
		Where("weekly_hours_studied <> ?", 0).
		Update("weekly_hours_studied", 0)
	return result.RowsAffected, translate(result.Error)
}

func (r *dbUserStats) ResetStreaks(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UserStats{}).
		Where("streak_days <> ? AND (last_study_date IS NULL OR last_study_date < ?)", 0, cutoff).
		Update("streak_days", 0)
	return result.RowsAffected, translate(result.Error)
}
