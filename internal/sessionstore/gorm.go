// Package sessionstore provides fiber.Storage backends for the session
// middleware.
package sessionstore

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ fiber.Storage = (*GormStorage)(nil)

// GormStorage keeps sessions in the sessions table
type GormStorage struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStorage uses db, which must already have the sessions table migrated
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db, now: time.Now}
}

// Get returns nil, nil for a missing or expired key
func (s *GormStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	var row models.Session
	err := s.db.Where("id = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if row.Expired(s.now().UTC()) {
		return nil, nil
	}
	return row.Data, nil
}

// Set stores val under key. A zero exp never expires.
func (s *GormStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	row := models.Session{ID: key, Data: val}
	if exp > 0 {
		expiresAt := s.now().UTC().Add(exp)
		row.ExpiresAt = &expiresAt
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
	}).Create(&row).Error
}

func (s *GormStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.db.Where("id = ?", key).Delete(&models.Session{}).Error
}

// Reset removes every session
func (s *GormStorage) Reset() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Session{}).Error
}

// Close does nothing, the connection is owned by the caller
func (s *GormStorage) Close() error {
	return nil
}

// PruneExpired deletes expired sessions and reports how many were removed
func (s *GormStorage) PruneExpired() (int64, error) {
	result := s.db.Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UTC()).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
