package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/mindsync/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLite opens a migrated in-memory SQLite database that is closed when the test ends
func NewSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(":memory:", database.PureSQLiteForeignKeys)), database.GormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
