package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewSQLiteDB opens a SQLite database at path, for local runs and tests.
// ":memory:" gives a private in-memory database.
func NewSQLiteDB(path string, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single connection keeps an in-memory database alive and serialises writers.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	log.WithField("path", path).Info("opened SQLite database")
	return db, nil
}
