// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"testing"

	"dispend/internal/database"
	"dispend/internal/logger"

	"gorm.io/gorm"
)

// SetupTestManager opens an isolated in-memory SQLite database with the real
// schema migrations applied, so foreign-key cascades behave as in production.
func SetupTestManager(t *testing.T) *database.Manager {
	t.Helper()
	logger.Init("test")

	cfg := database.MemoryConfig(fmt.Sprintf("testdb%d", nextID()))
	mgr, err := database.NewManager(cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	if err := mgr.RunMigrations(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return mgr
}

// SetupTestDB returns the GORM handle of a fresh migrated test database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return SetupTestManager(t).DB()
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
