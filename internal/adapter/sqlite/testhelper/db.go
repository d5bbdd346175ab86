// Package testhelper provides a migrated on-disk SQLite database for
// repository and service tests.
package testhelper

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/ecoscan/wastecal/internal/adapter/sqlite"
	"github.com/ecoscan/wastecal/internal/config"
)

// SetupTestDB opens a fresh database file under t.TempDir, applies all
// migrations and returns it. The database is closed via t.Cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db := OpenTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := sqlite.Migrate(ctx, db, DiscardLogger()); err != nil {
		t.Fatalf("testhelper: migrate: %v", err)
	}

	return db
}

// OpenTestDB opens a fresh, unmigrated database file under t.TempDir.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sqlite.Open(ctx, config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		BusyTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("testhelper: open sqlite: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
