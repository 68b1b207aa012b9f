// package testing contains shared testing utilities
package testing

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/desertthunder/timetab/internal/shared"
)

// MustOpenDB creates an in-memory SQLite database with all migrations applied.
// The connection is closed when the test finishes.
func MustOpenDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// A second pool connection would see a different empty in-memory database.
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// MustOpenFileDB creates a migrated SQLite database backed by a temp file, for
// tests that need multiple connections sharing one store. A write-ahead log
// and a busy timeout keep concurrent writers from tripping over each other.
func MustOpenFileDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "timetab_test.db")
	db, err := shared.NewDatabase(path + "?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// MustExec runs a statement and fails the test on error.
func MustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()

	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("failed to exec %q: %v", query, err)
	}
}
