// Package databasetest provides migrated in-memory SQLite pools for tests.
package databasetest

import (
	"context"
	"testing"

	"github.com/isdelr/waitlist-be/internal/database"
)

// New returns a migrated in-memory SQLite pool that is closed when the test ends.
// The pool holds a single connection so every query sees the same memory database.
func New(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.New(database.DriverSQLite, ":memory:", 1)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
