package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory history database that is closed when
// the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, db.MemoryPath)
}

// NewTestFileDB opens a migrated history database in a fresh temp dir and
// returns its path, so a test can close and reopen it.
func NewTestFileDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history", "d0opt.db")
	return openTestDB(t, path), path
}

// ReopenTestDB opens path again, as a new process would.
func ReopenTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	return openTestDB(t, path)
}

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err, "opening test database %s", path)
	t.Cleanup(func() { database.Close() })
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
