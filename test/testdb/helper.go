// Package testdb provides the shared database fixture for repository and
// analytics tests. Tests are skipped when TEST_DATABASE_URL is not set.
package testdb

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/selivandex/finpulse/internal/adapters/database"
)

var migrateOnce sync.Once

// TestDB wraps the sqlx pool used by a single test
type TestDB struct {
	DB *sqlx.DB
}

// Setup connects to the test database, applies migrations once per process,
// and truncates all tables so each test starts from an empty store.
func Setup(t *testing.T) *TestDB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	migrateOnce.Do(func() {
		if err := database.RunMigrations(conn.DB, migrationsPath()); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	})

	truncate(t, conn)

	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Logf("warning: failed to close test database: %v", err)
		}
	})

	return &TestDB{DB: conn}
}

// Exec executes SQL against the test database
func (tdb *TestDB) Exec(t *testing.T, query string, args ...interface{}) {
	t.Helper()

	if _, err := tdb.DB.Exec(query, args...); err != nil {
		t.Fatalf("failed to execute query: %v\nQuery: %s", err, query)
	}
}

// Count returns the result of a COUNT query
func (tdb *TestDB) Count(t *testing.T, query string, args ...interface{}) int {
	t.Helper()

	var count int
	if err := tdb.DB.QueryRow(query, args...).Scan(&count); err != nil {
		t.Fatalf("failed to count: %v\nQuery: %s", err, query)
	}

	return count
}

func truncate(t *testing.T, conn *sqlx.DB) {
	t.Helper()

	_, err := conn.Exec(`
		TRUNCATE post_tickers, post_industries, post_sectors,
		         posts, tickers, industries, sectors
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
