package database

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestDatabaseURLEnv names the Postgres instance used by integration tests
const TestDatabaseURLEnv = "SMARTSCORE_TEST_DATABASE_URL"

// SetupTestDB connects to the integration Postgres and applies the schema.
// The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv(TestDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s not set, skipping postgres integration test", TestDatabaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := NewDBFromURL(ctx, url)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if _, err := db.GetPool().Exec(ctx, "TRUNCATE predictions, matches"); err != nil {
		db.Close()
		t.Fatalf("failed to clean test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// SetupTestSQLite returns a migrated in-memory database closed at test end
func SetupTestSQLite(t *testing.T) *SQLiteDB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := OpenSQLite(ctx, MemoryPath)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to migrate sqlite: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
