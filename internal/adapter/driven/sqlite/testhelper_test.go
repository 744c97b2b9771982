package sqlite

import (
	"context"
	"database/sql"
	"net/url"
	"testing"
)

// setupTestDB returns a migrated in-memory database private to the test.
// Both pools point at the same shared-cache database named after the test.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := "file:" + url.PathEscape(t.Name()) + "?mode=memory&cache=shared&_pragma=busy_timeout(5000)"

	open := func(maxConns int) *sql.DB {
		conn, err := sql.Open("sqlite", dsn)
		if err != nil {
			t.Fatalf("open test db: %v", err)
		}
		conn.SetMaxOpenConns(maxConns)
		if err := conn.PingContext(context.Background()); err != nil {
			t.Fatalf("ping test db: %v", err)
		}
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}

	// Writer first: it keeps the shared database alive until cleanup.
	db := &DB{Writer: open(1), path: dsn}
	db.Reader = open(4)

	if err := RunMigrations(db.Writer); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}
