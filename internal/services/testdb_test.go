package services

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// newTestDB opens a fresh in-memory database with the application schema.
// The pool is pinned to one connection so the memory database survives for
// the whole test.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	const schema = `
	CREATE TABLE users (
		id TEXT NOT NULL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE TABLE memes (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		s3_key TEXT,
		description TEXT,
		privacy TEXT NOT NULL,
		file_type TEXT,
		file_size_bytes INTEGER,
		created_at TIMESTAMP NOT NULL
	);
	CREATE TABLE activity_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT,
		details TEXT,
		created_at TIMESTAMP NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}
