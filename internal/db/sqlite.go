package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/yigit/coursedesk/internal/config"
)

// sqliteSchema is idempotent and applied on every open
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS courses (
	id          TEXT PRIMARY KEY,
	course_name TEXT NOT NULL,
	kind        TEXT NOT NULL,
	sessions    TEXT NOT NULL DEFAULT '[]',
	chat_id     TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	email             TEXT NOT NULL UNIQUE,
	university        TEXT NOT NULL,
	phone_number      TEXT NOT NULL,
	course_id         TEXT NOT NULL,
	selected_sessions TEXT NOT NULL DEFAULT '[]',
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_students_course_id ON students (course_id);

CREATE TABLE IF NOT EXISTS admin_users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL,
	last_login_at DATETIME
);
`

// SQLiteDB is a single-file (or in-memory) entity store
type SQLiteDB struct {
	DB *sqlx.DB
}

// NewSQLiteDB opens the database at path and creates the schema.
// Use ":memory:" for a throwaway store.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	conn, err := sqlx.Open("sqlite3", path+"?_foreign_keys=off&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection keeps in-memory databases shared and serialises writers.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	return &SQLiteDB{DB: conn}, nil
}

// NewSQLiteDBFromConfig opens the store configured under database.sqlite_path
func NewSQLiteDBFromConfig(cfg *config.Config) (*SQLiteDB, error) {
	return NewSQLiteDB(cfg.Database.SQLitePath)
}

// Driver implements Database
func (s *SQLiteDB) Driver() string { return config.DriverSQLite }

// Ping implements Database
func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close implements Database
func (s *SQLiteDB) Close() error {
	return s.DB.Close()
}
