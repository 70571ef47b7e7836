package db

import "context"

// Database is the lifecycle surface shared by every entity store backend
type Database interface {
	Driver() string
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Database = (*PostgresDB)(nil)
	_ Database = (*MongoDB)(nil)
	_ Database = (*SQLiteDB)(nil)
)
