package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/coursedesk/internal/db"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

//go:embed sql/*.sql
var embedded embed.FS

// Migrator applies versioned SQL files to PostgreSQL
type Migrator struct {
	db    *db.PostgresDB
	files fs.FS
	dir   string
}

// NewMigrator creates a migrator over the embedded migration set
func NewMigrator(database *db.PostgresDB) *Migrator {
	return &Migrator{db: database, files: embedded, dir: "sql"}
}

func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	_, err := m.db.Pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func isMigrationApplied(ctx context.Context, tx pgx.Tx, version string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// versionOf extracts the version prefix, e.g. "001_init.sql" => "001"
func versionOf(filename string) string {
	return strings.SplitN(filename, "_", 2)[0]
}

// Migrate applies every pending migration in filename order. Each file runs
// in its own transaction together with its bookkeeping row.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	entries, err := fs.ReadDir(m.files, m.dir)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := m.apply(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, name string) error {
	content, err := fs.ReadFile(m.files, path.Join(m.dir, name))
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", name, err)
	}
	version := versionOf(name)

	return m.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		applied, err := isMigrationApplied(ctx, tx, version)
		if err != nil {
			return err
		}
		if applied {
			logger.Debug().Str("migration", name).Msg("Migration already applied, skipping")
			return nil
		}

		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", name, err)
		}

		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`, version, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}

		logger.Info().Str("migration", name).Msg("Migration applied")
		return nil
	})
}
