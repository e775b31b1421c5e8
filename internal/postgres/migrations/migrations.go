// Package migrations embeds the SQL schema and applies it in lexical order.
package migrations

import (
	"context"
	"embed"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
)

//go:embed *.sql
var migrationFS embed.FS

const createTrackingTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    name        VARCHAR(255) PRIMARY KEY,
    applied_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
)`

// Names returns the embedded migration files in the order they are applied
func Names() ([]string, error) {
	entries, err := migrationFS.ReadDir(".")
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read embedded migrations").
			Mark(ierr.ErrSystem)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the SQL of one embedded migration
func Read(name string) (string, error) {
	raw, err := migrationFS.ReadFile(name)
	if err != nil {
		return "", ierr.WithError(err).
			WithHintf("Migration %s not found", name).
			Mark(ierr.ErrNotFound)
	}
	return string(raw), nil
}

// Apply runs every embedded migration not yet recorded in schema_migrations.
// Each file runs in its own transaction together with its tracking row.
func Apply(ctx context.Context, db *sqlx.DB, log *logger.Logger) (int, error) {
	if _, err := db.ExecContext(ctx, createTrackingTable); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to create schema_migrations").
			Mark(ierr.ErrDatabase)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT name FROM schema_migrations`); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to read applied migrations").
			Mark(ierr.ErrDatabase)
	}
	done := make(map[string]struct{}, len(applied))
	for _, name := range applied {
		done[name] = struct{}{}
	}

	names, err := Names()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, name := range names {
		if _, ok := done[name]; ok {
			log.Debugw("migration already applied", "migration", name)
			continue
		}

		stmt, err := Read(name)
		if err != nil {
			return count, err
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return count, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return count, ierr.WithError(err).
				WithHintf("Migration %s failed", name).
				Mark(ierr.ErrDatabase)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback()
			return count, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		if err := tx.Commit(); err != nil {
			return count, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}

		log.Infow("migration applied", "migration", name)
		count++
	}

	return count, nil
}
