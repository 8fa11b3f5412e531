package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"website.app/v2/internal/logging"
)

// Migrate applies every migration newer than the version recorded in the
// schema_version table. Each migration runs in its own transaction.
func (s *Storage) Migrate(ctx context.Context) error {
	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	log := logging.FromContext(ctx).With(
		slog.Int("from", current), slog.Int("to", schemaVersion))
	if current == schemaVersion {
		log.Debug("Database schema is up to date")
		return nil
	}
	log.Info("Migrating database schema")

	for v := current; v < schemaVersion; v++ {
		if err := s.applyVersion(ctx, v); err != nil {
			return err
		}
		log.Debug("migration applied", slog.Int("version", v+1))
	}
	return nil
}

// schemaVersion returns 0 for an empty database.
func (s *Storage) schemaVersion(ctx context.Context) (int, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT to_regclass('schema_version') IS NOT NULL`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("storage: find schema_version table: %w", err)
	} else if !exists {
		return 0, nil
	}

	var v int
	err = s.db.QueryRow(ctx, `SELECT version FROM schema_version`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("storage: read schema version: %w", err)
	}
	return v, nil
}

func (s *Storage) applyVersion(ctx context.Context, v int) error {
	next := v + 1
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, migrations[v]); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
		_, err := tx.Exec(ctx, `UPDATE schema_version SET version = $1`, next)
		if err != nil {
			return fmt.Errorf("update version: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: migration %d -> %d: %w", v, next, err)
	}
	return nil
}

// SchemaUpToDate returns an error if some migrations weren't applied yet.
func (s *Storage) SchemaUpToDate(ctx context.Context) error {
	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	if current < schemaVersion {
		return fmt.Errorf(
			"storage: schema v%d is behind v%d, run migrations first",
			current, schemaVersion)
	}
	return nil
}
