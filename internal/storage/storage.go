// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package storage // import "website.app/v2/internal/storage"

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"website.app/v2/internal/logging"
)

// Pool sizes the connection pool. Zero values keep pgx defaults.
type Pool struct {
	MaxConns     int
	MinConns     int
	ConnLifetime time.Duration
}

func (p Pool) apply(c *pgxpool.Config) {
	if p.MaxConns > 0 {
		c.MaxConns = int32(p.MaxConns)
	}
	c.MinConns = int32(p.MinConns)
	if p.ConnLifetime > 0 {
		c.MaxConnLifetime = p.ConnLifetime
	}
}

// New connects lazily, the pool dials on first use. Every query is traced
// into the [TraceStat] of its context, if any.
func New(ctx context.Context, dsn string, pool Pool) (*Storage, error) {
	c, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: parse DATABASE_URL: %w", err)
	}
	pool.apply(c)
	c.ConnConfig.Tracer = queryTracer{}

	db, err := pgxpool.NewWithConfig(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage: create pool: %w", err)
	}
	return &Storage{db: db}, nil
}

const pingTimeout = 5 * time.Second

// Storage keeps app sessions and the ACME cache in PostgreSQL.
type Storage struct {
	db *pgxpool.Pool
}

// Close closes the pool after logging how busy it was.
func (s *Storage) Close(ctx context.Context) {
	stat := s.db.Stat()
	logging.FromContext(ctx).Info("Closing database pool",
		slog.Int64("acquired", stat.AcquireCount()),
		slog.Duration("waited", stat.AcquireDuration()),
		slog.Int64("opened_conns", stat.NewConnsCount()))
	s.db.Close()
}

// Ping checks the database answers. It's enough before migrations.
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("storage: ping: %w", err)
	}
	return nil
}

// Healthcheck checks the database answers and has the sessions table. A
// database which was never migrated can't serve logins.
func (s *Storage) Healthcheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	var ok bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT FROM sessions)`).Scan(&ok)
	if err != nil {
		return fmt.Errorf("storage: sessions table unavailable: %w", err)
	}
	return nil
}
