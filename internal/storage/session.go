// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package storage // import "website.app/v2/internal/storage"

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"website.app/v2/internal/crypto"
	"website.app/v2/internal/logging"
	"website.app/v2/internal/model"
)

const sessionColumns = `id, data, created_at, updated_at`

// CreateAppSession stores data under a new random session ID.
func (s *Storage) CreateAppSession(ctx context.Context, data *model.SessionData,
) (*model.Session, error) {
	sess, err := s.querySession(ctx,
		`INSERT INTO sessions (id, data) VALUES ($1, $2) RETURNING `+
			sessionColumns,
		crypto.GenerateRandomString(32), data)
	if err != nil {
		return nil, fmt.Errorf("storage: create app session: %w", err)
	}
	return sess, nil
}

// AppSession returns nil without error for an unknown id.
func (s *Storage) AppSession(ctx context.Context, id string,
) (*model.Session, error) {
	sess, err := s.querySession(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("storage: fetch app session: %w", err)
	}
	return sess, nil
}

func (s *Storage) querySession(ctx context.Context, sql string, args ...any,
) (*model.Session, error) {
	rows, _ := s.db.Query(ctx, sql, args...)
	return pgx.CollectExactlyOneRow(rows,
		pgx.RowToAddrOfStructByName[model.Session])
}

// RemoveAppSession is called on logout. An absent session is already
// logged out.
func (s *Storage) RemoveAppSession(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("storage: remove app session: %w", err)
	}
	return nil
}

// FlushAllSessions logs everybody out.
func (s *Storage) FlushAllSessions(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `TRUNCATE sessions`); err != nil {
		return fmt.Errorf("storage: flush sessions: %w", err)
	}
	return nil
}

// CleanOldSessions removes sessions created more than lifetime ago and
// returns how many. Errors are logged only, the next run retries.
func (s *Storage) CleanOldSessions(ctx context.Context,
	lifetime time.Duration,
) int64 {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE created_at < $1`,
		time.Now().Add(-lifetime))
	if err != nil {
		logging.FromContext(ctx).Error("storage: clean old sessions",
			slog.Duration("lifetime", lifetime), slog.Any("error", err))
		return 0
	}
	return tag.RowsAffected()
}

func (s *Storage) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM sessions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("storage: count sessions: %w", err)
	}
	return n, nil
}
