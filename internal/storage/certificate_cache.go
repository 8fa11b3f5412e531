// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package storage // import "website.app/v2/internal/storage"

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/acme/autocert"

	"website.app/v2/internal/logging"
)

// NewCertificateCache returns an [autocert.Cache] keeping account keys and
// certificates of CERT_DOMAIN in the acme_cache table, so every instance
// behind the same database shares them.
func (s *Storage) NewCertificateCache() autocert.Cache {
	return certificateCache{s}
}

type certificateCache struct{ *Storage }

func (self certificateCache) Get(ctx context.Context, key string,
) ([]byte, error) {
	var data []byte
	err := self.db.QueryRow(ctx,
		`SELECT data FROM acme_cache WHERE key = $1`, key).Scan(&data)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, autocert.ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("storage: get certificate %q: %w", key, err)
	}
	return data, nil
}

func (self certificateCache) Put(ctx context.Context, key string,
	data []byte,
) error {
	_, err := self.db.Exec(ctx, `
INSERT INTO acme_cache (key, data, updated_at) VALUES ($1, $2, now())
  ON CONFLICT (key) DO UPDATE SET data = excluded.data, updated_at = now()`,
		key, data)
	if err != nil {
		return fmt.Errorf("storage: put certificate %q: %w", key, err)
	}
	logging.FromContext(ctx).Info("ACME cache entry stored",
		slog.String("key", key), slog.Int("size", len(data)))
	return nil
}

// Delete of an unknown key isn't an error.
func (self certificateCache) Delete(ctx context.Context, key string) error {
	tag, err := self.db.Exec(ctx, `DELETE FROM acme_cache WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("storage: delete certificate %q: %w", key, err)
	}
	logging.FromContext(ctx).Debug("ACME cache entry deleted",
		slog.String("key", key), slog.Int64("rows", tag.RowsAffected()))
	return nil
}
