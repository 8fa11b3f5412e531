// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli // import "website.app/v2/internal/cli"

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"website.app/v2/internal/config"
	"website.app/v2/internal/logging"
	"website.app/v2/internal/storage"
)

var cleanupSessionsCmd = cobra.Command{
	Use:     "cleanup-sessions",
	Aliases: []string{"run-cleanup-tasks"},
	Short:   "Delete app sessions older than SESSION_LIFETIME_DAYS",
	Args:    cobra.ExactArgs(0),

	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(
			func(store *storage.Storage, ctx context.Context) error {
				runCleanupTasks(ctx, store)
				return nil
			})
	},
}

type sessionCleaner interface {
	CleanOldSessions(ctx context.Context, lifetime time.Duration) int64
}

func runCleanupTasks(ctx context.Context, store sessionCleaner) {
	startTime := time.Now()
	removed := store.CleanOldSessions(ctx, config.Opts.SessionLifetime())
	logging.FromContext(ctx).Info("Sessions cleanup completed",
		slog.Int64("removed", removed),
		slog.Duration("elapsed", time.Since(startTime)))
}
