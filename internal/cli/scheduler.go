package cli

import (
	"context"
	"log/slog"
	"time"
)

// cleanupScheduler removes expired sessions every d until ctx is done.
func cleanupScheduler(ctx context.Context, store sessionCleaner,
	d time.Duration,
) {
	slog.Info("Sessions cleanup scheduled", slog.Duration("every", d))
	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Sessions cleanup stopped",
				slog.Any("reason", context.Cause(ctx)))
			return
		case <-ticker.C:
			runCleanupTasks(ctx, store)
		}
	}
}
