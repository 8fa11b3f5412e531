// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli // import "website.app/v2/internal/cli"

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"website.app/v2/internal/auth"
	"website.app/v2/internal/config"
	"website.app/v2/internal/http/server"
	"website.app/v2/internal/metric"
	"website.app/v2/internal/storage"
	"website.app/v2/internal/ui/static"
)

const shutdownTimeout = 5 * time.Second

func NewDaemon() *Daemon { return &Daemon{} }

// Daemon serves the login pages and expires old sessions in background,
// until it gets SIGTERM or an interrupt.
type Daemon struct {
	store *storage.Storage
	web   *server.Server
}

func (self *Daemon) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM,
		os.Interrupt)
	defer stop()

	slog.Info("Starting website daemon",
		slog.String("base_url", config.Opts.BaseURL()),
		slog.String("auth_api", config.Opts.AuthAPIURL()))

	if err := self.prepare(ctx); err != nil {
		return err
	}
	defer self.store.Close(context.Background())

	g, ctx := errgroup.WithContext(ctx)
	self.web.Start(g)
	if config.Opts.HasMaintenanceMode() {
		slog.Info("Maintenance mode, sessions cleanup disabled")
	} else {
		g.Go(func() error {
			cleanupScheduler(ctx, self.store, config.Opts.CleanupFrequency())
			return nil
		})
	}

	<-ctx.Done()
	self.shutdown()
	if err := g.Wait(); err != nil {
		return fmt.Errorf("daemon stopped with error: %w", err)
	}
	slog.Info("Daemon stopped")
	return nil
}

// prepare connects to the database, checks its schema and builds the web
// server. Nothing is served yet.
func (self *Daemon) prepare(ctx context.Context) error {
	store, err := makeStorage(ctx)
	if err != nil {
		return err
	}
	self.store = store

	if err := self.prepareSessions(ctx); err != nil {
		store.Close(ctx)
		return err
	}

	web, err := server.New(store, auth.NewFromConfig())
	if err != nil {
		store.Close(ctx)
		return err
	}
	self.web = web

	if config.Opts.HasMetricsCollector() {
		metric.RegisterMetrics(store)
	}
	return nil
}

func (self *Daemon) prepareSessions(ctx context.Context) error {
	if config.Opts.RunMigrations() {
		if err := self.store.Migrate(ctx); err != nil {
			return err
		}
	}
	if err := self.store.SchemaUpToDate(ctx); err != nil {
		return err
	}

	if err := static.Init(ctx); err != nil {
		return fmt.Errorf("prepare static files: %w", err)
	}
	return nil
}

func (self *Daemon) shutdown() {
	slog.Info("Shutting down gracefully", slog.Duration("timeout",
		shutdownTimeout))
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := self.web.Shutdown(ctx); err != nil {
		slog.Error("web server didn't stop in time", slog.Any("error", err))
	}
}
