// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli // import "website.app/v2/internal/cli"

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"website.app/v2/internal/cli/logger"
	"website.app/v2/internal/config"
	"website.app/v2/internal/logging"
	"website.app/v2/internal/storage"
	"website.app/v2/internal/version"
)

var (
	envFile   string
	yamlFile  string
	debugLogs bool

	logCloser io.Closer
)

var Cmd = cobra.Command{
	Use:   "website",
	Short: "Login and account pages backed by an external auth API",
	Long: `website serves the login page. It exchanges a typed email, or the
GitHub placeholder credential, for a token at AUTH_API_URL, fetches the user
profile with that token and keeps both in a Postgres app session.

Without a subcommand it runs the web daemon.`,
	Version: version.Version,

	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := NewDaemon().Run()
		if err != nil {
			slog.Error("Daemon failed", slog.Any("error", err))
		}
		return err
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

var configDumpCmd = cobra.Command{
	Use:   "config-dump",
	Short: "Print the daemon configuration, secrets masked",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		dumpConfig(cmd.OutOrStdout())
	},
}

var migrateCmd = cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the sessions schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions((*storage.Storage).Migrate)
	},
}

func init() {
	flags := Cmd.PersistentFlags()
	flags.StringVarP(&envFile, "config-file", "c", "",
		"read the environment from this .env file instead of the process")
	flags.StringVar(&yamlFile, "config-yaml", "",
		"YAML file with trusted_origins for login and logout forms")
	flags.BoolVarP(&debugLogs, "debug", "d", false,
		"log at debug level, overrides LOG_LEVEL")

	Cmd.AddCommand(&cleanupSessionsCmd, &configDumpCmd, &flushSessionsCmd,
		&healthCmd, &infoCmd, &migrateCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	// Errors of a subcommand aren't usage errors.
	cmd.SilenceUsage = true

	if err := config.LoadYAML(yamlFile, envFile); err != nil {
		return err
	}
	if debugLogs {
		config.Opts.SetLogLevel("debug")
	}

	closer, err := logger.InitializeDefaultLogger()
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}

func dumpConfig(w io.Writer) {
	fmt.Fprint(w, config.Opts)
	fmt.Fprintf(w, "# allowed origins: %s\n",
		strings.Join(config.Opts.AllowedOrigins(), " "))
	fmt.Fprintf(w, "# session lifetime: %s\n", config.Opts.SessionLifetime())
}

// withSessions runs fn with a storage, which is closed after fn returns.
func withSessions(fn func(*storage.Storage, context.Context) error) error {
	ctx := context.Background()
	store, err := makeStorage(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)
	return fn(store, ctx)
}

func makeStorage(ctx context.Context) (*storage.Storage, error) {
	log := logging.FromContext(ctx)
	if config.Opts.IsDefaultDatabaseURL() {
		log.Info("DATABASE_URL isn't set, using the default")
	}

	store, err := storage.New(ctx, config.Opts.DatabaseURL(), storage.Pool{
		MaxConns:     config.Opts.DatabaseMaxConns(),
		MinConns:     config.Opts.DatabaseMinConns(),
		ConnLifetime: config.Opts.DatabaseConnectionLifetime(),
	})
	if err != nil {
		return nil, err
	} else if err := store.Ping(ctx); err != nil {
		store.Close(ctx)
		return nil, err
	}
	return store, nil
}

func Execute() {
	if Cmd.Execute() != nil {
		os.Exit(1)
	}
}
