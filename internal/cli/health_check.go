// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli // import "website.app/v2/internal/cli"

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"website.app/v2/internal/config"
)

var flagHealthTimeout time.Duration

var healthCmd = cobra.Command{
	Use:   "healthcheck [auto|endpoint]",
	Short: `Perform a health check on the given endpoint`,

	Long: `Perform a health check on the given endpoint.

Without an endpoint, or with "auto", the endpoint is built from LISTEN_ADDR
and BASE_URL.
`,

	Example: `
$ website healthcheck
$ website healthcheck http://127.0.0.1:8080/healthcheck
`,

	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "auto"
		if len(args) > 0 {
			endpoint = args[0]
		}
		return doHealthCheck(cmd.Context(), endpoint, flagHealthTimeout)
	},
}

func init() {
	healthCmd.Flags().DurationVar(&flagHealthTimeout, "timeout", 3*time.Second,
		"Give up after this time")
}

func healthCheckEndpoint(endpoint string) string {
	if endpoint != "auto" {
		return endpoint
	}
	return "http://" + config.Opts.ListenAddr() + config.Opts.BasePath() +
		"/healthcheck"
}

func doHealthCheck(ctx context.Context, endpoint string, timeout time.Duration,
) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint = healthCheckEndpoint(endpoint)
	slog.Debug("Executing health check request",
		slog.String("endpoint", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("health check request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failure: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status code %d",
			resp.StatusCode)
	}
	slog.Debug("Health check is passing")
	return nil
}
