// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli // import "website.app/v2/internal/cli"

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"website.app/v2/internal/storage"
)

var flagFlushYes bool

var flushSessionsCmd = cobra.Command{
	Use:   "flush-sessions",
	Short: "Flush all sessions (disconnect users)",
	Args:  cobra.ExactArgs(0),

	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagFlushYes && term.IsTerminal(int(os.Stdin.Fd())) {
			ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
				"Flush all sessions and disconnect all users?")
			if err != nil {
				return err
			} else if !ok {
				return nil
			}
		}

		return withSessions(
			func(store *storage.Storage, ctx context.Context) error {
				return flushSessions(ctx, cmd.OutOrStdout(), store)
			})
	},
}

func init() {
	flushSessionsCmd.Flags().BoolVarP(&flagFlushYes, "yes", "y", false,
		"Don't ask for confirmation")
}

type sessionFlusher interface {
	FlushAllSessions(ctx context.Context) error
}

func flushSessions(ctx context.Context, w io.Writer, store sessionFlusher,
) error {
	fmt.Fprintln(w, "Flushing all sessions (disconnect users)")
	if err := store.FlushAllSessions(ctx); err != nil {
		return err
	}
	return nil
}

// confirm asks a yes/no question. Only "y" and "yes" are a yes.
func confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	fmt.Fprint(w, question+" [y/N] ")
	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
