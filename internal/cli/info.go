// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli // import "website.app/v2/internal/cli"

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"website.app/v2/internal/version"
)

var infoCmd = cobra.Command{
	Use:     "version",
	Aliases: []string{"info"},
	Short:   "Show build information",
	Args:    cobra.ExactArgs(0),
	Run:     func(cmd *cobra.Command, args []string) { info(cmd.OutOrStdout()) },
}

func info(w io.Writer) {
	fmt.Fprintln(w, "Version:", version.Version)
	fmt.Fprintln(w, "Commit:", version.Commit)
	fmt.Fprintln(w, "Build Date:", version.BuildDate)
	fmt.Fprintln(w, "Go Version:", runtime.Version())
	fmt.Fprintln(w, "Compiler:", runtime.Compiler)
	fmt.Fprintln(w, "Arch:", runtime.GOARCH)
	fmt.Fprintln(w, "OS:", runtime.GOOS)
}
