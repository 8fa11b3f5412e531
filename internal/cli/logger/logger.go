// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package logger // import "website.app/v2/internal/cli/logger"

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"website.app/v2/internal/config"
)

// InitializeDefaultLogger configures the default slog logger from
// config.Opts. The returned closer is nil when the log goes to stdout or
// stderr.
func InitializeDefaultLogger() (io.Closer, error) {
	h, closer, err := NewHandler(config.Opts.LogFile(), config.Opts.LogFormat(),
		config.Opts.LogLevel(), config.Opts.LogDateTime())
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(h))
	return closer, nil
}

func NewHandler(logFile, format, level string, logTime bool,
) (slog.Handler, io.Closer, error) {
	w, closer, err := openLogFile(logFile)
	if err != nil {
		return nil, nil, err
	}
	return newFormatHandler(w, format, ParseLevel(level), logTime), closer, nil
}

func openLogFile(logFile string) (io.Writer, io.Closer, error) {
	switch logFile {
	case "", "stderr":
		return os.Stderr, nil, nil
	case "stdout":
		return os.Stdout, nil, nil
	}

	f, err := NewLogFile(logFile)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: unable to open log file %q: %w",
			logFile, err)
	}
	return f, f, nil
}

func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func withoutTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

func newFormatHandler(w io.Writer, format string, level slog.Level,
	logTime bool,
) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if !logTime {
		opts.ReplaceAttr = withoutTime
	}

	switch format {
	case "human":
		return NewHumanHandler(w, opts, logTime)
	case "json":
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
