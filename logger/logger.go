// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

// Package logger contains logger API with slog wrapper to manage logging.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns wrapped slog logger with JSON output and the given level.
func New(w io.Writer, levelText string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelText)); err != nil {
		return &slog.Logger{}, err
	}

	logHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})

	return slog.New(logHandler), nil
}

// ExitWithError exits the service with the given exit code.
// It is meant to be deferred first in main, so that deferred
// cleanups run before the process terminates.
func ExitWithError(exitCode *int) {
	os.Exit(*exitCode)
}
