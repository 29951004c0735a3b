// Package logging constructs the process-wide logger. clipkeeper is an
// interactive tool, so logs go to stderr and stay out of the prompt
// flow on stdout.
package logging

import (
	"log/slog"
	"os"
)

// Options describes logger construction parameters.
type Options struct {
	// Quiet suppresses informational output (--no-info).
	Quiet bool
}

// New builds a text slog logger at info level, or warn when quiet.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Quiet {
		level = slog.LevelWarn
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
