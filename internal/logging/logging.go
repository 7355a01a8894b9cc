// Package logging builds the structured logger shared by the pktwalk
// command tree: slog fanned out to stderr and, optionally, a
// size-rotated log file.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger returned by New.
type Options struct {
	// FilePath, when non-empty, adds a rotated file sink alongside stderr.
	FilePath string
	// JSON selects slog's JSON handler over the default text handler.
	JSON bool
	// Level sets the minimum enabled log level.
	Level slog.Level
}

// New builds a *slog.Logger per Options. Every log line carries a "run"
// attribute so multiple invocations writing to the same rotated file can
// be told apart.
func New(opts Options, runID string) *slog.Logger {
	var w io.Writer = os.Stderr
	if opts.FilePath != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(handler).With("run", runID)
}
