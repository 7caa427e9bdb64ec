// Package logging defines a minimal structured-logging interface used across
// the checker. Implementations wrap slog or zerolog.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "task finished", "method", "putflag", "result", "OK")
type Logger interface {
	// Debug logs protocol-level detail (raw commands and replies).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

const (
	BackendSlog    = "slog"
	BackendZerolog = "zerolog"

	FormatJSON = "json"
	FormatText = "text"
)

// Options selects the logging backend.
type Options struct {
	Backend string
	Level   string
	Format  string
	Output  io.Writer
}

// New builds a Logger for the requested backend. Output defaults to stdout.
func New(opts Options) (Logger, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendSlog:
		l, err := newSlog(opts)
		if err != nil {
			return nil, err
		}
		return l, nil
	case BackendZerolog:
		l, err := newZerolog(opts)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() Logger {
	l, _ := newSlog(Options{Output: io.Discard, Format: FormatText})
	return l
}
