package logging

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts zerolog to Logger. Text format uses the console writer.
type ZerologLogger struct {
	l zerolog.Logger
}

func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

func newZerolog(opts Options) (*ZerologLogger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var zl zerolog.Logger
	switch strings.ToLower(opts.Format) {
	case "", FormatJSON:
		zl = zerolog.New(opts.Output)
	case FormatText:
		zl = zerolog.New(zerolog.ConsoleWriter{Out: opts.Output, NoColor: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return NewZerologLogger(zl.With().Timestamp().Logger().Level(level)), nil
}

func (z *ZerologLogger) Debug(_ context.Context, msg string, args ...any) {
	z.l.Debug().Fields(args).Msg(msg)
}

func (z *ZerologLogger) Info(_ context.Context, msg string, args ...any) {
	z.l.Info().Fields(args).Msg(msg)
}

func (z *ZerologLogger) Warn(_ context.Context, msg string, args ...any) {
	z.l.Warn().Fields(args).Msg(msg)
}

func (z *ZerologLogger) Error(_ context.Context, msg string, args ...any) {
	z.l.Error().Fields(args).Msg(msg)
}

func (z *ZerologLogger) With(args ...any) Logger {
	return &ZerologLogger{l: z.l.With().Fields(args).Logger()}
}
