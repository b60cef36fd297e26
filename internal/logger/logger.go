// Package logger provides structured logging for the dashboard service and tools.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides structured logging functionality.
type Logger struct {
	internal zerolog.Logger
}

// NewLogger creates a JSON logger on stderr with the specified level.
func NewLogger(level string) *Logger {
	return NewLoggerWithWriter(level, "json", os.Stderr)
}

// NewLoggerWithWriter creates a logger writing to w. Format "console" gives
// human-readable output; anything else is JSON.
func NewLoggerWithWriter(level, format string, w io.Writer) *Logger {
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	internal := zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()

	return &Logger{internal: internal}
}

// ParseLevel maps debug, info, warn and error to zerolog levels. Unknown values are info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Info logs an info level message. args are alternating keys and values.
func (l *Logger) Info(msg string, args ...any) {
	l.internal.Info().Fields(args).Msg(msg)
}

// Error logs an error level message.
func (l *Logger) Error(msg string, args ...any) {
	l.internal.Error().Fields(args).Msg(msg)
}

// Debug logs a debug level message.
func (l *Logger) Debug(msg string, args ...any) {
	l.internal.Debug().Fields(args).Msg(msg)
}

// Warn logs a warning level message.
func (l *Logger) Warn(msg string, args ...any) {
	l.internal.Warn().Fields(args).Msg(msg)
}

// With creates a child logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{internal: l.internal.With().Fields(args).Logger()}
}

// Zerolog exposes the underlying logger for middleware that emits its own events.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.internal
}
