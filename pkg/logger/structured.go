// Package logger provides structured logging with consistent formatting,
// backed by zerolog.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger behind the small surface the rest of the
// application uses. Extra args are key/value pairs attached as fields.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger. The component name, if not empty, is attached to
// every event.
func New(component string) *Logger {
	ctx := zerolog.New(os.Stderr).With().Timestamp()
	if component != "" {
		ctx = ctx.Str("component", component)
	}
	return &Logger{zl: ctx.Logger()}
}

// NewWithOutput wraps an existing zerolog logger. Used by tests to capture
// output.
func NewWithOutput(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl}
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.zl.Info().Fields(args).Msg(msg)
}

// Warning logs a warning message.
func (l *Logger) Warning(msg string, args ...interface{}) {
	l.zl.Warn().Fields(args).Msg(msg)
}

// Error logs an error message with an optional error object.
func (l *Logger) Error(msg string, err error, args ...interface{}) {
	l.zl.Error().Err(err).Fields(args).Msg(msg)
}

// Security logs a security-relevant event (failed logins, rate limits,
// rejected tokens) so these can be filtered out of the stream.
func (l *Logger) Security(event string, details map[string]interface{}) {
	l.zl.Warn().Str("kind", "security").Fields(details).Msg(event)
}

// Fatal logs a fatal error and exits.
func (l *Logger) Fatal(msg string, err error, args ...interface{}) {
	l.zl.Fatal().Err(err).Fields(args).Msg(msg)
}

// Default logger instance.
var Default = New("")

// Convenience functions for the default logger.
func Info(msg string, args ...interface{})                  { Default.Info(msg, args...) }
func Warning(msg string, args ...interface{})               { Default.Warning(msg, args...) }
func Error(msg string, err error, args ...interface{})      { Default.Error(msg, err, args...) }
func Security(event string, details map[string]interface{}) { Default.Security(event, details) }
func Fatal(msg string, err error, args ...interface{})      { Default.Fatal(msg, err, args...) }
