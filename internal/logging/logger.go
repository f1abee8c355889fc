// Package logging provides structured logging with context propagation for
// the workflow toolkit. It wraps the standard library's log/slog package,
// following the teacher's backend/pkg/logging package in shape (a Logger
// wrapping *slog.Logger, a Config selecting level/pretty-vs-JSON/caller
// info, With* chaining helpers) but scoped to this toolkit's entities
// (workflow, job, path, run) and its own error family (internal/spateerr)
// instead of the teacher's node-execution ones and generic error wrapping.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/ajmazurie/spate/internal/spateerr"
)

// contextKey is used for context keys to avoid collisions.
type contextKey string

const (
	// ContextKeyLogger is the context key for the logger instance.
	ContextKeyLogger contextKey = "logger"
)

// Logger wraps slog.Logger with toolkit-specific chaining helpers.
type Logger struct {
	logger *slog.Logger
}

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Output is where logs are written (default: os.Stdout).
	Output io.Writer
	// Pretty enables human-readable text output (default: false for JSON).
	Pretty bool
	// IncludeCaller includes source location in logs (default: false).
	IncludeCaller bool
}

// DefaultConfig returns default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:         "info",
		Output:        os.Stdout,
		Pretty:        false,
		IncludeCaller: false,
	}
}

// New creates a new logger with the given configuration. An unrecognized
// Level falls back to info but is not silently swallowed: New emits a WARN
// record right away, and the returned logger carries the requested level as
// a requested_log_level field on every record, so a typo'd --log-level flag
// shows up in the log stream itself instead of only in a CLI usage error.
func New(cfg Config) *Logger {
	level, recognized := parseLevel(cfg.Level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.IncludeCaller,
	}

	var handler slog.Handler
	if cfg.Pretty {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	l := &Logger{logger: slog.New(handler)}
	if !recognized && cfg.Level != "" {
		l = l.WithField("requested_log_level", cfg.Level)
		l.Warn("unrecognized log level, defaulting to info")
	}
	return l
}

// Nop returns a logger that discards everything, for callers (tests,
// library consumers who don't configure logging) that need a non-nil
// default without touching stdout.
func Nop() *Logger {
	return &Logger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// parseLevel maps a level name to its slog.Level, also reporting whether
// level was one of the known names (case-insensitive aliases included) so
// New can surface an unrecognized level instead of masking it.
func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// WithContext adds the logger to a context.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, l)
}

// FromContext retrieves the logger from context, or returns a no-op logger.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(ContextKeyLogger).(*Logger); ok {
		return logger
	}
	return Nop()
}

// WithWorkflow adds workflow_name to the logger context.
func (l *Logger) WithWorkflow(name string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("workflow_name", name))}
}

// WithJob adds job_id to the logger context.
func (l *Logger) WithJob(jobID string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("job_id", jobID))}
}

// WithPath adds path to the logger context.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("path", path))}
}

// WithRunID adds run_id to the logger context, the per-CLI-invocation
// correlation identifier minted by internal/runid.
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("run_id", runID))}
}

// WithField adds a custom field to the logger context.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With(slog.Any(key, value))}
}

// WithFields adds multiple custom fields to the logger context. Keys are
// sorted before being attached so two calls with the same field set
// produce byte-identical log lines regardless of map iteration order,
// matching the determinism this toolkit's document and export output
// already guarantee (spec §8).
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, slog.Any(k, fields[k]))
	}
	return &Logger{logger: l.logger.With(args...)}
}

// WithError attaches err to the logger context. When err is (or wraps) a
// *spateerr.Error, its kind and offending job/path are broken out into
// their own structured fields alongside the formatted error string, so a
// log aggregator can filter or alert on error_kind without parsing text;
// any other error is attached as a single opaque field, as before.
func (l *Logger) WithError(err error) *Logger {
	var se *spateerr.Error
	if errors.As(err, &se) {
		attrs := []any{slog.String("error_kind", string(se.Kind))}
		if se.Job != "" {
			attrs = append(attrs, slog.String("job_id", se.Job))
		}
		if se.Path != "" {
			attrs = append(attrs, slog.String("path", se.Path))
		}
		attrs = append(attrs, slog.Any("error", err))
		return &Logger{logger: l.logger.With(attrs...)}
	}
	return &Logger{logger: l.logger.With(slog.Any("error", err))}
}

func (l *Logger) log(level slog.Level, msg string) {
	l.logger.Log(context.Background(), level, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) { l.log(slog.LevelDebug, msg) }

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(slog.LevelDebug, fmt.Sprintf(format, args...))
}

// Info logs an info message.
func (l *Logger) Info(msg string) { l.log(slog.LevelInfo, msg) }

// Infof logs a formatted info message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(slog.LevelInfo, fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) { l.log(slog.LevelWarn, msg) }

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(slog.LevelWarn, fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(msg string) { l.log(slog.LevelError, msg) }

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(slog.LevelError, fmt.Sprintf(format, args...))
}

// Fatal logs a fatal message and exits. Reserved for cmd/spate, the one
// place this codebase allows an os.Exit call.
func (l *Logger) Fatal(msg string) {
	l.log(slog.LevelError, msg)
	os.Exit(1)
}

// Fatalf logs a formatted fatal message and exits.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.log(slog.LevelError, fmt.Sprintf(format, args...))
	os.Exit(1)
}

// GetSlogLogger returns the underlying slog.Logger for advanced use cases.
func (l *Logger) GetSlogLogger() *slog.Logger {
	return l.logger
}
