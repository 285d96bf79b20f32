package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// LogFormat represents the output format for logs.
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in plain text format.
	FormatText LogFormat = "text"
)

// Config contains configuration for the Logger.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error")
	Level string

	// Format is the output format ("json", "text")
	Format string

	// AddSource includes file and line number in logs
	AddSource bool

	// Writer is the output writer (defaults to os.Stdout)
	Writer io.Writer
}

// Logger provides structured logging backed by log/slog.
type Logger struct {
	slog   *slog.Logger
	level  slog.Level
	format LogFormat
}

// New creates a new Logger with the given configuration.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch format {
	case FormatText:
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	return &Logger{
		slog:   slog.New(handler),
		level:  level,
		format: format,
	}, nil
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// With creates a child logger with additional fields.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:   l.slog.With(args...),
		level:  l.level,
		format: l.format,
	}
}

// Slog returns the underlying slog.Logger, suitable for slog.SetDefault so
// components using slog.Default() pick up this configuration.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// parseLevel parses a log level string into slog.Level.
func parseLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "debug", "DEBUG":
		return slog.LevelDebug, nil
	case "info", "INFO", "":
		return slog.LevelInfo, nil
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn, nil
	case "error", "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", levelStr)
	}
}

// parseFormat parses a log format string into LogFormat.
func parseFormat(formatStr string) (LogFormat, error) {
	switch formatStr {
	case "json", "JSON", "":
		return FormatJSON, nil
	case "text", "TEXT":
		return FormatText, nil
	default:
		return FormatJSON, fmt.Errorf("unknown log format: %s", formatStr)
	}
}
