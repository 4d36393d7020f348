package logging

import (
	"log/slog"
	"os"
)

// Logger wraps slog for structured logging across the application.
// keeps things simple, no fancy abstractions.
type Logger struct {
	*slog.Logger
}

// New creates a new logger with JSON output for production use.
func New() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewWithLevel creates a logger with a specific log level.
func NewWithLevel(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithComponent returns a logger tagged with a component name.
// useful for tracing which part of the system is logging.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.With("component", name),
	}
}

// DatabaseConnected logs a successful relational store connection.
func (l *Logger) DatabaseConnected(host, database string) {
	l.Info("database connection established",
		"host", host,
		"database", database,
	)
}

// DatabaseConnectionFailed logs a failed relational store connection attempt.
func (l *Logger) DatabaseConnectionFailed(err error) {
	l.Error("database connection failed",
		"error", err.Error(),
	)
}
