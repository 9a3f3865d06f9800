// Package logger wraps log/slog with a process-wide logger configured once
// by the CLI. Output goes to stderr so command output stays clean.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Fields is a type alias for log fields to make the API cleaner.
type Fields map[string]interface{}

var logger *slog.Logger

// Init initializes the global logger at the given level.
func Init(logLevel string) {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
}

// Get returns the configured logger instance.
func Get() *slog.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// Info logs an info message.
func Info(msg string, fields ...Fields) {
	Get().Info(msg, mergeFields(fields...)...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	Get().Info(fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func Warn(msg string, fields ...Fields) {
	Get().Warn(msg, mergeFields(fields...)...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	Get().Warn(fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func Debug(msg string, fields ...Fields) {
	Get().Debug(msg, mergeFields(fields...)...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	Get().Debug(fmt.Sprintf(format, args...))
}

// Error logs an error message.
func Error(msg string, fields ...Fields) {
	Get().Error(msg, mergeFields(fields...)...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	Get().Error(fmt.Sprintf(format, args...))
}

func mergeFields(fields ...Fields) []interface{} {
	var attrs []interface{}
	for _, f := range fields {
		for k, v := range f {
			attrs = append(attrs, k, v)
		}
	}
	return attrs
}
