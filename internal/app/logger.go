package app

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// AtomicLogger holds the process logger behind an atomic pointer so a config
// reload can swap level and format without racing in-flight log calls.
type AtomicLogger struct {
	ptr atomic.Pointer[slog.Logger]
}

// NewAtomicLogger wraps an initial logger.
func NewAtomicLogger(l *slog.Logger) *AtomicLogger {
	al := &AtomicLogger{}
	al.ptr.Store(l)
	return al
}

// Get returns the current logger.
func (al *AtomicLogger) Get() *slog.Logger {
	return al.ptr.Load()
}

// Replace swaps in a new logger.
func (al *AtomicLogger) Replace(l *slog.Logger) {
	al.ptr.Store(l)
}

// buildLogger constructs a slog logger from the configured level and format.
func buildLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var h slog.Handler
	if format == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(h)
}

// slogAdapter exposes the atomic logger through the domain logger interface.
// Going through the AtomicLogger on every call means reloaded settings take
// effect for use cases immediately.
type slogAdapter struct {
	al *AtomicLogger
}

func (a *slogAdapter) Debug(msg string, keysAndValues ...any) {
	a.al.Get().Debug(msg, keysAndValues...)
}

func (a *slogAdapter) Info(msg string, keysAndValues ...any) {
	a.al.Get().Info(msg, keysAndValues...)
}

func (a *slogAdapter) Warn(msg string, keysAndValues ...any) {
	a.al.Get().Warn(msg, keysAndValues...)
}

func (a *slogAdapter) Error(msg string, keysAndValues ...any) {
	a.al.Get().Error(msg, keysAndValues...)
}
