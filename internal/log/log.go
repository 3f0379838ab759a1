// Package log provides a small category-tagged logging facade over log/slog.
//
// The CLI's user-facing output goes through internal/ui/styles; this package
// carries diagnostics only, so it stays silent (warn level, stderr) unless
// configured otherwise. Every call takes a Category so log lines can be
// filtered per subsystem.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Category identifies the subsystem emitting a log line.
type Category string

const (
	CatImport Category = "import"
	CatScan   Category = "scan"
	CatMedia  Category = "media"
	CatStore  Category = "store"
	CatUI     Category = "ui"
	CatWatch  Category = "watch"
	CatConfig Category = "config"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger.Store(slog.New(h))
}

// Setup reconfigures the package logger. level is one of debug, info, warn,
// error (case-insensitive). If path is non-empty the log is appended to that
// file instead of stderr; the returned closer flushes and closes the file
// and is a no-op for stderr.
func Setup(level, path string) (func() error, error) {
	var lvl slog.Level
	if level == "" {
		level = "warn"
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	var w io.Writer = os.Stderr
	closer := func() error { return nil }
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closer = f.Close
	}

	logger.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return closer, nil
}

// SetOutput swaps the backing logger wholesale. Tests use this to capture
// log lines; passing nil restores the silent default.
func SetOutput(w io.Writer, lvl slog.Level) {
	if w == nil {
		w = os.Stderr
		lvl = slog.LevelWarn
	}
	logger.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

// Debug logs at debug level with the category attached.
func Debug(cat Category, msg string, args ...any) {
	logger.Load().Debug(msg, prepend(cat, args)...)
}

// Info logs at info level with the category attached.
func Info(cat Category, msg string, args ...any) {
	logger.Load().Info(msg, prepend(cat, args)...)
}

// Warn logs at warn level with the category attached.
func Warn(cat Category, msg string, args ...any) {
	logger.Load().Warn(msg, prepend(cat, args)...)
}

// Error logs at error level with the category attached.
func Error(cat Category, msg string, args ...any) {
	logger.Load().Error(msg, prepend(cat, args)...)
}

// ErrorErr logs err at error level with the category attached.
func ErrorErr(cat Category, msg string, err error, args ...any) {
	kvs := append([]any{"error", err}, args...)
	logger.Load().Error(msg, prepend(cat, kvs)...)
}

func prepend(cat Category, args []any) []any {
	return append([]any{"cat", string(cat)}, args...)
}
