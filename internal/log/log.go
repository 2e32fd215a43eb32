// Package log provides the structured logger. Records are written as JSON
// to a size-rotated file so they never interleave with shell output.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aidanlsb/rpcsh/internal/buildinfo"
)

// Logger wraps slog.Logger. A nil *Logger discards everything.
type Logger struct {
	*slog.Logger
	LogFile string
	closer  io.Closer
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%s: invalid log level", level)
}

// New opens a logger writing to rpcsh.log under dir.
func New(level string, dir string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "rpcsh.log"),
		MaxSize:    16, // MB
		MaxBackups: 2,
		MaxAge:     30,
	}
	if lvl == slog.LevelDebug {
		w.MaxSize = 128
	}

	l := NewWriter(w, lvl)
	l.LogFile = w.Filename
	l.closer = w

	info := buildinfo.Current()
	l.Info("Starting rpcsh",
		slog.String("version", info.Version),
		slog.String("commit", info.Commit),
		slog.String("go", info.GoVersion))
	return l, nil
}

// NewWriter returns a logger writing JSON records to w.
func NewWriter(w io.Writer, level slog.Level) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(h)}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return NewWriter(io.Discard, slog.LevelError+1)
}

func (l *Logger) Debug(msg string, args ...any) {
	if l != nil {
		l.Logger.Debug(msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil {
		l.Logger.Info(msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l != nil {
		l.Logger.Warn(msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...any) {
	if l != nil {
		l.Logger.Error(msg, args...)
	}
}

// Enabled reports whether records at level are kept.
func (l *Logger) Enabled(level slog.Level) bool {
	return l != nil && l.Logger.Enabled(context.Background(), level)
}

func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{
		Logger:  l.Logger.With(args...),
		LogFile: l.LogFile,
	}
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
