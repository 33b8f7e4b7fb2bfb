// Package logging provides structured file logging with zap.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	globalLogger = zap.NewNop()
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Options holds logging configuration
type Options struct {
	Level   string // debug, info, warn, error
	Format  string // json, console
	File    string // log file path; the terminal belongs to the UI
	Session string // session id, generated when empty
}

// Init builds the file logger and installs it as the global logger.
// The returned logger already carries the session field.
func Init(opts Options) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	path := opts.File
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	var cfg zap.Config
	if opts.Format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	globalLevel.SetLevel(level)
	cfg.Level = globalLevel
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	logger, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	session := opts.Session
	if session == "" {
		session = uuid.NewString()
	}
	logger = logger.With(zap.String("session", session))

	mu.Lock()
	globalLogger = logger
	mu.Unlock()
	return logger, nil
}

// DefaultPath returns $XDG_STATE_HOME/earshot/earshot.log, falling back to
// ~/.local/state and finally the working directory.
func DefaultPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "earshot", "earshot.log")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "earshot", "earshot.log")
	}
	return "earshot.log"
}

// SetLevel changes the global log level at runtime
func SetLevel(level string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return
	}
	globalLevel.SetLevel(l)
}

// L returns the global logger. It is a no-op logger until Init succeeds.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Named returns a child of the global logger for one component
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync flushes any buffered log entries
func Sync() error {
	return L().Sync()
}
