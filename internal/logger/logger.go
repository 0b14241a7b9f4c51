// Package logger wraps zap configuration so the rest of the application
// only deals with a ready *zap.Logger.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Logger holds the underlying zap logger.
type Logger struct {
	// Log is the configured zap logger. Valid after Init.
	Log *zap.Logger
}

// New returns an uninitialized Logger with a no-op zap logger,
// safe to use before Init is called.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a production zap logger at the given level
// ("Debug", "Info", "Warn", "Error"). Returns an error if the level
// cannot be parsed or the logger cannot be built.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	log, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	l.Log = log
	return nil
}
