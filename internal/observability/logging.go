// Package observability builds the structured logger shared by every package.
//
// The rules engine logs sparingly: modifier repairs, budget clamps and dice
// rolls at debug; player roster changes, skill checks and script loads at
// info; house-rule script failures at warn. Callers that need no logging
// pass nil and the packages fall back to zap.NewNop.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/charsheet/internal/config"
)

// NewLogger creates the process logger from the logging configuration.
//
// "json" selects the production encoder for machine-read logs; "console"
// selects the development encoder without stack traces, which is the
// default for interactive use of the CLI. Both write to stderr so the
// character sheets rendered on stdout can be piped or redirected on their
// own.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// ForSystem returns the logger handed to a rule-system backend: it is named
// after the system and tags every entry with a "system" field, so entries of
// different rule systems can be told apart in one stream.
//
// Precondition: logger must be non-nil.
func ForSystem(logger *zap.Logger, systemID string) *zap.Logger {
	return logger.Named(systemID).With(zap.String("system", systemID))
}
