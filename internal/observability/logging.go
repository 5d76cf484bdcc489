// Package observability builds the structured loggers used by the armory tools.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/armory/internal/config"
)

// LoggerOption customizes a logger built by NewLogger.
type LoggerOption func(*zap.Config)

// WithName tags every entry with a service field naming the emitting binary.
func WithName(name string) LoggerOption {
	return func(c *zap.Config) {
		if c.InitialFields == nil {
			c.InitialFields = map[string]interface{}{}
		}
		c.InitialFields["service"] = name
	}
}

// WithOutputPaths redirects log output, e.g. to stderr when stdout carries
// tool output.
func WithOutputPaths(paths ...string) LoggerOption {
	return func(c *zap.Config) {
		c.OutputPaths = paths
	}
}

// NewLogger creates a structured logger from the given logging configuration.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig, opts ...LoggerOption) (*zap.Logger, error) {
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
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	for _, opt := range opts {
		opt(&zapCfg)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
