// Package logging builds the zap loggers used across mathquest.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production logger when env is "production" and a
// development logger otherwise. level overrides the default level when set.
func New(env, level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if env == "production" {
		cfg = zap.NewProductionConfig()
	}
	if err := applyLevel(&cfg, level); err != nil {
		return nil, err
	}
	return cfg.Build()
}

// NewFile returns a JSON logger writing only to path. The terminal UI owns
// stdout and stderr, so interactive commands log here instead.
func NewFile(path, level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.Sampling = nil
	if err := applyLevel(&cfg, level); err != nil {
		return nil, err
	}
	return cfg.Build()
}

func applyLevel(cfg *zap.Config, level string) error {
	if level == "" {
		return nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return nil
}
