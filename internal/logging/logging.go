// Package logging builds the structured logger shared by the CLI commands and
// the HTTP service.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Minimum levels outside debug mode.
const (
	CLILevel     = zapcore.WarnLevel
	ServiceLevel = zapcore.InfoLevel
)

// New returns a sugared zap logger writing to stderr. Debug mode uses the
// development config; otherwise entries below level are dropped.
func New(debug bool, level zapcore.Level) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
