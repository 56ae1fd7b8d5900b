// Package logging constructs the process-wide structured logger. Verbose
// mode selects zap's human-readable development encoder; the default is
// zap's JSON production encoder, suitable for piping into log
// aggregation the way a long-running migration runner or generate
// invocation would be in CI.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger for the given verbosity.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// Nop returns a logger that discards everything, used by tests and
// library callers that don't want fontana's own diagnostics.
func Nop() *zap.Logger {
	return zap.NewNop()
}
