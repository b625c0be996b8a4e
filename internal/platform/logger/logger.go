package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production zap logger. Debug mode switches to the development
// encoder with human-readable output and debug-level logging.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
	return zap.NewProduction()
}

// NewNop returns a no-op logger for tests that don't inspect log output.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
