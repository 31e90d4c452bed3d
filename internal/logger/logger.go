// Package logger configures the structured zap logger shared by the
// backoffice API, the sync engine and the metrics aggregator.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "backoffice"

// New builds the backoffice JSON logger at the given level (debug, info,
// warn, error). Every entry carries a service field so log lines from the
// API and the background sync can be told apart in aggregation.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if level == "" {
		level = "info"
	}

	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	logger = logger.With(zap.String("service", serviceName))
	zap.ReplaceGlobals(logger)
	return logger, nil
}
