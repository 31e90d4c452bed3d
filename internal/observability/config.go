// Package observability wires logging, tracing and metrics concerns.
package observability

import (
	"os"
	"strconv"
	"strings"

	"github.com/convertfy/backoffice/internal/config"
)

// Config carries the observability settings derived from the app config.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TracingEnabled bool
	OTLPEndpoint   string
	OTLPProtocol   string
	SamplingRatio  float64
}

// NewConfig derives observability settings from application config.
func NewConfig(cfg config.Config) Config {
	return Config{
		ServiceName:    cfg.AppName,
		ServiceVersion: cfg.AppVersion,
		Environment:    cfg.Environment,
		TracingEnabled: envBool("TRACING_ENABLED", false),
		OTLPEndpoint:   cfg.OTLPEndpoint,
		OTLPProtocol:   strings.ToLower(strings.TrimSpace(os.Getenv("OTLP_PROTOCOL"))),
		SamplingRatio:  envFloat("TRACING_SAMPLING_RATIO", 0.1),
	}
}

// Debug reports whether verbose diagnostics should be attached.
func (c Config) Debug() bool {
	return c.Environment == "development"
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return parsed
}

func envFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return parsed
}
