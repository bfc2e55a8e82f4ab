package taskapi

import (
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment is the task API's configuration, parsed once at cold start.
type Environment struct {
	TableName    string        `env:"TABLE_NAME,notEmpty"`
	LogLevel     zapcore.Level `env:"LOG_LEVEL" envDefault:"info"`
	OtelExporter string        `env:"OTEL_EXPORTER" envDefault:"xrayudp"`
}

// ParseEnv parses environment variables into an Environment.
func ParseEnv() (Environment, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return e, errors.Wrap(err, "parsing environment")
	}
	return e, nil
}

// NewLogger builds the function's structured logger at the configured level.
func NewLogger(e Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(e.LogLevel)
	return cfg.Build()
}
