// Package logging builds the structured zap logger used across the service
package logging

import (
	"go.uber.org/zap"
)

// Config holds logging configuration
type Config struct {
	Level       string            `yaml:"level" toml:"level"`
	Format      string            `yaml:"format" toml:"format"` // "json" or "console"
	OutputPath  string            `yaml:"output_path" toml:"output_path"`
	Fields      map[string]string `yaml:"fields" toml:"fields"`
	Development bool              `yaml:"development" toml:"development"`
}

// NewLogger creates a new structured logger
func NewLogger(config Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if config.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	if config.OutputPath != "" {
		zapConfig.OutputPaths = []string{config.OutputPath}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	fields := make([]zap.Field, 0, len(config.Fields))
	for k, v := range config.Fields {
		fields = append(fields, zap.String(k, v))
	}
	return logger.With(fields...), nil
}

// NewDefaultLogger creates a logger with sensible defaults, falling back to
// zap's production logger if the configuration cannot be built
func NewDefaultLogger() *zap.Logger {
	logger, err := NewLogger(Config{
		Level:  "info",
		Format: "json",
		Fields: map[string]string{"service": "itam"},
	})
	if err != nil {
		fallback, _ := zap.NewProduction()
		return fallback.With(zap.String("service", "itam"))
	}
	return logger
}
