// Package config provides a declarative run configuration that host
// applications can load from YAML (or build in code) and turn into run
// options and proxies.
package config

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/couchdeveloper/Oak-sub003/machine"
)

// RunConfig is the tunable surface of a run.
type RunConfig struct {
	// QueueCapacity bounds the external event queue. Senders hitting the
	// bound observe a backpressure error rather than blocking.
	QueueCapacity int `json:"queueCapacity" yaml:"queueCapacity"`

	// RegistryShards sets the shard count of the in-flight task registry.
	RegistryShards int `json:"registryShards" yaml:"registryShards"`

	// LogLevel is one of "debug", "info", "warn", "error", or "" for silent.
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// Default returns the configuration a zero-tuning caller gets.
func Default() RunConfig {
	return RunConfig{
		QueueCapacity:  16,
		RegistryShards: 4,
	}
}

// Parse reads a RunConfig from YAML, filling unset fields from Default and
// validating the result.
func Parse(data []byte) (RunConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the runtime would reject.
func (c RunConfig) Validate() error {
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("config: queueCapacity must be positive, got %d", c.QueueCapacity)
	}
	if c.RegistryShards <= 0 {
		return fmt.Errorf("config: registryShards must be positive, got %d", c.RegistryShards)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown logLevel %q", c.LogLevel)
	}
	return nil
}

// Logger builds the zap logger the configuration asks for. An empty LogLevel
// yields a no-op logger.
func (c RunConfig) Logger() (*zap.Logger, error) {
	if c.LogLevel == "" {
		return zap.NewNop(), nil
	}
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("config: build logger: %w", err)
	}
	return logger, nil
}

// NewProxy builds a proxy sized by the configuration.
func NewProxy[E any](c RunConfig) *machine.Proxy[E] {
	return machine.NewProxy[E](c.QueueCapacity)
}

// RunOptions converts the configuration into options for machine.Run.
func RunOptions[S, O any](c RunConfig) ([]machine.RunOption[S, O], error) {
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}
	return []machine.RunOption[S, O]{
		machine.WithLogger[S, O](logger),
		machine.WithRegistryShards[S, O](c.RegistryShards),
	}, nil
}
