// Package config handles loading and validation of adapter configuration from
// environment variables and an optional capability-override file.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/WayfinderHQ/location-kit/logger"
	"github.com/WayfinderHQ/location-kit/types"
)

// Config aggregates the tunables of the adapter itself. Platform tunables
// (accuracy, filters) travel through ConfigurationSnapshot instead.
type Config struct {
	// Environment selects the capability table row.
	Environment string `mapstructure:"ENVIRONMENT" yaml:"environment"`
	// EventBufferSize is the delivery-channel capacity handed to each event
	// subscriber.
	EventBufferSize int `mapstructure:"EVENT_BUFFER_SIZE" yaml:"event_buffer_size"`
	// CapabilityFile optionally points at a YAML document overriding the
	// compiled-in capability table.
	CapabilityFile string `mapstructure:"CAPABILITY_FILE" yaml:"capability_file"`
}

// LoadConfig reads configuration from LOCATIONKIT_-prefixed environment
// variables with sane defaults.
func LoadConfig() (*Config, error) {
	log := logger.GetLogger().Named("config")

	v := viper.New()
	v.SetEnvPrefix("LOCATIONKIT")
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", string(types.EnvPhone))
	v.SetDefault("EVENT_BUFFER_SIZE", 16)
	v.SetDefault("CAPABILITY_FILE", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.EventBufferSize <= 0 {
		log.Warnw("Invalid event buffer size, using default", "value", cfg.EventBufferSize)
		cfg.EventBufferSize = 16
	}

	switch types.Environment(cfg.Environment) {
	case types.EnvPhone, types.EnvDesktop, types.EnvTV, types.EnvWearable:
	default:
		log.Warnw("Unknown environment, all gated operations will no-op",
			"environment", cfg.Environment,
		)
	}

	return &cfg, nil
}

// TargetEnvironment returns the configured environment.
func (c *Config) TargetEnvironment() types.Environment {
	return types.Environment(c.Environment)
}

// capabilityOverrideDoc is the shape of the optional override file:
//
//	environments:
//	  tv:
//	    regionMonitoring: true
type capabilityOverrideDoc struct {
	Environments map[string]map[string]bool `yaml:"environments"`
}

// Capabilities returns the capability set for the configured environment,
// with any file overrides applied on top of the compiled-in table.
func (c *Config) Capabilities() (types.CapabilitySet, error) {
	caps := types.Capabilities(c.TargetEnvironment())
	if c.CapabilityFile == "" {
		return caps, nil
	}

	data, err := os.ReadFile(c.CapabilityFile)
	if err != nil {
		return nil, fmt.Errorf("read capability file: %w", err)
	}

	var doc capabilityOverrideDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse capability file: %w", err)
	}

	overrides, ok := doc.Environments[c.Environment]
	if !ok {
		return caps, nil
	}
	for op, supported := range overrides {
		caps[types.Operation(op)] = supported
	}
	return caps, nil
}
