// Package config loads the QCDN configuration from file, environment
// and defaults.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (QCDN_*)
//  2. Configuration file (YAML)
//  3. Default values
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the static configuration both QCDN binaries share.
type Config struct {
	// Data is the data root: the metadata database lives directly in
	// it, version bytes in its storage/ subdirectory.
	Data string `mapstructure:"data" validate:"required" yaml:"data"`

	// Bind is the listen address, "host:port".
	Bind string `mapstructure:"bind" validate:"required,hostname_port" yaml:"bind"`

	// Mode switches the HTTP caching headers: "production" marks
	// content immutable for a year, "development" disables caching.
	Mode string `mapstructure:"mode" validate:"required,oneof=production development" yaml:"mode"`

	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Replication tunes the follower event feed.
	Replication ReplicationConfig `mapstructure:"replication" yaml:"replication"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `mapstructure:"level" validate:"required,oneof=trace debug info warn error" yaml:"level"`

	// Format selects the output format: text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
}

// ReplicationConfig tunes the follower event feed.
type ReplicationConfig struct {
	// Buffer is the per-follower event buffer; a follower that falls
	// this far behind is disconnected.
	Buffer int `mapstructure:"buffer" validate:"gte=0" yaml:"buffer"`
}

var validate = validator.New()

// Load reads the configuration. configPath may be empty, in which
// case only environment variables and defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Validate checks cfg against the struct tags.
func Validate(cfg *Config) error {
	return validate.Struct(cfg)
}

// Production reports whether the long-lived caching headers apply.
func (c *Config) Production() bool {
	return c.Mode == "production"
}

// setupViper wires environment variables and defaults.
// Example: QCDN_LOGGING_LEVEL=debug overrides logging.level.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("QCDN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data", "./data")
	v.SetDefault("bind", "0.0.0.0:8080")
	v.SetDefault("mode", "production")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("replication.buffer", 128)

	if configPath != "" {
		v.SetConfigFile(configPath)
	}
}

// readConfigFile reads the config file when one was given. A missing
// file at the given path is an error; no path at all is fine.
func readConfigFile(v *viper.Viper, configPath string) error {
	if configPath == "" {
		return nil
	}
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("config file not found: %s", configPath)
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}
