// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the wiring for one trajectory host process.
type Config struct {
	// Device is the serial device path of the vendor robot controller.
	// Empty selects the simulated driver.
	Device string `env:"TRAJFLOW_DEVICE"`

	// Baud is the serial baud rate.
	Baud int `env:"TRAJFLOW_BAUD" envDefault:"115200"`

	// Period is the control loop cycle period.
	Period time.Duration `env:"TRAJFLOW_PERIOD" envDefault:"10ms"`

	// Group is the logical trajectory group name the driver registers its
	// handle under and the controller claims.
	Group string `env:"TRAJFLOW_GROUP" envDefault:"arm"`

	// Joints are the physical resource names the group spans, in order.
	Joints []string `env:"TRAJFLOW_JOINTS" envSeparator:"," envDefault:"joint1,joint2,joint3,joint4,joint5,joint6"`

	// LogLevel selects the zap log level (debug, info, warn, error).
	LogLevel string `env:"TRAJFLOW_LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.Period <= 0 {
		return nil, fmt.Errorf("TRAJFLOW_PERIOD must be positive, got %v", cfg.Period)
	}
	if len(cfg.Joints) == 0 {
		return nil, fmt.Errorf("TRAJFLOW_JOINTS must name at least one joint")
	}
	if cfg.Group == "" {
		return nil, fmt.Errorf("TRAJFLOW_GROUP must not be empty")
	}
	return cfg, nil
}

// Simulated reports whether the process should run against the simulated
// driver instead of a serial robot controller.
func (c *Config) Simulated() bool {
	return c.Device == ""
}
