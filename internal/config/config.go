// Package config loads configuration for the clamdscan CLI.
package config

import (
	"fmt"
	"time"
)

// Defaults for daemon connection settings.
const (
	// DefaultHost is the daemon host used when none is configured.
	DefaultHost = "localhost"
	// DefaultPort is clamd's conventional TCP port.
	DefaultPort = 3310
	// DefaultConnectTimeout bounds a single dial.
	DefaultConnectTimeout = 3 * time.Second
	// DefaultReadTimeout bounds a single daemon read.
	DefaultReadTimeout = 15 * time.Second
)

// Config holds the resolved CLI configuration after merging defaults, the
// configuration file, and command-line flags.
type Config struct {
	// Host is the clamd daemon host.
	Host string
	// Port is the clamd daemon TCP port.
	Port int
	// ConnectTimeout bounds each connection attempt.
	ConnectTimeout time.Duration
	// ReadTimeout bounds each read from the daemon.
	ReadTimeout time.Duration
}

// Default returns a Config populated with the defaults.
func Default() *Config {
	return &Config{
		Host:           DefaultHost,
		Port:           DefaultPort,
		ConnectTimeout: DefaultConnectTimeout,
		ReadTimeout:    DefaultReadTimeout,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive: %v", c.ConnectTimeout)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive: %v", c.ReadTimeout)
	}
	return nil
}
