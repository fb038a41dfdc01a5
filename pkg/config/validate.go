package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	var errs []error
	if c.BlocksPerRead < 0 || c.BlocksPerRead > 1024 {
		errs = append(errs, errors.New("blocks_per_read must be between 0 (default) and 1024"))
	}
	if c.MaxHops < 0 {
		errs = append(errs, errors.New("max_hops must be non-negative"))
	}
	if c.StillDelayMS < 0 {
		errs = append(errs, errors.New("still_delay_ms must be non-negative"))
	}
	return errors.Join(errs...)
}

// Validate checks ServerConfig for errors.
func (c *ServerConfig) Validate() error {
	if c.Bind == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Bind); err != nil {
		return fmt.Errorf("invalid bind address: %w", err)
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
