package config

import (
	"time"

	"github.com/hansbonini/vcdplayer/pkg/vcdinfo"
)

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	pbc := true
	return &Config{
		Player: PlayerConfig{
			PBC:           &pbc,
			BlocksPerRead: 20,
			MaxHops:       64,
			StillDelayMS:  1000,
		},
		Format: FormatConfig{
			Title:  vcdinfo.DefaultTitleFormat,
			Author: vcdinfo.DefaultAuthorFormat,
		},
		Server: ServerConfig{
			Bind: "127.0.0.1:8090",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Player
	if c.Player.PBC == nil {
		c.Player.PBC = d.Player.PBC
	}
	if c.Player.BlocksPerRead == 0 {
		c.Player.BlocksPerRead = d.Player.BlocksPerRead
	}
	if c.Player.MaxHops == 0 {
		c.Player.MaxHops = d.Player.MaxHops
	}
	if c.Player.StillDelayMS == 0 {
		c.Player.StillDelayMS = d.Player.StillDelayMS
	}

	// Format
	if c.Format.Title == "" {
		c.Format.Title = d.Format.Title
	}
	if c.Format.Author == "" {
		c.Format.Author = d.Format.Author
	}

	// Server
	if c.Server.Bind == "" {
		c.Server.Bind = d.Server.Bind
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// PBCEnabled reports whether playback control is on.
func (c *PlayerConfig) PBCEnabled() bool {
	return c.PBC == nil || *c.PBC
}

// StillDelay returns still_delay_ms as a duration.
func (c *PlayerConfig) StillDelay() time.Duration {
	return time.Duration(c.StillDelayMS) * time.Millisecond
}
