package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.vcdplayerrc, $XDG_CONFIG_HOME/vcdplayer/config.toml, ~/.config/vcdplayer/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".vcdplayerrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "vcdplayer", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Player
	if v := os.Getenv("VCDPLAYER_PBC"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Player.PBC = &b
		}
	}
	if v := os.Getenv("VCDPLAYER_BLOCKS_PER_READ"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Player.BlocksPerRead = i
		}
	}
	if v := os.Getenv("VCDPLAYER_MAX_HOPS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Player.MaxHops = i
		}
	}
	if v := os.Getenv("VCDPLAYER_STILL_DELAY_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Player.StillDelayMS = i
		}
	}
	if v := os.Getenv("VCDPLAYER_SEED"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Player.Seed = i
		}
	}

	// Format
	if v := os.Getenv("VCDPLAYER_TITLE_FORMAT"); v != "" {
		cfg.Format.Title = v
	}
	if v := os.Getenv("VCDPLAYER_AUTHOR_FORMAT"); v != "" {
		cfg.Format.Author = v
	}

	// Server
	if v := os.Getenv("VCDPLAYER_SERVER_BIND"); v != "" {
		cfg.Server.Bind = v
	}

	// Log
	if v := os.Getenv("VCDPLAYER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("VCDPLAYER_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
