package config

// Config is the root configuration structure.
type Config struct {
	Player PlayerConfig `toml:"player"`
	Format FormatConfig `toml:"format"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// PlayerConfig holds playback engine settings.
type PlayerConfig struct {
	PBC           *bool `toml:"pbc"`
	BlocksPerRead int   `toml:"blocks_per_read"`
	MaxHops       int   `toml:"max_hops"`
	StillDelayMS  int   `toml:"still_delay_ms"`
	Seed          int64 `toml:"seed"` // 0 seeds from the clock
}

// FormatConfig holds the title and author format strings.
type FormatConfig struct {
	Title  string `toml:"title"`
	Author string `toml:"author"`
}

// ServerConfig holds HTTP remote control settings.
type ServerConfig struct {
	Bind string `toml:"bind"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
