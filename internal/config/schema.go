package config

// Config is the root configuration structure.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Playback PlaybackConfig `toml:"playback"`
	Watch    WatchConfig    `toml:"watch"`
	Log      LogConfig      `toml:"log"`
}

// DefaultsConfig holds persisted playback preferences.
type DefaultsConfig struct {
	Volume int    `toml:"volume"`
	Device string `toml:"device"`
}

// PlaybackConfig holds engine tuning knobs.
type PlaybackConfig struct {
	// RingCapacityMillis sizes the decode ring buffer.
	RingCapacityMillis int `toml:"ring_capacity_ms"`
	// LowWaterMillis is the refill threshold for the decode worker.
	LowWaterMillis int `toml:"low_water_ms"`
	// OverflowPolicy is "wait" or "drop_oldest".
	OverflowPolicy string `toml:"overflow_policy"`
	// OnDecodeError is "skip" or "stop".
	OnDecodeError string `toml:"on_decode_error"`
	// MaxConsecutiveFailures escalates to the Error state when this
	// many tracks in a row fail to decode.
	MaxConsecutiveFailures int `toml:"max_consecutive_failures"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	IntervalMillis int `toml:"interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}
