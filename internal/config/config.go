package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.ariarc, $XDG_CONFIG_HOME/aria/config.toml, ~/.config/aria/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

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

// Save writes the configuration to path (or the default location when
// path is empty), creating parent directories as needed. Writes are
// atomic so a crash never leaves a truncated config.
func (c *Config) Save(path string) error {
	if path == "" {
		path = defaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config.*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(c); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".ariarc"),
		defaultConfigPath(),
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

func defaultConfigPath() string {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "aria", "config.toml")
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ARIA_VOLUME"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Defaults.Volume = i
		}
	}
	if v := os.Getenv("ARIA_DEVICE"); v != "" {
		cfg.Defaults.Device = v
	}

	if v := os.Getenv("ARIA_OVERFLOW_POLICY"); v != "" {
		cfg.Playback.OverflowPolicy = v
	}
	if v := os.Getenv("ARIA_ON_DECODE_ERROR"); v != "" {
		cfg.Playback.OnDecodeError = v
	}

	if v := os.Getenv("ARIA_WATCH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Watch.IntervalMillis = i
		}
	}

	if v := os.Getenv("ARIA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ARIA_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
