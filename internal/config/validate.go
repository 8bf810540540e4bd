package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Defaults.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}
	if err := c.Playback.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("playback: %w", err))
	}
	if err := c.Watch.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("watch: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks DefaultsConfig for errors.
func (c *DefaultsConfig) Validate() error {
	if c.Volume < 0 || c.Volume > 100 {
		return errors.New("volume must be between 0 and 100")
	}
	return nil
}

// Validate checks PlaybackConfig for errors.
func (c *PlaybackConfig) Validate() error {
	if c.RingCapacityMillis < 50 {
		return errors.New("ring_capacity_ms must be at least 50")
	}
	if c.LowWaterMillis < 0 || c.LowWaterMillis >= c.RingCapacityMillis {
		return errors.New("low_water_ms must be non-negative and below ring_capacity_ms")
	}
	switch c.OverflowPolicy {
	case "", "wait", "drop_oldest":
		// valid
	default:
		return fmt.Errorf("invalid overflow_policy: %s (must be wait or drop_oldest)", c.OverflowPolicy)
	}
	switch c.OnDecodeError {
	case "", "skip", "stop":
		// valid
	default:
		return fmt.Errorf("invalid on_decode_error: %s (must be skip or stop)", c.OnDecodeError)
	}
	if c.MaxConsecutiveFailures < 1 {
		return errors.New("max_consecutive_failures must be at least 1")
	}
	return nil
}

// Validate checks WatchConfig for errors.
func (c *WatchConfig) Validate() error {
	if c.IntervalMillis < 0 {
		return errors.New("interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 {
		return errors.New("log rotation sizes must be non-negative")
	}
	return nil
}
