package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Volume: 80,
		},
		Playback: PlaybackConfig{
			RingCapacityMillis:     500,
			LowWaterMillis:         150,
			OverflowPolicy:         "wait",
			OnDecodeError:          "skip",
			MaxConsecutiveFailures: 3,
		},
		Watch: WatchConfig{
			IntervalMillis: 250,
		},
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Defaults.Volume == 0 {
		c.Defaults.Volume = d.Defaults.Volume
	}

	if c.Playback.RingCapacityMillis == 0 {
		c.Playback.RingCapacityMillis = d.Playback.RingCapacityMillis
	}
	if c.Playback.LowWaterMillis == 0 {
		c.Playback.LowWaterMillis = d.Playback.LowWaterMillis
	}
	if c.Playback.OverflowPolicy == "" {
		c.Playback.OverflowPolicy = d.Playback.OverflowPolicy
	}
	if c.Playback.OnDecodeError == "" {
		c.Playback.OnDecodeError = d.Playback.OnDecodeError
	}
	if c.Playback.MaxConsecutiveFailures == 0 {
		c.Playback.MaxConsecutiveFailures = d.Playback.MaxConsecutiveFailures
	}

	if c.Watch.IntervalMillis == 0 {
		c.Watch.IntervalMillis = d.Watch.IntervalMillis
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
}
