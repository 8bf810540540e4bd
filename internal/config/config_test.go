package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Defaults.Volume != 80 {
		t.Errorf("Volume = %d, want 80", cfg.Defaults.Volume)
	}
	if cfg.Playback.OverflowPolicy != "wait" {
		t.Errorf("OverflowPolicy = %q, want wait", cfg.Playback.OverflowPolicy)
	}
	if cfg.Playback.OnDecodeError != "skip" {
		t.Errorf("OnDecodeError = %q, want skip", cfg.Playback.OnDecodeError)
	}
	if cfg.Watch.IntervalMillis != 250 {
		t.Errorf("Watch interval = %d, want 250", cfg.Watch.IntervalMillis)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Playback.OverflowPolicy = "drop_oldest"
	cfg.Defaults.Volume = 25
	cfg.ApplyDefaults()

	if cfg.Playback.OverflowPolicy != "drop_oldest" {
		t.Errorf("OverflowPolicy = %q, want drop_oldest", cfg.Playback.OverflowPolicy)
	}
	if cfg.Defaults.Volume != 25 {
		t.Errorf("Volume = %d, want 25", cfg.Defaults.Volume)
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[defaults]
volume = 42
device = "USB DAC"

[playback]
overflow_policy = "drop_oldest"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Defaults.Volume != 42 {
		t.Errorf("Volume = %d, want 42", cfg.Defaults.Volume)
	}
	if cfg.Defaults.Device != "USB DAC" {
		t.Errorf("Device = %q, want USB DAC", cfg.Defaults.Device)
	}
	if cfg.Playback.OverflowPolicy != "drop_oldest" {
		t.Errorf("OverflowPolicy = %q, want drop_oldest", cfg.Playback.OverflowPolicy)
	}
	// Unset sections still get defaults.
	if cfg.Log.Level != "warn" {
		t.Errorf("Log level = %q, want warn", cfg.Log.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ARIA_VOLUME", "7")
	t.Setenv("ARIA_LOG_LEVEL", "debug")

	cfg := &Config{}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if cfg.Defaults.Volume != 7 {
		t.Errorf("Volume = %d, want 7 from env", cfg.Defaults.Volume)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log level = %q, want debug from env", cfg.Log.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"volume high", func(c *Config) { c.Defaults.Volume = 101 }, "volume"},
		{"volume negative", func(c *Config) { c.Defaults.Volume = -1 }, "volume"},
		{"overflow policy", func(c *Config) { c.Playback.OverflowPolicy = "panic" }, "overflow_policy"},
		{"decode policy", func(c *Config) { c.Playback.OnDecodeError = "explode" }, "on_decode_error"},
		{"low water", func(c *Config) { c.Playback.LowWaterMillis = 9999 }, "low_water_ms"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Defaults.Volume = 33
	cfg.Defaults.Device = "Speakers"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got.Defaults.Volume != 33 || got.Defaults.Device != "Speakers" {
		t.Errorf("round trip = %+v, want volume 33 device Speakers", got.Defaults)
	}
}
