package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults_Valid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xplayer.yaml")
	data := []byte(`
engine:
  buffer_capacity: 8
  soft_threshold_ms: 150
audio:
  device: none
player:
  volume: 80
  mode: loop
snapshot:
  dir: /tmp/snaps
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Engine.BufferCapacity != 8 {
		t.Errorf("expected buffer capacity 8, got %d", cfg.Engine.BufferCapacity)
	}
	if cfg.Engine.RefillBatch != 5 {
		t.Errorf("expected default refill batch 5, got %d", cfg.Engine.RefillBatch)
	}
	if cfg.Audio.Device != DeviceNone || cfg.Audio.SampleRate != 44100 {
		t.Errorf("expected device none at 44100, got %s at %d", cfg.Audio.Device, cfg.Audio.SampleRate)
	}
	if cfg.Player.Volume != 80 || cfg.Player.Mode != "loop" {
		t.Errorf("expected volume 80 mode loop, got %d %s", cfg.Player.Volume, cfg.Player.Mode)
	}
	if cfg.Snapshot.Every != 30 || !cfg.Snapshot.OSD {
		t.Errorf("expected snapshot defaults kept, got %+v", cfg.Snapshot)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected loaded config to validate, got %v", err)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if cfg.Player.Volume != 50 {
		t.Errorf("expected defaults on error, got volume %d", cfg.Player.Volume)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.Engine.BufferCapacity = 0 }},
		{"hard below soft", func(c *Config) { c.Engine.HardThresholdMs = 100 }},
		{"zero fps", func(c *Config) { c.Engine.DefaultFrameRate = 0 }},
		{"unknown device", func(c *Config) { c.Audio.Device = "alsa" }},
		{"volume too loud", func(c *Config) { c.Player.Volume = 101 }},
		{"negative rate", func(c *Config) { c.Player.Rate = -1 }},
		{"unknown mode", func(c *Config) { c.Player.Mode = "shuffle" }},
		{"snapshot every zero", func(c *Config) { c.Snapshot.Dir = "/x"; c.Snapshot.Every = 0 }},
		{"negative snapshot width", func(c *Config) { c.Snapshot.MaxWidth = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestToEngineOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Player.Rate = 1.5
	opts := cfg.ToEngineOptions()

	if opts.FrameTick != 33*time.Millisecond {
		t.Errorf("expected 33ms frame tick, got %v", opts.FrameTick)
	}
	if opts.Sync.HardThreshold != time.Second || opts.Sync.MinResyncInterval != 2*time.Second {
		t.Errorf("expected 1s hard threshold and 2s resync interval, got %+v", opts.Sync)
	}
	if opts.Volume != 50 || opts.Rate != 1.5 {
		t.Errorf("expected volume 50 rate 1.5, got %d %v", opts.Volume, opts.Rate)
	}
	if cfg.FallbackDuration() != time.Hour {
		t.Errorf("expected 1h fallback, got %v", cfg.FallbackDuration())
	}
}
