// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/xplayer/pkg/avsync"
	"github.com/user/xplayer/pkg/engine"
	"github.com/user/xplayer/pkg/playlist"
)

// Audio output backends.
const (
	DeviceBeep  = "beep"
	DeviceMalgo = "malgo"
	DeviceNone  = "none"
)

var ErrInvalid = errors.New("config: invalid value")

// Config represents the full configuration for xplayer.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Audio    AudioConfig    `yaml:"audio"`
	Video    VideoConfig    `yaml:"video"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	Player   PlayerConfig   `yaml:"player"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	History  HistoryConfig  `yaml:"history"`
	LogLevel string         `yaml:"log_level"`
}

// EngineConfig tunes buffering, ticks and synchronization.
type EngineConfig struct {
	BufferCapacity      int     `yaml:"buffer_capacity"`
	RefillBatch         int     `yaml:"refill_batch"`
	FrameTickMs         int     `yaml:"frame_tick_ms"`
	PositionTickMs      int     `yaml:"position_tick_ms"`
	SyncTickMs          int     `yaml:"sync_tick_ms"`
	SoftThresholdMs     int     `yaml:"soft_threshold_ms"`
	HardThresholdMs     int     `yaml:"hard_threshold_ms"`
	MinResyncIntervalMs int     `yaml:"min_resync_interval_ms"`
	DefaultFrameRate    float64 `yaml:"default_fps"`
	FallbackDurationMs  int64   `yaml:"fallback_duration_ms"`
	MaxDecodeRetries    int     `yaml:"max_decode_retries"`
	MaxDropPerTick      int     `yaml:"max_drop_per_tick"`
}

type AudioConfig struct {
	SampleRate   int    `yaml:"sample_rate"`
	Channels     int    `yaml:"channels"`
	Device       string `yaml:"device"`
	BufferFrames int    `yaml:"buffer_frames"`
}

// VideoConfig bounds the decoded frame size.
type VideoConfig struct {
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

type PlayerConfig struct {
	Volume int     `yaml:"volume"`
	Rate   float64 `yaml:"rate"`
	Mode   string  `yaml:"mode"`
}

type SnapshotConfig struct {
	Dir      string `yaml:"dir"`
	Every    int    `yaml:"every"`
	OSD      bool   `yaml:"osd"`
	MaxWidth int    `yaml:"max_width"`
	FontPath string `yaml:"font_path"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Engine: EngineConfig{
			BufferCapacity:      5,
			RefillBatch:         5,
			FrameTickMs:         33,
			PositionTickMs:      100,
			SyncTickMs:          100,
			SoftThresholdMs:     250,
			HardThresholdMs:     1000,
			MinResyncIntervalMs: 2000,
			DefaultFrameRate:    30,
			FallbackDurationMs:  int64(time.Hour / time.Millisecond),
			MaxDecodeRetries:    3,
			MaxDropPerTick:      5,
		},
		Audio: AudioConfig{
			SampleRate:   44100,
			Channels:     2,
			Device:       DeviceBeep,
			BufferFrames: 2048,
		},
		Video: VideoConfig{
			MaxWidth:  1280,
			MaxHeight: 720,
		},
		Player: PlayerConfig{
			Volume: 50,
			Rate:   1.0,
			Mode:   playlist.Sequential.String(),
		},
		Snapshot: SnapshotConfig{
			Every: 30,
			OSD:   true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
		LogLevel: "info",
	}
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "xplayer-history.db"
	}
	return filepath.Join(dir, "xplayer", "history.db")
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	e := c.Engine
	switch {
	case e.BufferCapacity <= 0:
		return fmt.Errorf("%w: engine.buffer_capacity must be positive", ErrInvalid)
	case e.RefillBatch <= 0:
		return fmt.Errorf("%w: engine.refill_batch must be positive", ErrInvalid)
	case e.FrameTickMs <= 0 || e.PositionTickMs <= 0 || e.SyncTickMs <= 0:
		return fmt.Errorf("%w: engine tick intervals must be positive", ErrInvalid)
	case e.SoftThresholdMs <= 0 || e.HardThresholdMs < e.SoftThresholdMs:
		return fmt.Errorf("%w: engine sync thresholds must satisfy 0 < soft <= hard", ErrInvalid)
	case e.DefaultFrameRate <= 0:
		return fmt.Errorf("%w: engine.default_fps must be positive", ErrInvalid)
	case e.FallbackDurationMs <= 0:
		return fmt.Errorf("%w: engine.fallback_duration_ms must be positive", ErrInvalid)
	case e.MaxDecodeRetries <= 0:
		return fmt.Errorf("%w: engine.max_decode_retries must be positive", ErrInvalid)
	case e.MaxDropPerTick < 0:
		return fmt.Errorf("%w: engine.max_drop_per_tick must not be negative", ErrInvalid)
	}

	if c.Audio.SampleRate <= 0 || c.Audio.Channels <= 0 {
		return fmt.Errorf("%w: audio.sample_rate and audio.channels must be positive", ErrInvalid)
	}
	switch c.Audio.Device {
	case DeviceBeep, DeviceMalgo, DeviceNone:
	default:
		return fmt.Errorf("%w: audio.device %q (want beep, malgo or none)", ErrInvalid, c.Audio.Device)
	}
	if c.Video.MaxWidth <= 0 || c.Video.MaxHeight <= 0 {
		return fmt.Errorf("%w: video max size must be positive", ErrInvalid)
	}
	if c.Player.Volume < 0 || c.Player.Volume > 100 {
		return fmt.Errorf("%w: player.volume must be within 0..100", ErrInvalid)
	}
	if c.Player.Rate <= 0 {
		return fmt.Errorf("%w: player.rate must be positive", ErrInvalid)
	}
	if _, err := playlist.ParseMode(c.Player.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Snapshot.Dir != "" && c.Snapshot.Every <= 0 {
		return fmt.Errorf("%w: snapshot.every must be positive", ErrInvalid)
	}
	if c.Snapshot.MaxWidth < 0 {
		return fmt.Errorf("%w: snapshot.max_width must not be negative", ErrInvalid)
	}
	return nil
}

// ToEngineOptions converts the engine and player sections to engine.Options.
func (c Config) ToEngineOptions() engine.Options {
	e := c.Engine
	return engine.Options{
		BufferCapacity: e.BufferCapacity,
		RefillBatch:    e.RefillBatch,
		FrameTick:      ms(e.FrameTickMs),
		PositionTick:   ms(e.PositionTickMs),
		SyncTick:       ms(e.SyncTickMs),
		Sync: avsync.Config{
			SoftThreshold:     ms(e.SoftThresholdMs),
			HardThreshold:     ms(e.HardThresholdMs),
			MinResyncInterval: ms(e.MinResyncIntervalMs),
		},
		MaxDecodeRetries: e.MaxDecodeRetries,
		MaxDropPerTick:   e.MaxDropPerTick,
		Volume:           c.Player.Volume,
		Rate:             c.Player.Rate,
	}
}

// FallbackDuration returns engine.fallback_duration_ms as a Duration.
func (c Config) FallbackDuration() time.Duration {
	return time.Duration(c.Engine.FallbackDurationMs) * time.Millisecond
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
