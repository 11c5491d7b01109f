package main

import (
	"github.com/urfave/cli/v2"

	"github.com/user/xplayer/pkg/adapters/ffmpeg"
	"github.com/user/xplayer/pkg/adapters/logger"
	"github.com/user/xplayer/pkg/config"
	"github.com/user/xplayer/pkg/ports"
)

// loadConfig reads --config (or the defaults) and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("mode") {
		cfg.Player.Mode = c.String("mode")
	}
	if c.IsSet("volume") {
		cfg.Player.Volume = c.Int("volume")
	}
	if c.IsSet("rate") {
		cfg.Player.Rate = c.Float64("rate")
	}
	if c.IsSet("device") {
		cfg.Audio.Device = c.String("device")
	}
	if c.IsSet("snapshot-dir") {
		cfg.Snapshot.Dir = c.String("snapshot-dir")
	}
	if c.IsSet("snapshot-every") {
		cfg.Snapshot.Every = c.Int("snapshot-every")
	}
	if c.IsSet("snapshot-width") {
		cfg.Snapshot.MaxWidth = c.Int("snapshot-width")
	}
	if c.IsSet("no-osd") {
		cfg.Snapshot.OSD = !c.Bool("no-osd")
	}
	if c.IsSet("history-db") {
		cfg.History.Path = c.String("history-db")
	}
	if c.IsSet("no-history") {
		cfg.History.Enabled = !c.Bool("no-history")
	}
	if c.IsSet("ffmpeg") {
		cfg.FFmpeg.FFmpegPath = c.String("ffmpeg")
	}
	if c.IsSet("ffprobe") {
		cfg.FFmpeg.FFprobePath = c.String("ffprobe")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	if cfg.FFmpeg.FFmpegPath != "" {
		ffmpeg.SetFFmpegPath(cfg.FFmpeg.FFmpegPath)
	}
	if cfg.FFmpeg.FFprobePath != "" {
		ffmpeg.SetFFprobePath(cfg.FFmpeg.FFprobePath)
	}
	return cfg, nil
}

func newLogger(c *cli.Context, cfg config.Config) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
}
