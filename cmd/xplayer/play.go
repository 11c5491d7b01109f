package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/xplayer/pkg/config"
	"github.com/user/xplayer/pkg/engine"
	"github.com/user/xplayer/pkg/playlist"
	"github.com/user/xplayer/pkg/ports"
	"github.com/user/xplayer/pkg/scheduler"
	"github.com/user/xplayer/pkg/summarizer"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     l10n.T("Play one or more media files or URLs"),
		ArgsUsage: "<location>...",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: l10n.T("Play mode (sequential, random, once, repeat-one, loop)"), Category: l10n.T("Playback")},
			&cli.IntFlag{Name: "volume", Aliases: []string{"v"}, Usage: l10n.T("Volume (0-100)"), Category: l10n.T("Playback")},
			&cli.Float64Flag{Name: "rate", Aliases: []string{"r"}, Usage: l10n.T("Playback rate (e.g. 0.5, 1.0, 2.0)"), Category: l10n.T("Playback")},
			&cli.Int64Flag{Name: "start", Aliases: []string{"s"}, Usage: l10n.T("Start position of the first item in milliseconds"), Category: l10n.T("Playback")},
			&cli.BoolFlag{Name: "resume", Usage: l10n.T("Resume each item where it was last stopped"), Category: l10n.T("Playback")},
			&cli.StringFlag{Name: "device", Aliases: []string{"d"}, Usage: l10n.T("Audio output (beep, malgo, none)"), Category: l10n.T("Audio")},
			&cli.StringFlag{Name: "snapshot-dir", Usage: l10n.T("Save frame snapshots to this directory"), Category: l10n.T("Snapshots")},
			&cli.IntFlag{Name: "snapshot-every", Usage: l10n.T("Save every Nth presented frame"), Category: l10n.T("Snapshots")},
			&cli.IntFlag{Name: "snapshot-width", Usage: l10n.T("Scale snapshots down to this width"), Category: l10n.T("Snapshots")},
			&cli.BoolFlag{Name: "no-osd", Usage: l10n.T("Do not draw the status bar on snapshots"), Category: l10n.T("Snapshots")},
			&cli.StringFlag{Name: "summary", Usage: l10n.T("Write a session summary to file (Markdown format)"), Category: l10n.T("Output")},
			&cli.StringFlag{Name: "history-db", Usage: l10n.T("Play history database path"), Category: l10n.T("History")},
			&cli.BoolFlag{Name: "no-history", Usage: l10n.T("Do not record play history"), Category: l10n.T("History")},
			&cli.StringFlag{Name: "ffmpeg", Usage: l10n.T("Path to the ffmpeg executable"), Category: l10n.T("Configuration")},
			&cli.StringFlag{Name: "ffprobe", Usage: l10n.T("Path to the ffprobe executable"), Category: l10n.T("Configuration")},
			logLevelFlag(),
			quietFlag(),
		},
		Action: runPlay,
	}
}

func runPlay(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New(l10n.T("At least one location is required"))
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(c, cfg)
	mode, _ := playlist.ParseMode(cfg.Player.Mode)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go exitOnSecondSignal(ctx)

	b := newBackends(cfg, log)
	defer b.Close()

	eng := engine.New(engine.Deps{
		Opener:    b.opener,
		Audio:     b.extractor,
		Device:    b.device,
		Presenter: b.presenter,
		Resolver:  b.resolver,
		Scheduler: scheduler.NewTicker(),
		Logger:    log,
	}, cfg.ToEngineOptions())

	sess := newSession(eng, b.historyStore(), log)
	sess.resume = c.Bool("resume")
	if c.IsSet("start") {
		sess.startMs = c.Int64("start")
	}

	listeners := engine.Listeners{sess}
	if b.snapshots != nil {
		listeners = append(listeners, engine.ListenerFuncs{
			OnState:    func(s engine.State) { b.snapshots.SetState(s.String()) },
			OnDuration: b.snapshots.SetDuration,
		})
	}
	eng.SetListener(listeners)

	locations := expandLocations(b.fs, c.Args().Slice(), log)
	if len(locations) == 0 {
		return errors.New(l10n.T("No media files to play"))
	}

	pl := playlist.New(ctx, sess, log, playlist.WithMode(mode))
	pl.Add(locations...)
	eng.SetPlaylist(pl)

	started := time.Now()
	log.Info("Playing %d item(s) in %s mode", pl.Len(), mode)
	pl.Start()

	select {
	case <-pl.Done():
	case <-ctx.Done():
		log.Warn("Interrupted, shutting down...")
	}
	eng.SetPlaylist(nil)
	eng.Stop()

	if path := c.String("summary"); path != "" {
		writeSummary(path, cfg, started, sess, eng.Stats(), b, log)
	}
	return nil
}

func writeSummary(path string, cfg config.Config, started time.Time, sess *session, stats engine.Stats, b *backends, log ports.Logger) {
	summary := summarizer.NewBuilder().
		StartedAt(started).
		WithSettings(summarizer.Settings{
			Mode:   cfg.Player.Mode,
			Volume: cfg.Player.Volume,
			Rate:   cfg.Player.Rate,
			Device: cfg.Audio.Device,
		}).
		WithStats(summarizer.StatsInfo{
			FramesPresented: stats.FramesPresented,
			FramesDropped:   stats.FramesDropped,
			DecodeRetries:   stats.DecodeRetries,
			Seeks:           stats.Seeks,
			SeekFallbacks:   stats.SeekFallbacks,
			AudioFailures:   stats.AudioFailures,
			Resyncs:         stats.Sync.Resyncs,
			MaxDriftMs:      stats.Sync.MaxDriftMs,
		})
	for _, item := range sess.Items() {
		summary.AddItem(item)
	}

	w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), b.fs)
	if err := w.Write(path, summary.Build()); err != nil {
		log.Error("Failed to write summary: %v", err)
		return
	}
	log.Info("Summary saved to %s", path)
}

// exitOnSecondSignal lets a second interrupt kill a stuck shutdown.
func exitOnSecondSignal(ctx context.Context) {
	<-ctx.Done()
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	os.Exit(130)
}
