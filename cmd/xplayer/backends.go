package main

import (
	"github.com/user/xplayer/pkg/adapters/astiavprobe"
	"github.com/user/xplayer/pkg/adapters/beepdevice"
	"github.com/user/xplayer/pkg/adapters/ffmpegaudio"
	"github.com/user/xplayer/pkg/adapters/ffmpegsource"
	"github.com/user/xplayer/pkg/adapters/ffprobe"
	"github.com/user/xplayer/pkg/adapters/ggrenderer"
	"github.com/user/xplayer/pkg/adapters/malgodevice"
	"github.com/user/xplayer/pkg/adapters/mp4probe"
	"github.com/user/xplayer/pkg/adapters/nulldevice"
	"github.com/user/xplayer/pkg/adapters/nullpresenter"
	"github.com/user/xplayer/pkg/adapters/osfilesystem"
	"github.com/user/xplayer/pkg/adapters/snapshotpresenter"
	"github.com/user/xplayer/pkg/adapters/sqlitehistory"
	"github.com/user/xplayer/pkg/adapters/ytdlpresolver"
	"github.com/user/xplayer/pkg/config"
	"github.com/user/xplayer/pkg/metadata"
	"github.com/user/xplayer/pkg/ports"
)

// backends holds the concrete adapters one command runs with.
type backends struct {
	fs        *osfilesystem.FileSystem
	meta      *metadata.Resolver
	opener    *ffmpegsource.Opener
	extractor *ffmpegaudio.Extractor
	resolver  *ytdlpresolver.Resolver
	device    ports.AudioDevice
	presenter ports.Presenter
	snapshots *snapshotpresenter.Presenter
	history   *sqlitehistory.Store
}

// newMetadataResolver chains the in-process probers (mp4ff for ISO-BMFF,
// libavformat for everything else) and ffprobe as the external step.
func newMetadataResolver(cfg config.Config, fs ports.FileSystem, log ports.Logger) *metadata.Resolver {
	probers := []ports.MetadataProber{mp4probe.New(), astiavprobe.New()}
	return metadata.NewResolver(log, probers,
		metadata.WithExternal(ffprobe.New()),
		metadata.WithFileSystem(fs),
		metadata.WithFallback(cfg.FallbackDuration()),
		metadata.WithDefaultFrameRate(cfg.Engine.DefaultFrameRate),
	)
}

func newBackends(cfg config.Config, log ports.Logger) *backends {
	fs := osfilesystem.New()
	meta := newMetadataResolver(cfg, fs, log)

	b := &backends{
		fs:   fs,
		meta: meta,
		opener: ffmpegsource.NewOpener(meta, ffmpegsource.Options{
			MaxWidth:  cfg.Video.MaxWidth,
			MaxHeight: cfg.Video.MaxHeight,
		}, log),
		extractor: ffmpegaudio.NewExtractor(fs, ffmpegaudio.Options{
			SampleRate: cfg.Audio.SampleRate,
			Channels:   cfg.Audio.Channels,
		}, log),
		resolver: ytdlpresolver.New(log),
	}

	switch cfg.Audio.Device {
	case config.DeviceMalgo:
		b.device = malgodevice.New(cfg.Audio.BufferFrames, log)
	case config.DeviceNone:
		b.device = nulldevice.New(cfg.Audio.BufferFrames)
	default:
		b.device = beepdevice.New(cfg.Audio.BufferFrames)
	}

	if cfg.Snapshot.Dir != "" {
		b.snapshots = snapshotpresenter.New(fs, ggrenderer.New(), log, snapshotpresenter.Options{
			Dir:      cfg.Snapshot.Dir,
			Every:    cfg.Snapshot.Every,
			OSD:      cfg.Snapshot.OSD,
			MaxWidth: cfg.Snapshot.MaxWidth,
			FontPath: cfg.Snapshot.FontPath,
		})
		b.presenter = b.snapshots
	} else {
		b.presenter = nullpresenter.New()
	}

	if cfg.History.Enabled {
		store, err := sqlitehistory.Open(cfg.History.Path)
		if err != nil {
			log.Warn("History disabled, cannot open %s: %v", cfg.History.Path, err)
		} else {
			b.history = store
		}
	}
	return b
}

// historyStore returns the store as a port, or nil when history is off.
func (b *backends) historyStore() ports.HistoryStore {
	if b.history == nil {
		return nil
	}
	return b.history
}

func (b *backends) Close() {
	if b.snapshots != nil {
		b.snapshots.Close()
	}
	if b.device != nil {
		b.device.Close()
	}
	if b.history != nil {
		b.history.Close()
	}
}
