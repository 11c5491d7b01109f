package engine

import (
	"time"

	"github.com/user/xplayer/pkg/avsync"
	"github.com/user/xplayer/pkg/framebuffer"
)

const (
	DefaultFrameTick        = 33 * time.Millisecond
	DefaultPositionTick     = 100 * time.Millisecond
	DefaultSyncTick         = 100 * time.Millisecond
	DefaultVolume           = 50
	DefaultFrameRate        = 30.0
	DefaultMaxDecodeRetries = 3
	DefaultMaxDropPerTick   = 5
	DefaultSeekReadAhead    = 2
)

// PlaybackRates lists the rates offered to users.
var PlaybackRates = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

// Options tunes the engine.
type Options struct {
	BufferCapacity int
	RefillBatch    int

	// SeekReadAhead multiplies the buffer capacity after a seek.
	SeekReadAhead int

	FrameTick    time.Duration
	PositionTick time.Duration
	SyncTick     time.Duration

	Sync avsync.Config

	MaxDecodeRetries int
	MaxDropPerTick   int

	Volume int
	Rate   float64
}

// DefaultOptions returns the default tuning.
func DefaultOptions() Options {
	return Options{
		BufferCapacity:   framebuffer.DefaultCapacity,
		RefillBatch:      framebuffer.DefaultBatch,
		SeekReadAhead:    DefaultSeekReadAhead,
		FrameTick:        DefaultFrameTick,
		PositionTick:     DefaultPositionTick,
		SyncTick:         DefaultSyncTick,
		Sync:             avsync.DefaultConfig(),
		MaxDecodeRetries: DefaultMaxDecodeRetries,
		MaxDropPerTick:   DefaultMaxDropPerTick,
		Volume:           DefaultVolume,
		Rate:             1.0,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.BufferCapacity <= 0 {
		o.BufferCapacity = def.BufferCapacity
	}
	if o.RefillBatch <= 0 {
		o.RefillBatch = def.RefillBatch
	}
	if o.SeekReadAhead <= 0 {
		o.SeekReadAhead = def.SeekReadAhead
	}
	if o.FrameTick <= 0 {
		o.FrameTick = def.FrameTick
	}
	if o.PositionTick <= 0 {
		o.PositionTick = def.PositionTick
	}
	if o.SyncTick <= 0 {
		o.SyncTick = def.SyncTick
	}
	if o.MaxDecodeRetries <= 0 {
		o.MaxDecodeRetries = def.MaxDecodeRetries
	}
	if o.MaxDropPerTick < 0 {
		o.MaxDropPerTick = 0
	}
	if o.Rate <= 0 {
		o.Rate = def.Rate
	}
	o.Volume = clampVolume(o.Volume)
	return o
}

func clampVolume(v int) int {
	return min(max(v, 0), 100)
}
