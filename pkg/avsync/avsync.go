// Package avsync keeps the audio render cursor aligned with the playback clock.
// The clock is trusted; audio is always the side that gets corrected.
package avsync

import (
	"time"

	"github.com/user/xplayer/pkg/ports"
)

const (
	DefaultSoftThreshold     = 250 * time.Millisecond
	DefaultHardThreshold     = 1000 * time.Millisecond
	DefaultMinResyncInterval = 2 * time.Second
)

// Config holds the drift thresholds.
type Config struct {
	SoftThreshold     time.Duration
	HardThreshold     time.Duration
	MinResyncInterval time.Duration
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		SoftThreshold:     DefaultSoftThreshold,
		HardThreshold:     DefaultHardThreshold,
		MinResyncInterval: DefaultMinResyncInterval,
	}
}

// AudioClock is the audio side under correction. RendererClock adapts an
// audio.Renderer to it.
type AudioClock interface {
	// PositionMs returns the media time audio is playing, or false when no
	// audio is active.
	PositionMs() (int64, bool)

	// RepositionMs asks the render path to continue from media time ms.
	RepositionMs(ms int64)
}

// Decision is the outcome of one Check.
type Decision int

const (
	InSync Decision = iota
	Drifting
	Resynced
	NoAudio
)

func (d Decision) String() string {
	switch d {
	case InSync:
		return "in-sync"
	case Drifting:
		return "drifting"
	case Resynced:
		return "resynced"
	case NoAudio:
		return "no-audio"
	default:
		return "unknown"
	}
}

// State is the transient synchronization state.
type State struct {
	LastCheck      time.Time
	LastCorrection time.Time
	DriftMs        int64
}

// Stats accumulates over the life of a Controller.
type Stats struct {
	Checks     int
	Drifts     int
	Resyncs    int
	Seeks      int
	MaxDriftMs int64
}

// Controller compares audio time against the clock and repositions audio.
// It runs on the control path only.
type Controller struct {
	cfg   Config
	audio AudioClock
	log   ports.Logger

	state State
	stats Stats
}

// New creates a Controller.
func New(cfg Config, audio AudioClock, log ports.Logger) *Controller {
	def := DefaultConfig()
	if cfg.SoftThreshold <= 0 {
		cfg.SoftThreshold = def.SoftThreshold
	}
	if cfg.HardThreshold <= 0 {
		cfg.HardThreshold = def.HardThreshold
	}
	if cfg.MinResyncInterval <= 0 {
		cfg.MinResyncInterval = def.MinResyncInterval
	}
	return &Controller{cfg: cfg, audio: audio, log: log}
}

// Check compares audio against videoMs at time now and issues a resync when
// drift exceeds the hard threshold and the last correction is old enough.
func (c *Controller) Check(now time.Time, videoMs int64) Decision {
	audioMs, ok := c.audio.PositionMs()
	c.state.LastCheck = now
	if !ok {
		c.state.DriftMs = 0
		return NoAudio
	}
	c.stats.Checks++

	drift := audioMs - videoMs
	if drift < 0 {
		drift = -drift
	}
	c.state.DriftMs = drift
	if drift > c.stats.MaxDriftMs {
		c.stats.MaxDriftMs = drift
	}

	if drift <= c.cfg.SoftThreshold.Milliseconds() {
		return InSync
	}
	c.stats.Drifts++
	c.log.Debug("A/V drift %d ms (audio %d ms, video %d ms)", drift, audioMs, videoMs)

	if drift <= c.cfg.HardThreshold.Milliseconds() {
		return Drifting
	}
	if !c.state.LastCorrection.IsZero() && now.Sub(c.state.LastCorrection) < c.cfg.MinResyncInterval {
		return Drifting
	}

	c.audio.RepositionMs(videoMs)
	c.state.LastCorrection = now
	c.stats.Resyncs++
	c.log.Warn("Resyncing audio to %d ms after %d ms drift", videoMs, drift)
	return Resynced
}

// SeekTo moves audio to ms as part of an explicit seek. It does not count as a
// drift correction.
func (c *Controller) SeekTo(ms int64) {
	c.audio.RepositionMs(ms)
	c.state.DriftMs = 0
	c.stats.Seeks++
}

// State returns the current synchronization state.
func (c *Controller) State() State { return c.state }

// Stats returns the accumulated statistics.
func (c *Controller) Stats() Stats { return c.stats }
