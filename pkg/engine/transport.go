package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// SetMedia stops playback and loads location without opening it.
func (e *Engine) SetMedia(location string) {
	e.lock()
	defer e.unlock()

	e.stopLocked(StopMediaChanged)
	e.media = &MediaHandle{ID: uuid.NewString(), Location: location}
	e.lastDuration = -1
	e.clock.SetDuration(0)
	e.clock.Reset(0)
	e.log.Debug("Media set to %s", location)
}

// Play starts or resumes playback. It is a no-op while playing.
func (e *Engine) Play(ctx context.Context) error {
	e.lock()
	defer e.unlock()

	switch e.state {
	case Playing:
		return nil
	case Paused:
		e.renderer.SetPaused(false)
		e.state = Playing
		e.startTicksLocked()
		e.emitState()
		e.log.Info("Resumed at %d ms", e.clock.Position())
		return nil
	}

	if e.media == nil {
		return ErrNoMedia
	}
	offset := int64(0)
	if e.pendingSeek >= 0 {
		offset = e.pendingSeek
	}
	if err := e.openLocked(ctx, offset); err != nil {
		e.log.Error("Failed to open %s: %v", e.media.Location, err)
		return fmt.Errorf("%w: %w", ErrMediaOpen, err)
	}
	e.pendingSeek = -1

	e.state = Playing
	e.renderer.SetPaused(false)
	e.startTicksLocked()
	e.emitState()
	e.log.Info("Playing %s from %d ms", e.media.Location, offset)
	return nil
}

// Pause suspends playback, keeping decoder and audio resources for a fast
// resume. It only acts while playing.
func (e *Engine) Pause() {
	e.lock()
	defer e.unlock()

	if e.state != Playing {
		return
	}
	pos := e.sampleClockLocked()
	e.stopTicksLocked()
	e.renderer.SetPaused(true)
	e.state = Paused
	e.emitPosition(pos)
	e.emitState()
	e.log.Info("Paused at %d ms", pos)
}

// Stop ends playback and releases all media resources.
func (e *Engine) Stop() {
	e.lock()
	defer e.unlock()
	e.stopLocked(StopUser)
}

// SetPosition seeks to ms, clamped to [0, duration] when the duration is
// known. While stopped the target is remembered and applied by the next Play.
// If both the fast seek and the full re-init fail, playback continues where
// it was and ErrSeek is returned.
func (e *Engine) SetPosition(ctx context.Context, ms int64) error {
	e.lock()
	defer e.unlock()

	if e.media == nil {
		return ErrNoMedia
	}
	ms = max(ms, 0)
	if d := e.durationLocked(); e.durationTrustedLocked() && ms > d {
		ms = d
	}

	if e.state == Stopped {
		e.pendingSeek = ms
		e.clock.Reset(ms)
		e.emitPosition(ms)
		return nil
	}

	wasPlaying := e.state == Playing
	if wasPlaying {
		e.sampleClockLocked()
	}
	e.stopTicksLocked()
	e.stats.Seeks++

	if err := e.fastSeekLocked(ctx, ms); err != nil {
		e.log.Warn("Fast seek to %d ms failed, reinitializing: %v", ms, err)
		e.stats.SeekFallbacks++
		if err := e.reinitLocked(ctx, ms); err != nil {
			e.log.Error("Seek to %d ms failed: %v", ms, err)
			if wasPlaying {
				e.startTicksLocked()
			}
			return fmt.Errorf("%w: %w", ErrSeek, err)
		}
	}

	e.emitPosition(ms)
	if wasPlaying {
		e.startTicksLocked()
	}
	e.log.Debug("Seeked to %d ms", ms)
	return nil
}

// SetVolume sets the volume, clamped to 0..100.
func (e *Engine) SetVolume(volume int) {
	e.lock()
	defer e.unlock()
	e.volume = clampVolume(volume)
	e.renderer.SetVolume(e.volume)
}

// StepVolume changes the volume by delta and returns the new value.
func (e *Engine) StepVolume(delta int) int {
	e.lock()
	defer e.unlock()
	e.volume = clampVolume(e.volume + delta)
	e.renderer.SetVolume(e.volume)
	return e.volume
}

// SetPlaybackRate changes how fast the clock advances. Audio pitch is not
// adjusted; the sync controller keeps audio near the clock.
func (e *Engine) SetPlaybackRate(rate float64) error {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return ErrInvalidRate
	}
	e.lock()
	defer e.unlock()
	if e.state == Playing {
		e.sampleClockLocked()
	}
	e.rate = rate
	return nil
}

func (e *Engine) stopLocked(reason StopReason) {
	active := e.state != Stopped || e.source != nil
	pos := e.clock.Position()

	e.stopTicksLocked()
	e.releaseLocked()
	e.clock.Reset(0)
	e.pendingSeek = -1

	if !active {
		return
	}
	e.state = Stopped
	e.lastStop = StopInfo{Reason: reason, PositionMs: pos}
	if e.media != nil {
		e.lastStop.Media = *e.media
	}
	e.emitPosition(0)
	e.emitState()
	e.log.Info("Stopped at %d ms (%s)", pos, reason)

	if reason.Advances() && e.deps.Playlist != nil {
		e.later(e.deps.Playlist.Next)
	}
}
