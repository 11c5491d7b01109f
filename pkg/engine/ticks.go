package engine

import "time"

// startTicksLocked starts the frame, position and sync tasks. Each task
// carries the generation it was started under and does nothing once the
// generation moves on, so a stop inside a tick never races a stale tick.
func (e *Engine) startTicksLocked() {
	e.stopTicksLocked()
	e.lastSample = e.deps.Scheduler.Now()
	gen := e.gen

	e.tasks = append(e.tasks,
		e.deps.Scheduler.Every(e.frameIntervalLocked(), func() { e.frameTick(gen) }),
		e.deps.Scheduler.Every(e.opts.PositionTick, func() { e.positionTick(gen) }),
		e.deps.Scheduler.Every(e.opts.SyncTick, func() { e.syncTick(gen) }),
	)
}

func (e *Engine) stopTicksLocked() {
	for _, t := range e.tasks {
		t.Stop()
	}
	e.tasks = nil
	e.gen++
}

// frameIntervalLocked is the configured frame tick, shortened to one media
// frame when the media runs faster than the tick.
func (e *Engine) frameIntervalLocked() time.Duration {
	interval := e.opts.FrameTick
	if e.media != nil {
		if ms := e.media.Metadata.FrameIntervalMs(); ms > 0 {
			if d := time.Duration(ms * float64(time.Millisecond)); d < interval {
				interval = d
			}
		}
	}
	return interval
}

// sampleClockLocked advances the clock by the wall time since the previous
// sample.
func (e *Engine) sampleClockLocked() int64 {
	now := e.deps.Scheduler.Now()
	elapsed := now.Sub(e.lastSample)
	e.lastSample = now
	return e.clock.Tick(elapsed, e.rate)
}

func (e *Engine) active(gen uint64) bool {
	return gen == e.gen && e.state == Playing && e.source != nil
}

// frameTick presents the newest frame that is due by the clock. Frame i of
// the current segment is due at segmentStart + i frame intervals. Late frames
// are dropped, bounded per tick; when ahead the current frame is held.
func (e *Engine) frameTick(gen uint64) {
	e.lock()
	defer e.unlock()
	if !e.active(gen) {
		return
	}

	pos := e.sampleClockLocked()
	if !e.media.Metadata.HasVideo() {
		e.audioOnlyTickLocked(pos)
		return
	}
	due := int64(float64(pos-e.segmentStartMs) / e.media.Metadata.FrameIntervalMs())
	if e.segmentFrames > due {
		e.frames.Refill(e.source)
		return
	}

	for dropped := 0; e.segmentFrames < due && dropped < e.opts.MaxDropPerTick; dropped++ {
		if _, ok := e.frames.Next(e.source); !ok {
			break
		}
		e.segmentFrames++
		e.stats.FramesDropped++
	}

	frame, ok := e.frames.Next(e.source)
	if !ok {
		e.starvedLocked()
		return
	}
	e.decodeRetries = 0
	e.segmentFrames++
	e.stats.FramesPresented++
	if p := e.deps.Presenter; p != nil {
		e.later(func() { p.Present(frame) })
	}
	e.frames.Refill(e.source)
}

// starvedLocked handles a tick with no frame: a clean end of stream stops
// playback, a decode failure is retried on the next tick until the retry
// budget is spent.
func (e *Engine) starvedLocked() {
	if e.frames.Exhausted() {
		e.log.Debug("Frame source exhausted after %d frames", e.segmentFrames)
		e.stopLocked(StopEndOfStream)
		return
	}
	e.decodeRetries++
	e.stats.DecodeRetries++
	if e.decodeRetries >= e.opts.MaxDecodeRetries {
		e.log.Warn("Giving up after %d failed frame reads: %v", e.decodeRetries, e.source.Err())
		e.stopLocked(StopDecodeFailure)
		return
	}
	e.log.Debug("Frame read failed, retrying: %v", e.source.Err())
}

// audioOnlyTickLocked stands in for frame presentation when the media has no
// picture. Playback ends once the rendered track runs out.
func (e *Engine) audioOnlyTickLocked(pos int64) {
	if e.renderer.Buffer() == nil || e.renderer.Ended() {
		e.log.Debug("Audio track ended at %d ms", pos)
		e.stopLocked(StopEndOfStream)
	}
}

// positionTick reports the clock and stops at a trusted duration.
func (e *Engine) positionTick(gen uint64) {
	e.lock()
	defer e.unlock()
	if !e.active(gen) {
		return
	}

	pos := e.sampleClockLocked()
	e.emitPosition(pos)
	if e.durationTrustedLocked() && e.clock.AtEnd() {
		e.log.Debug("Position reached duration %d ms", pos)
		e.stopLocked(StopEndOfStream)
	}
}

func (e *Engine) syncTick(gen uint64) {
	e.lock()
	defer e.unlock()
	if !e.active(gen) {
		return
	}
	pos := e.sampleClockLocked()
	e.sync.Check(e.deps.Scheduler.Now(), pos)
}
