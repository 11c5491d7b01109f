package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/user/xplayer/pkg/audio"
	"github.com/user/xplayer/pkg/ports"
)

// openLocked resolves and opens the current media at offset and installs
// the resulting sources.
func (e *Engine) openLocked(ctx context.Context, offset int64) error {
	resolved := ports.Resolved{Video: e.media.Location}
	if e.deps.Resolver != nil {
		r, err := e.deps.Resolver.Resolve(ctx, e.media.Location)
		if err != nil {
			return err
		}
		resolved = r
	}
	if resolved.Audio == "" {
		resolved.Audio = resolved.Video
	}

	e.renderer.SetPaused(true)
	src, buf, err := e.openSources(ctx, resolved, ports.OpenOptions{
		StartOffsetMs:   offset,
		ReadAheadFrames: e.opts.BufferCapacity,
	})
	if err != nil {
		return err
	}
	if !src.Metadata().HasVideo() && buf == nil && offset == 0 {
		e.closeSource(src)
		return fmt.Errorf("no video stream and no audio in %s", resolved.Audio)
	}

	e.media.Resolved = resolved
	e.media.Metadata = src.Metadata()
	if e.media.Metadata.FrameRate <= 0 {
		e.media.Metadata.FrameRate = DefaultFrameRate
	}
	if e.media.Metadata.Location == "" {
		e.media.Metadata.Location = resolved.Video
	}

	e.installSourceLocked(src, offset, 1)
	e.installAudioLocked(buf, offset)
	e.emitDuration(e.media.Metadata.DurationMs)
	return nil
}

// openSources opens video and extracts audio concurrently. Both are joined
// before returning. Audio failure is not an error: the buffer is nil and
// playback continues video-only.
func (e *Engine) openSources(ctx context.Context, resolved ports.Resolved, opts ports.OpenOptions) (ports.FrameSource, *audio.Buffer, error) {
	g, gctx := errgroup.WithContext(ctx)

	var src ports.FrameSource
	var track *ports.AudioTrack

	g.Go(func() error {
		s, err := e.deps.Opener.Open(gctx, resolved.Video, opts)
		if err != nil {
			return err
		}
		src = s
		return nil
	})
	if e.deps.Audio != nil {
		g.Go(func() error {
			t, err := e.deps.Audio.Extract(gctx, resolved.Audio, opts.StartOffsetMs)
			if err != nil {
				if gctx.Err() == nil {
					e.stats.AudioFailures++
					e.log.Warn("Audio unavailable, continuing without sound: %v", err)
				}
				return nil
			}
			track = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if src != nil {
			e.closeSource(src)
		}
		e.releaseTrack(track)
		return nil, nil, err
	}
	if track == nil || track.Frames() == 0 {
		e.releaseTrack(track)
		return src, nil, nil
	}
	return src, audio.NewBuffer(track), nil
}

// installSourceLocked swaps in src positioned at offset and prefills the
// frame buffer at readAhead times its capacity.
func (e *Engine) installSourceLocked(src ports.FrameSource, offset int64, readAhead int) {
	old := e.source
	e.source = src

	e.frames.Clear()
	e.frames.Expand(readAhead)
	e.frames.Prefill(src, e.frames.Capacity())

	e.segmentStartMs = offset
	e.segmentFrames = 0
	e.decodeRetries = 0

	if e.durationTrustedLocked() {
		e.clock.SetDuration(e.media.Metadata.DurationMs)
	} else {
		e.clock.SetDuration(0)
	}
	e.clock.Reset(offset)

	if old != nil && old != src {
		e.closeSource(old)
	}
}

// installAudioLocked makes buf the rendered buffer positioned at atMs and
// releases whatever it replaces. A nil buf leaves playback silent.
func (e *Engine) installAudioLocked(buf *audio.Buffer, atMs int64) {
	old := e.renderer.Buffer()

	switch {
	case buf == nil:
		e.renderer.Install(nil, 0)
	case !e.ensureDeviceLocked(buf.SampleRate(), buf.Channels()):
		e.renderer.Install(nil, 0)
		e.releaseTrack(buf.Track())
	default:
		e.renderer.Install(buf, buf.FrameAt(atMs))
	}

	if old != nil && old != buf {
		e.releaseTrack(old.Track())
	}
}

func (e *Engine) ensureDeviceLocked(rate, channels int) bool {
	if e.deps.Device == nil {
		return false
	}
	if e.deviceOpen && e.deviceRate == rate && e.deviceChannels == channels {
		return true
	}
	e.closeDeviceLocked()

	if err := e.deps.Device.Open(rate, channels, e.renderer.Render); err != nil {
		e.stats.AudioFailures++
		e.log.Warn("Audio device unavailable, continuing without sound: %v", err)
		return false
	}
	if err := e.deps.Device.Start(); err != nil {
		e.stats.AudioFailures++
		e.log.Warn("Audio device failed to start: %v", err)
		if err := e.deps.Device.Close(); err != nil {
			e.log.Warn("Failed to close audio device: %v", err)
		}
		return false
	}
	e.deviceOpen = true
	e.deviceRate = rate
	e.deviceChannels = channels
	return true
}

func (e *Engine) closeDeviceLocked() {
	if !e.deviceOpen {
		return
	}
	e.deviceOpen = false
	if err := e.deps.Device.Close(); err != nil {
		e.log.Warn("Failed to close audio device: %v", err)
	}
}

// releaseLocked tears down every per-media resource. Errors are logged only.
func (e *Engine) releaseLocked() {
	if e.source != nil {
		e.closeSource(e.source)
		e.source = nil
	}
	e.frames.Clear()

	e.renderer.SetPaused(true)
	e.closeDeviceLocked()
	if buf := e.renderer.Buffer(); buf != nil {
		e.renderer.Install(nil, 0)
		e.releaseTrack(buf.Track())
	}
}

// fastSeekLocked reopens only the video path at ms. Audio is repositioned
// within its current buffer, or re-extracted when ms lies outside it.
func (e *Engine) fastSeekLocked(ctx context.Context, ms int64) error {
	src, err := e.deps.Opener.Open(ctx, e.media.Resolved.Video, ports.OpenOptions{
		StartOffsetMs:   ms,
		ReadAheadFrames: e.opts.BufferCapacity * e.opts.SeekReadAhead,
	})
	if err != nil {
		return err
	}

	if buf := e.renderer.Buffer(); buf != nil && !buf.Covers(ms) {
		e.installAudioLocked(e.extractAudio(ctx, ms), ms)
	}

	e.installSourceLocked(src, ms, e.opts.SeekReadAhead)
	e.sync.SeekTo(ms)
	return nil
}

// reinitLocked reopens both video and audio at ms. The current sources stay
// in place when opening fails.
func (e *Engine) reinitLocked(ctx context.Context, ms int64) error {
	src, buf, err := e.openSources(ctx, e.media.Resolved, ports.OpenOptions{
		StartOffsetMs:   ms,
		ReadAheadFrames: e.opts.BufferCapacity * e.opts.SeekReadAhead,
	})
	if err != nil {
		return err
	}
	e.installSourceLocked(src, ms, e.opts.SeekReadAhead)
	e.installAudioLocked(buf, ms)
	e.sync.SeekTo(ms)
	return nil
}

// extractAudio re-extracts audio from ms. It blocks until the track is
// ready so audio never resumes from a partial buffer.
func (e *Engine) extractAudio(ctx context.Context, ms int64) *audio.Buffer {
	if e.deps.Audio == nil {
		return nil
	}
	track, err := e.deps.Audio.Extract(ctx, e.media.Resolved.Audio, ms)
	if err != nil {
		e.stats.AudioFailures++
		e.log.Warn("Audio unavailable after seek: %v", err)
		return nil
	}
	if track.Frames() == 0 {
		e.releaseTrack(track)
		return nil
	}
	return audio.NewBuffer(track)
}

func (e *Engine) closeSource(src ports.FrameSource) {
	if err := src.Close(); err != nil {
		e.log.Warn("Failed to close frame source: %v", err)
	}
}

func (e *Engine) releaseTrack(track *ports.AudioTrack) {
	if track == nil || e.deps.Audio == nil {
		return
	}
	if err := e.deps.Audio.Release(track); err != nil {
		e.log.Warn("Failed to release audio track: %v", err)
	}
}
