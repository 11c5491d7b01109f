// Package audio holds decoded PCM and the real-time render path that plays it.
package audio

import "github.com/user/xplayer/pkg/ports"

// Buffer is read-only PCM with a known rate and channel count. Positions are
// expressed in sample frames (one sample per channel) relative to the start
// of the track.
type Buffer struct {
	track *ports.AudioTrack
}

// NewBuffer wraps an extracted track.
func NewBuffer(track *ports.AudioTrack) *Buffer {
	return &Buffer{track: track}
}

// Track returns the wrapped track.
func (b *Buffer) Track() *ports.AudioTrack { return b.track }

// SampleRate returns the track sample rate.
func (b *Buffer) SampleRate() int { return b.track.SampleRate }

// Channels returns the number of interleaved channels.
func (b *Buffer) Channels() int { return b.track.Channels }

// Frames returns the length of the track in sample frames.
func (b *Buffer) Frames() int64 { return b.track.Frames() }

// StartMs returns the media time of frame zero.
func (b *Buffer) StartMs() int64 { return b.track.StartOffsetMs }

// TimeMs converts a frame position into media time.
func (b *Buffer) TimeMs(frame int64) int64 {
	if b.track.SampleRate <= 0 {
		return b.track.StartOffsetMs
	}
	return b.track.StartOffsetMs + frame*1000/int64(b.track.SampleRate)
}

// FrameAt converts media time into a frame position, clamped to [0, Frames].
func (b *Buffer) FrameAt(ms int64) int64 {
	frame := (ms - b.track.StartOffsetMs) * int64(b.track.SampleRate) / 1000
	if frame < 0 {
		return 0
	}
	if n := b.Frames(); frame > n {
		return n
	}
	return frame
}

// Covers reports whether media time ms falls inside the track.
func (b *Buffer) Covers(ms int64) bool {
	return ms >= b.track.StartOffsetMs && ms <= b.TimeMs(b.Frames())
}

// Read copies interleaved samples starting at frame start into dst and
// zero-fills whatever the track cannot supply. It returns the number of
// whole frames read from the track.
func (b *Buffer) Read(dst []int16, start int64) int {
	ch := b.track.Channels
	if ch <= 0 {
		clear(dst)
		return 0
	}
	n := 0
	if start >= 0 && start < b.Frames() {
		n = copy(dst, b.track.Samples[start*int64(ch):]) / ch
	}
	clear(dst[n*ch:])
	return n
}
