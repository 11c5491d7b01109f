// Package framebuffer provides the bounded look-ahead queue between a frame
// source and the frame-delivery tick.
package framebuffer

import "github.com/user/xplayer/pkg/ports"

// DefaultCapacity is the number of frames kept ahead during normal playback.
const DefaultCapacity = 5

// DefaultBatch bounds how many frames one Refill call decodes.
const DefaultBatch = 5

// Source yields frames in presentation order. ports.FrameSource satisfies it.
type Source interface {
	NextFrame() (ports.VideoFrame, bool)
	Err() error
}

// Buffer is a bounded FIFO of decoded frames. It is not safe for concurrent
// use; the engine only touches it from its control path.
type Buffer struct {
	base     int
	capacity int
	batch    int

	frames    []ports.VideoFrame
	lastIndex int64
	started   bool
	exhausted bool
	failed    int
}

// New creates a Buffer with the given capacity and refill batch size.
// Non-positive values select the defaults.
func New(capacity, batch int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if batch <= 0 {
		batch = DefaultBatch
	}
	return &Buffer{
		base:     capacity,
		capacity: capacity,
		batch:    batch,
		frames:   make([]ports.VideoFrame, 0, capacity*2),
	}
}

// Len returns the number of buffered frames.
func (b *Buffer) Len() int { return len(b.frames) }

// Capacity returns the current capacity.
func (b *Buffer) Capacity() int { return b.capacity }

// Exhausted reports whether the source ended cleanly since the last Clear.
func (b *Buffer) Exhausted() bool { return b.exhausted }

// Failures returns how many reads failed with a decode error since the last
// Clear or successful read.
func (b *Buffer) Failures() int { return b.failed }

// Expand multiplies the capacity until the buffer next drains back to its
// base capacity. Used after a seek to build a deeper cushion.
func (b *Buffer) Expand(factor int) {
	if factor < 1 {
		factor = 1
	}
	b.capacity = b.base * factor
}

// Prefill reads up to n frames, bounded by capacity, or until the source
// stops producing. It returns the number of frames added.
func (b *Buffer) Prefill(src Source, n int) int {
	added := 0
	for added < n && len(b.frames) < b.capacity {
		frame, ok := b.pull(src)
		if !ok {
			break
		}
		b.frames = append(b.frames, frame)
		added++
	}
	return added
}

// Refill tops the buffer back up to capacity, decoding at most one batch.
func (b *Buffer) Refill(src Source) int {
	b.relax()
	return b.Prefill(src, b.batch)
}

// Pop removes and returns the oldest frame.
func (b *Buffer) Pop() (ports.VideoFrame, bool) {
	if len(b.frames) == 0 {
		return ports.VideoFrame{}, false
	}
	frame := b.frames[0]
	last := len(b.frames) - 1
	copy(b.frames, b.frames[1:])
	b.frames[last] = ports.VideoFrame{}
	b.frames = b.frames[:last]
	b.relax()
	return frame, true
}

// Next pops a buffered frame or, when the buffer is empty, reads one directly
// from the source.
func (b *Buffer) Next(src Source) (ports.VideoFrame, bool) {
	if frame, ok := b.Pop(); ok {
		return frame, true
	}
	if b.exhausted || src == nil {
		return ports.VideoFrame{}, false
	}
	return b.pull(src)
}

// Clear discards all frames and resets ordering and end-of-stream state.
// Capacity returns to its base value.
func (b *Buffer) Clear() {
	for i := range b.frames {
		b.frames[i] = ports.VideoFrame{}
	}
	b.frames = b.frames[:0]
	b.capacity = b.base
	b.started = false
	b.lastIndex = 0
	b.exhausted = false
	b.failed = 0
}

func (b *Buffer) relax() {
	if b.capacity > b.base && len(b.frames) <= b.base {
		b.capacity = b.base
	}
}

// pull reads from src, skipping frames that would break presentation order.
func (b *Buffer) pull(src Source) (ports.VideoFrame, bool) {
	if b.exhausted {
		return ports.VideoFrame{}, false
	}
	for {
		frame, ok := src.NextFrame()
		if !ok {
			if src.Err() == nil {
				b.exhausted = true
			} else {
				b.failed++
			}
			return ports.VideoFrame{}, false
		}
		if b.started && frame.Index <= b.lastIndex {
			continue
		}
		b.started = true
		b.lastIndex = frame.Index
		b.failed = 0
		return frame, true
	}
}
