package audio

import "sync/atomic"

const noReposition = -1

// Renderer feeds an audio device from a Buffer. Everything the device thread
// reads is held in atomics so the control path never blocks it.
type Renderer struct {
	buffer  atomic.Pointer[Buffer]
	cursor  atomic.Int64
	pending atomic.Int64
	volume  atomic.Int32
	paused  atomic.Bool

	renders     atomic.Int64
	repositions atomic.Int64
}

// NewRenderer creates a paused Renderer with the given volume (0..100).
func NewRenderer(volume int) *Renderer {
	r := &Renderer{}
	r.pending.Store(noReposition)
	r.SetVolume(volume)
	r.paused.Store(true)
	return r
}

// Install swaps the buffer being rendered and moves the cursor to frame.
// A nil buffer silences output.
func (r *Renderer) Install(buf *Buffer, frame int64) {
	r.pending.Store(noReposition)
	r.cursor.Store(frame)
	r.buffer.Store(buf)
}

// Buffer returns the installed buffer, or nil.
func (r *Renderer) Buffer() *Buffer { return r.buffer.Load() }

// SetPaused toggles silent, non-advancing output.
func (r *Renderer) SetPaused(paused bool) { r.paused.Store(paused) }

// Paused reports whether output is paused.
func (r *Renderer) Paused() bool { return r.paused.Load() }

// SetVolume sets the output gain, clamped to 0..100.
func (r *Renderer) SetVolume(volume int) {
	r.volume.Store(int32(min(max(volume, 0), 100)))
}

// Volume returns the output gain.
func (r *Renderer) Volume() int { return int(r.volume.Load()) }

// RequestReposition asks the render path to move the cursor to frame on its
// next callback.
func (r *Renderer) RequestReposition(frame int64) {
	if frame < 0 {
		frame = 0
	}
	r.pending.Store(frame)
}

// Cursor returns the frame the render path will read next. A reposition that
// has not been applied yet is reported as already done.
func (r *Renderer) Cursor() int64 {
	if p := r.pending.Load(); p != noReposition {
		return p
	}
	return r.cursor.Load()
}

// PositionMs returns the media time of the cursor, or false when no buffer is
// installed.
func (r *Renderer) PositionMs() (int64, bool) {
	buf := r.buffer.Load()
	if buf == nil {
		return 0, false
	}
	return buf.TimeMs(r.Cursor()), true
}

// Ended reports whether the cursor has reached the end of the installed
// buffer. It is false when no buffer is installed.
func (r *Renderer) Ended() bool {
	buf := r.buffer.Load()
	return buf != nil && r.Cursor() >= buf.Frames()
}

// Repositions returns how many reposition requests the render path applied.
func (r *Renderer) Repositions() int64 { return r.repositions.Load() }

// Render fills out with the next samples. It is the device callback: it does
// not lock, allocate or perform I/O.
func (r *Renderer) Render(out []int16) {
	r.renders.Add(1)
	buf := r.buffer.Load()

	if p := r.pending.Swap(noReposition); p != noReposition {
		if buf != nil && p > buf.Frames() {
			p = buf.Frames()
		}
		r.cursor.Store(p)
		r.repositions.Add(1)
		clear(out)
		return
	}

	if buf == nil || r.paused.Load() {
		clear(out)
		return
	}

	cursor := r.cursor.Load()
	n := buf.Read(out, cursor)
	if n == 0 {
		return
	}

	vol := r.volume.Load()
	if vol < 100 {
		for i := range out[:n*buf.Channels()] {
			out[i] = int16(int32(out[i]) * vol / 100)
		}
	}
	r.cursor.CompareAndSwap(cursor, cursor+int64(n))
}
