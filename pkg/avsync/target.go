package avsync

import "github.com/user/xplayer/pkg/audio"

// RendererClock adapts an audio.Renderer to AudioClock.
type RendererClock struct {
	Renderer *audio.Renderer
}

// PositionMs reports the renderer position while it is playing a buffer.
// Audio that has run out before the video reports nothing, so a short track
// is not resynced over and over.
func (r RendererClock) PositionMs() (int64, bool) {
	if r.Renderer.Paused() || r.Renderer.Ended() {
		return 0, false
	}
	return r.Renderer.PositionMs()
}

// RepositionMs converts ms into a frame of the installed buffer.
func (r RendererClock) RepositionMs(ms int64) {
	buf := r.Renderer.Buffer()
	if buf == nil {
		return
	}
	r.Renderer.RequestReposition(buf.FrameAt(ms))
}
