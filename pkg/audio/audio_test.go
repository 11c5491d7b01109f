package audio

import (
	"testing"

	"github.com/user/xplayer/pkg/ports"
)

func stereoTrack(frames int, startMs int64) *ports.AudioTrack {
	samples := make([]int16, frames*2)
	for i := range samples {
		samples[i] = 1000
	}
	return &ports.AudioTrack{Samples: samples, SampleRate: 1000, Channels: 2, StartOffsetMs: startMs}
}

func TestBuffer_ReadZeroPads(t *testing.T) {
	buf := NewBuffer(stereoTrack(4, 0))
	dst := make([]int16, 12)
	for i := range dst {
		dst[i] = -1
	}

	n := buf.Read(dst, 2)
	if n != 2 {
		t.Fatalf("expected 2 frames read, got %d", n)
	}
	for i := 0; i < 4; i++ {
		if dst[i] != 1000 {
			t.Errorf("sample %d: expected 1000, got %d", i, dst[i])
		}
	}
	for i := 4; i < len(dst); i++ {
		if dst[i] != 0 {
			t.Errorf("sample %d: expected zero padding, got %d", i, dst[i])
		}
	}
}

func TestBuffer_ReadPastEnd(t *testing.T) {
	buf := NewBuffer(stereoTrack(4, 0))
	dst := []int16{5, 5}
	if n := buf.Read(dst, 10); n != 0 {
		t.Errorf("expected 0 frames, got %d", n)
	}
	if dst[0] != 0 || dst[1] != 0 {
		t.Errorf("expected silence, got %v", dst)
	}
}

func TestBuffer_TimeConversions(t *testing.T) {
	buf := NewBuffer(stereoTrack(2000, 5000))

	if got := buf.TimeMs(500); got != 5500 {
		t.Errorf("expected 5500ms, got %d", got)
	}
	if got := buf.FrameAt(6000); got != 1000 {
		t.Errorf("expected frame 1000, got %d", got)
	}
	if got := buf.FrameAt(1000); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
	if got := buf.FrameAt(99999); got != 2000 {
		t.Errorf("expected clamp to 2000, got %d", got)
	}
	if buf.Covers(4000) || !buf.Covers(6000) || buf.Covers(8000) {
		t.Error("unexpected coverage")
	}
}

func TestRenderer_PausedEmitsSilenceWithoutAdvancing(t *testing.T) {
	r := NewRenderer(100)
	r.Install(NewBuffer(stereoTrack(100, 0)), 10)

	out := make([]int16, 8)
	r.Render(out)
	for _, s := range out {
		if s != 0 {
			t.Fatalf("expected silence while paused, got %v", out)
		}
	}
	if r.Cursor() != 10 {
		t.Errorf("expected cursor 10, got %d", r.Cursor())
	}

	r.SetPaused(false)
	r.Render(out)
	if r.Cursor() != 14 {
		t.Errorf("expected cursor 14, got %d", r.Cursor())
	}
}

func TestRenderer_AppliesVolume(t *testing.T) {
	r := NewRenderer(50)
	r.Install(NewBuffer(stereoTrack(100, 0)), 0)
	r.SetPaused(false)

	out := make([]int16, 4)
	r.Render(out)
	if out[0] != 500 {
		t.Errorf("expected half volume sample 500, got %d", out[0])
	}
}

func TestRenderer_VolumeClamped(t *testing.T) {
	r := NewRenderer(150)
	if r.Volume() != 100 {
		t.Errorf("expected 100, got %d", r.Volume())
	}
	r.SetVolume(-10)
	if r.Volume() != 0 {
		t.Errorf("expected 0, got %d", r.Volume())
	}
}

func TestRenderer_RepositionAppliedOnNextCallback(t *testing.T) {
	r := NewRenderer(100)
	r.Install(NewBuffer(stereoTrack(1000, 0)), 0)
	r.SetPaused(false)

	r.RequestReposition(700)
	if r.Cursor() != 700 {
		t.Errorf("expected pending target reported as cursor, got %d", r.Cursor())
	}
	if r.Repositions() != 0 {
		t.Fatal("reposition must not apply before a render callback")
	}

	out := make([]int16, 8)
	for i := range out {
		out[i] = 7
	}
	r.Render(out)
	for _, s := range out {
		if s != 0 {
			t.Fatalf("expected silence on the repositioning callback, got %v", out)
		}
	}
	if r.Repositions() != 1 {
		t.Errorf("expected 1 reposition, got %d", r.Repositions())
	}

	r.Render(out)
	if r.Cursor() != 704 {
		t.Errorf("expected cursor 704, got %d", r.Cursor())
	}
}

func TestRenderer_RepositionClampedToTrack(t *testing.T) {
	r := NewRenderer(100)
	r.Install(NewBuffer(stereoTrack(10, 0)), 0)
	r.RequestReposition(500)
	r.Render(make([]int16, 4))

	if r.Cursor() != 10 {
		t.Errorf("expected cursor clamped to 10, got %d", r.Cursor())
	}
}

func TestRenderer_PositionMs(t *testing.T) {
	r := NewRenderer(100)
	if _, ok := r.PositionMs(); ok {
		t.Error("expected no position without a buffer")
	}
	r.Install(NewBuffer(stereoTrack(5000, 2000)), 1500)
	ms, ok := r.PositionMs()
	if !ok || ms != 3500 {
		t.Errorf("expected 3500ms, got %d (%v)", ms, ok)
	}
}

func TestRenderer_Ended(t *testing.T) {
	r := NewRenderer(100)
	if r.Ended() {
		t.Error("expected not ended without a buffer")
	}
	r.Install(NewBuffer(stereoTrack(8, 0)), 0)
	r.SetPaused(false)

	r.Render(make([]int16, 2*6))
	if r.Ended() {
		t.Fatalf("expected not ended at cursor %d", r.Cursor())
	}
	r.Render(make([]int16, 2*6))
	if !r.Ended() {
		t.Fatalf("expected ended at cursor %d", r.Cursor())
	}

	r.RequestReposition(2)
	if r.Ended() {
		t.Error("expected a pending reposition inside the track to clear the end")
	}
}
