package avsync

import (
	"testing"
	"time"

	"github.com/user/xplayer/pkg/adapters/logger"
	"github.com/user/xplayer/pkg/audio"
	"github.com/user/xplayer/pkg/ports"
)

type stuckAudio struct {
	ms          int64
	active      bool
	repositions []int64
}

func (a *stuckAudio) PositionMs() (int64, bool) { return a.ms, a.active }
func (a *stuckAudio) RepositionMs(ms int64)     { a.repositions = append(a.repositions, ms) }

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestController_OneResyncPerInterval(t *testing.T) {
	a := &stuckAudio{ms: 1500, active: true}
	c := New(DefaultConfig(), a, logger.NewNoop())

	// Drift stays at 1500ms for the whole window because the fake never moves.
	resyncs := 0
	for elapsed := time.Duration(0); elapsed < DefaultMinResyncInterval; elapsed += 100 * time.Millisecond {
		if c.Check(epoch.Add(elapsed), 0) == Resynced {
			resyncs++
		}
	}
	if resyncs != 1 {
		t.Errorf("expected exactly 1 resync, got %d", resyncs)
	}
	if len(a.repositions) != 1 || a.repositions[0] != 0 {
		t.Errorf("expected one reposition to video time 0, got %v", a.repositions)
	}

	if c.Check(epoch.Add(DefaultMinResyncInterval), 0) != Resynced {
		t.Error("expected a second resync once the interval elapsed")
	}
}

func TestController_SoftDriftDoesNotResync(t *testing.T) {
	a := &stuckAudio{ms: 1400, active: true}
	c := New(DefaultConfig(), a, logger.NewNoop())

	if d := c.Check(epoch, 1000); d != Drifting {
		t.Errorf("expected drifting, got %s", d)
	}
	if len(a.repositions) != 0 {
		t.Errorf("expected no correction, got %v", a.repositions)
	}
	if c.State().DriftMs != 400 {
		t.Errorf("expected drift 400, got %d", c.State().DriftMs)
	}
}

func TestController_InSync(t *testing.T) {
	a := &stuckAudio{ms: 1100, active: true}
	c := New(DefaultConfig(), a, logger.NewNoop())

	if d := c.Check(epoch, 1000); d != InSync {
		t.Errorf("expected in-sync, got %s", d)
	}
	if c.Stats().Drifts != 0 {
		t.Errorf("expected no drift events, got %d", c.Stats().Drifts)
	}
}

func TestController_NoAudio(t *testing.T) {
	a := &stuckAudio{}
	c := New(DefaultConfig(), a, logger.NewNoop())

	if d := c.Check(epoch, 99999); d != NoAudio {
		t.Errorf("expected no-audio, got %s", d)
	}
}

func TestController_SeekIsNotACorrection(t *testing.T) {
	a := &stuckAudio{ms: 0, active: true}
	c := New(DefaultConfig(), a, logger.NewNoop())

	c.SeekTo(5000)
	if c.Stats().Resyncs != 0 || c.Stats().Seeks != 1 {
		t.Errorf("unexpected stats %+v", c.Stats())
	}
	if d := c.Check(epoch, 0); d != InSync {
		t.Errorf("expected in-sync, got %s", d)
	}
}

func TestController_WithRenderer(t *testing.T) {
	track := &ports.AudioTrack{Samples: make([]int16, 2*10000), SampleRate: 1000, Channels: 2}
	r := audio.NewRenderer(100)
	r.Install(audio.NewBuffer(track), 0)
	r.SetPaused(false)

	c := New(DefaultConfig(), RendererClock{Renderer: r}, logger.NewNoop())

	if d := c.Check(epoch, 3000); d != Resynced {
		t.Fatalf("expected resync, got %s", d)
	}
	// The pending target is reported before the device applies it.
	if d := c.Check(epoch.Add(100*time.Millisecond), 3000); d != InSync {
		t.Errorf("expected in-sync after resync request, got %s", d)
	}

	r.Render(make([]int16, 64))
	if got := r.Cursor(); got != 3000 {
		t.Errorf("expected cursor at frame 3000, got %d", got)
	}
}

func TestController_ShortAudioTrackEndsQuietly(t *testing.T) {
	// One second of audio under a longer video.
	track := &ports.AudioTrack{Samples: make([]int16, 2*1000), SampleRate: 1000, Channels: 2}
	r := audio.NewRenderer(100)
	r.Install(audio.NewBuffer(track), 0)
	r.SetPaused(false)
	for i := 0; i < 20; i++ {
		r.Render(make([]int16, 2*64))
	}
	if !r.Ended() {
		t.Fatalf("expected the track to be rendered to its end, cursor %d", r.Cursor())
	}

	c := New(DefaultConfig(), RendererClock{Renderer: r}, logger.NewNoop())
	for elapsed := time.Duration(0); elapsed < 3*DefaultMinResyncInterval; elapsed += 100 * time.Millisecond {
		if d := c.Check(epoch.Add(elapsed), 5000+elapsed.Milliseconds()); d != NoAudio {
			t.Fatalf("expected no-audio after the track ended, got %s", d)
		}
	}
	if c.Stats().Resyncs != 0 {
		t.Errorf("expected no resyncs, got %d", c.Stats().Resyncs)
	}

	c.SeekTo(200)
	if d := c.Check(epoch.Add(10*time.Second), 200); d != InSync {
		t.Errorf("expected in-sync after seeking back into the track, got %s", d)
	}
}
