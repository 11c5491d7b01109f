package astiavprobe

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/user/xplayer/pkg/adapters/ffmpeg"
)

func TestProbe_MissingFile(t *testing.T) {
	_, err := New().Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mkv"))
	if !errors.Is(err, ErrOpen) {
		t.Errorf("expected ErrOpen, got %v", err)
	}
}

func TestProbe_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Probe(ctx, "a.mp4"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestProbe_RenderedClip(t *testing.T) {
	ffmpegPath, err := ffmpeg.FindFFmpeg()
	if err != nil {
		t.Skip("ffmpeg not available")
	}
	clip := filepath.Join(t.TempDir(), "clip.mkv")
	cmd := exec.Command(ffmpegPath, "-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=duration=2:size=320x240:rate=25",
		"-f", "lavfi", "-i", "sine=frequency=440:sample_rate=44100:duration=2",
		"-shortest", "-metadata", "title=probe", clip)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("cannot render test clip: %v: %s", err, b)
	}

	res, err := New().Probe(context.Background(), clip)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if res.Width != 320 || res.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", res.Width, res.Height)
	}
	if res.FrameRate != 25 {
		t.Errorf("expected 25 fps, got %v", res.FrameRate)
	}
	if res.DurationMs < 1900 || res.DurationMs > 2200 {
		t.Errorf("expected about 2000 ms, got %d", res.DurationMs)
	}
	if res.AudioSampleRate != 44100 {
		t.Errorf("expected 44100 Hz, got %d", res.AudioSampleRate)
	}
	if res.Tags["title"] != "probe" {
		t.Errorf("expected title tag, got %v", res.Tags)
	}
}
