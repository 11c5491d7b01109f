package ffmpegsource

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/xplayer/pkg/adapters/ffmpeg"
	"github.com/user/xplayer/pkg/adapters/logger"
	"github.com/user/xplayer/pkg/ports"
)

type fixedMeta struct {
	meta ports.Metadata
	err  error
}

func (f fixedMeta) Resolve(ctx context.Context, location string) (ports.Metadata, error) {
	m := f.meta
	m.Location = location
	return m, f.err
}

// makeClip renders a short test pattern with ffmpeg.
func makeClip(t *testing.T) string {
	t.Helper()
	ffmpegPath, err := ffmpeg.FindFFmpeg()
	if err != nil {
		t.Skip("ffmpeg not available")
	}
	out := filepath.Join(t.TempDir(), "clip.mp4")
	cmd := exec.Command(ffmpegPath, "-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=duration=2:size=320x240:rate=25",
		"-pix_fmt", "yuv420p", out)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("cannot render test clip: %v: %s", err, b)
	}
	return out
}

var clipMeta = ports.Metadata{DurationMs: 2000, DurationSource: ports.DurationFromDecoder, FrameRate: 25, Width: 320, Height: 240}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		ew, eh           int
	}{
		{1920, 1080, 1280, 720, 1280, 720},
		{640, 480, 1280, 720, 640, 480},
		{1000, 3000, 1280, 720, 240, 720},
		{641, 481, 1280, 720, 640, 480},
		{4000, 1000, 1280, 720, 1280, 320},
	}
	for _, tt := range tests {
		w, h := FitSize(tt.w, tt.h, tt.maxW, tt.maxH)
		if w != tt.ew || h != tt.eh {
			t.Errorf("FitSize(%d, %d): expected %dx%d, got %dx%d", tt.w, tt.h, tt.ew, tt.eh, w, h)
		}
	}
}

func TestBuildArgs(t *testing.T) {
	joined := strings.Join(buildArgs("a.mp4", 1500, 320, 240), " ")
	for _, want := range []string{"-ss 1.500 -i a.mp4", "-pix_fmt rgb24", "scale=320:240", "pipe:1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in %q", want, joined)
		}
	}
	if strings.Contains(strings.Join(buildArgs("a.mp4", 0, 2, 2), " "), "-ss") {
		t.Error("expected no seek argument at offset 0")
	}
}

func TestOpen_DecodesAllFrames(t *testing.T) {
	clip := makeClip(t)
	o := NewOpener(fixedMeta{meta: clipMeta}, Options{}, logger.NewNoop())

	src, err := o.Open(context.Background(), clip, ports.OpenOptions{ReadAheadFrames: 5})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	count := 0
	var last ports.VideoFrame
	for {
		f, ok := src.NextFrame()
		if !ok {
			break
		}
		if len(f.Pixels) != 320*240*3 {
			t.Fatalf("expected %d bytes, got %d", 320*240*3, len(f.Pixels))
		}
		if f.Index != int64(count) {
			t.Fatalf("expected index %d, got %d", count, f.Index)
		}
		last = f
		count++
	}
	if count < 48 || count > 52 {
		t.Errorf("expected about 50 frames, got %d", count)
	}
	if src.Err() != nil {
		t.Errorf("expected clean end of stream, got %v", src.Err())
	}
	if last.TimestampMs < 1900 {
		t.Errorf("expected last timestamp near 2000, got %d", last.TimestampMs)
	}
}

func TestOpen_StartOffset(t *testing.T) {
	clip := makeClip(t)
	o := NewOpener(fixedMeta{meta: clipMeta}, Options{}, logger.NewNoop())

	src, err := o.Open(context.Background(), clip, ports.OpenOptions{StartOffsetMs: 1000, ReadAheadFrames: 10})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	f, ok := src.NextFrame()
	if !ok {
		t.Fatal("expected a frame")
	}
	if f.Index != 25 || f.TimestampMs != 1000 {
		t.Errorf("expected frame 25 at 1000 ms, got %d at %d", f.Index, f.TimestampMs)
	}
}

func TestOpen_Scales(t *testing.T) {
	clip := makeClip(t)
	o := NewOpener(fixedMeta{meta: clipMeta}, Options{MaxWidth: 160, MaxHeight: 160}, logger.NewNoop())

	src, err := o.Open(context.Background(), clip, ports.OpenOptions{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	if m := src.Metadata(); m.Width != 160 || m.Height != 120 {
		t.Errorf("expected 160x120, got %dx%d", m.Width, m.Height)
	}
	f, _ := src.NextFrame()
	if len(f.Pixels) != 160*120*3 {
		t.Errorf("expected scaled frame, got %d bytes", len(f.Pixels))
	}
}

func TestOpen_UnreadableFile(t *testing.T) {
	if !ffmpeg.IsAvailable() {
		t.Skip("ffmpeg not available")
	}
	o := NewOpener(fixedMeta{meta: clipMeta}, Options{}, logger.NewNoop())

	_, err := o.Open(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), ports.OpenOptions{})
	if !errors.Is(err, ErrDecoderInit) {
		t.Errorf("expected ErrDecoderInit, got %v", err)
	}
}

func TestOpen_NoStreams(t *testing.T) {
	o := NewOpener(fixedMeta{meta: ports.Metadata{DurationMs: 1000}}, Options{}, logger.NewNoop())
	if _, err := o.Open(context.Background(), "empty.bin", ports.OpenOptions{}); !errors.Is(err, ErrDecoderInit) {
		t.Errorf("expected ErrDecoderInit, got %v", err)
	}
}

func TestOpen_AudioOnly(t *testing.T) {
	meta := ports.Metadata{DurationMs: 180000, DurationSource: ports.DurationFromDecoder, AudioSampleRate: 44100, AudioChannels: 2}
	o := NewOpener(fixedMeta{meta: meta}, Options{}, logger.NewNoop())

	src, err := o.Open(context.Background(), "song.mp3", ports.OpenOptions{StartOffsetMs: 5000})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	if m := src.Metadata(); m.HasVideo() || m.DurationMs != 180000 || m.Location != "song.mp3" {
		t.Errorf("expected audio-only metadata, got %+v", m)
	}
	if _, ok := src.NextFrame(); ok {
		t.Error("expected no frames")
	}
	if err := src.Err(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestOpen_PastLastFrameIsExhausted(t *testing.T) {
	clip := makeClip(t)
	o := NewOpener(fixedMeta{meta: clipMeta}, Options{}, logger.NewNoop())

	src, err := o.Open(context.Background(), clip, ports.OpenOptions{StartOffsetMs: 5000})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	if _, ok := src.NextFrame(); ok {
		t.Error("expected no frames past the end")
	}
	if err := src.Err(); err != nil {
		t.Errorf("expected a clean end, got %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	clip := makeClip(t)
	o := NewOpener(fixedMeta{meta: clipMeta}, Options{}, logger.NewNoop())

	src, err := o.Open(context.Background(), clip, ports.OpenOptions{ReadAheadFrames: 2})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	done := make(chan struct{})
	go func() {
		src.Close()
		close(done)
	}()
	<-done
	if err := src.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	for {
		if _, ok := src.NextFrame(); !ok {
			break
		}
	}
}
