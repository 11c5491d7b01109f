package metadata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/xplayer/pkg/adapters/logger"
	"github.com/user/xplayer/pkg/mocks"
	"github.com/user/xplayer/pkg/ports"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"12.5", 12500},
		{"0.04", 40},
		{"01:02:03", 3723000},
		{"00:01:02.500000000", 62500},
		{"02:30", 150000},
		{" 7 ", 7000},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if err != nil {
			t.Errorf("ParseDuration(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}

	for _, bad := range []string{"", "abc", "-3", "1:2:3:4", "1.5:00", "N/A"} {
		if _, err := ParseDuration(bad); !errors.Is(err, ErrBadDuration) {
			t.Errorf("ParseDuration(%q): expected ErrBadDuration, got %v", bad, err)
		}
	}
}

func TestResolver_DecoderDuration(t *testing.T) {
	p := &mocks.Prober{Result: ports.ProbeResult{DurationMs: 10000, FrameRate: 25, Width: 640, Height: 360}}
	ext := &mocks.Prober{Result: ports.ProbeResult{DurationMs: 1}}
	r := NewResolver(logger.NewNoop(), []ports.MetadataProber{p}, WithExternal(ext))

	meta, err := r.Resolve(context.Background(), "a.mp4")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if meta.DurationMs != 10000 || meta.DurationSource != ports.DurationFromDecoder {
		t.Errorf("expected 10000 from decoder, got %d from %s", meta.DurationMs, meta.DurationSource)
	}
	if meta.FrameRate != 25 || meta.Width != 640 || meta.Height != 360 {
		t.Errorf("unexpected stream parameters %+v", meta)
	}
	if ext.Calls != 0 {
		t.Error("external prober must not run when a duration is known")
	}
}

func TestResolver_TagDuration(t *testing.T) {
	p := &mocks.Prober{Result: ports.ProbeResult{Tags: map[string]string{
		"title":    "clip",
		"DURATION": "00:00:42.000000000",
	}}}
	r := NewResolver(logger.NewNoop(), []ports.MetadataProber{p})

	meta, _ := r.Resolve(context.Background(), "a.mkv")
	if meta.DurationMs != 42000 || meta.DurationSource != ports.DurationFromTags {
		t.Errorf("expected 42000 from tags, got %d from %s", meta.DurationMs, meta.DurationSource)
	}
}

func TestResolver_FrameCountDuration(t *testing.T) {
	p := &mocks.Prober{Result: ports.ProbeResult{FrameCount: 250, FrameRate: 25}}
	r := NewResolver(logger.NewNoop(), []ports.MetadataProber{p})

	meta, _ := r.Resolve(context.Background(), "a.mp4")
	if meta.DurationMs != 10000 || meta.DurationSource != ports.DurationFromFrames {
		t.Errorf("expected 10000 from frames, got %d from %s", meta.DurationMs, meta.DurationSource)
	}
}

func TestResolver_BitrateDuration(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.SizeFunc = func(path string) (int64, error) { return 1_000_000, nil }
	p := &mocks.Prober{Result: ports.ProbeResult{BitRate: 800_000}}
	r := NewResolver(logger.NewNoop(), []ports.MetadataProber{p}, WithFileSystem(fs))

	meta, _ := r.Resolve(context.Background(), "a.ts")
	if meta.DurationMs != 10000 || meta.DurationSource != ports.DurationFromBitrate {
		t.Errorf("expected 10000 from bitrate, got %d from %s", meta.DurationMs, meta.DurationSource)
	}

	// remote locations have no size
	meta, _ = r.Resolve(context.Background(), "https://example.com/a.ts")
	if meta.DurationSource != ports.DurationFromFallback {
		t.Errorf("expected fallback for a URL, got %s", meta.DurationSource)
	}
}

func TestResolver_ExternalProbe(t *testing.T) {
	p := &mocks.Prober{Err: errors.New("unsupported")}
	ext := &mocks.Prober{Result: ports.ProbeResult{DurationMs: 5000, FrameRate: 24}}
	r := NewResolver(logger.NewNoop(), []ports.MetadataProber{p}, WithExternal(ext))

	meta, err := r.Resolve(context.Background(), "a.webm")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if meta.DurationMs != 5000 || meta.DurationSource != ports.DurationFromProbe {
		t.Errorf("expected 5000 from probe, got %d from %s", meta.DurationMs, meta.DurationSource)
	}
	if meta.FrameRate != 24 {
		t.Errorf("expected frame rate from external probe, got %v", meta.FrameRate)
	}
	if ext.Calls != 1 {
		t.Errorf("expected one external probe, got %d", ext.Calls)
	}
}

func TestResolver_Fallback(t *testing.T) {
	p := &mocks.Prober{Err: errors.New("broken")}
	r := NewResolver(logger.NewNoop(), []ports.MetadataProber{p}, WithFallback(90*time.Minute))

	meta, err := r.Resolve(context.Background(), "a.bin")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if meta.DurationMs != 5_400_000 || meta.DurationSource != ports.DurationFromFallback {
		t.Errorf("expected fallback 5400000, got %d from %s", meta.DurationMs, meta.DurationSource)
	}
	if meta.FrameRate != DefaultFrameRate {
		t.Errorf("expected default frame rate, got %v", meta.FrameRate)
	}
}

func TestResolver_FirstProberWins(t *testing.T) {
	first := &mocks.Prober{Result: ports.ProbeResult{FrameRate: 30, AudioSampleRate: 48000, AudioChannels: 2}}
	second := &mocks.Prober{Result: ports.ProbeResult{DurationMs: 3000, FrameRate: 25, Width: 320, Height: 240, AudioSampleRate: 44100}}
	r := NewResolver(logger.NewNoop(), []ports.MetadataProber{first, second})

	meta, _ := r.Resolve(context.Background(), "a.mp4")
	if meta.DurationMs != 3000 {
		t.Errorf("expected duration from the second prober, got %d", meta.DurationMs)
	}
	if meta.FrameRate != 30 || meta.AudioSampleRate != 48000 || meta.Width != 320 {
		t.Errorf("unexpected merged parameters %+v", meta)
	}
}

func TestResolver_Errors(t *testing.T) {
	r := NewResolver(logger.NewNoop(), nil)
	if _, err := r.Resolve(context.Background(), "a.mp4"); !errors.Is(err, ErrNoProbers) {
		t.Errorf("expected ErrNoProbers, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r = NewResolver(logger.NewNoop(), []ports.MetadataProber{&mocks.Prober{}})
	if _, err := r.Resolve(ctx, "a.mp4"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIsRemote(t *testing.T) {
	if !IsRemote("https://example.com/v") {
		t.Error("expected https URL to be remote")
	}
	if IsRemote("/videos/a.mp4") || IsRemote("file:///videos/a.mp4") {
		t.Error("expected local paths not to be remote")
	}
}
