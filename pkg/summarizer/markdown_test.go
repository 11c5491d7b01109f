package summarizer

import (
	"strings"
	"testing"
	"time"

	"github.com/user/xplayer/pkg/mocks"
)

func sampleSummary() *Summary {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return &Summary{
		StartedAt:   start,
		GeneratedAt: start.Add(75 * time.Second),
		Settings:    Settings{Mode: "sequential", Volume: 50, Rate: 1, Device: "none"},
		Items: []ItemReport{
			{
				Location:       "/media/intro.mp4",
				DurationMs:     62500,
				DurationSource: "decoder",
				PositionMs:     62500,
				StopReason:     "end-of-stream",
			},
			{
				Location:       "https://example.com/watch?v=1",
				Title:          "Talk | part 2",
				DurationMs:     3600000,
				DurationSource: "fallback",
				PositionMs:     12000,
				StopReason:     "user",
			},
			{Location: "/media/broken.mkv", Error: "media open failed"},
		},
		Stats: StatsInfo{
			FramesPresented: 90,
			FramesDropped:   10,
			Seeks:           3,
			SeekFallbacks:   1,
			Resyncs:         2,
			MaxDriftMs:      480,
		},
	}
}

func TestMarkdownFormatter_Format(t *testing.T) {
	result := NewMarkdownFormatter().Format(sampleSummary())

	checks := []string{
		"# Playback Summary",
		"2024-01-15 10:31:15",
		"Session length: 1:15.000",
		"| Play mode | sequential |",
		"| Rate | 1.00x |",
		"| 1 | /media/intro.mp4 | 1:02.500 | decoder | 1:02.500 | end-of-stream |",
		"Talk \\| part 2",
		"1:00:00.000 | fallback",
		"error: media open failed",
		"| Frames dropped | 10 (10.0%) |",
		"| Seeks | 3 (1 fell back to re-open) |",
		"| Max drift | 480 ms |",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_Empty(t *testing.T) {
	result := NewMarkdownFormatter().Format(&Summary{})
	if !strings.Contains(result, "Nothing was played.") {
		t.Error("expected an empty item notice")
	}
	if !strings.Contains(result, "| Frames dropped | 0 (0.0%) |") {
		t.Error("expected a zero drop rate without frames")
	}
}

func TestFormatMs(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0:00.000"},
		{-1, "0:00.000"},
		{1500, "0:01.500"},
		{61001, "1:01.001"},
		{3723004, "1:02:03.004"},
	}
	for _, tt := range tests {
		if got := formatMs(tt.ms); got != tt.want {
			t.Errorf("formatMs(%d): expected %q, got %q", tt.ms, tt.want, got)
		}
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(NewMarkdownFormatter(), fs)

	if err := w.Write("/out/summary.md", sampleSummary()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, ok := fs.GetFile("/out/summary.md")
	if !ok {
		t.Fatal("expected summary file to be written")
	}
	if !strings.HasPrefix(string(data), "# Playback Summary") {
		t.Errorf("unexpected content: %q", string(data)[:20])
	}
}
