// Package ffprobe reads media metadata by running ffprobe and parsing its
// JSON report.
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/user/xplayer/pkg/adapters/ffmpeg"
	"github.com/user/xplayer/pkg/ports"
)

// ErrProbe is returned when ffprobe fails or its output cannot be parsed.
var ErrProbe = errors.New("ffprobe: probe failed")

type report struct {
	Format struct {
		Duration string            `json:"duration"`
		BitRate  string            `json:"bit_rate"`
		Tags     map[string]string `json:"tags"`
	} `json:"format"`
	Streams []struct {
		CodecType    string            `json:"codec_type"`
		Width        int               `json:"width"`
		Height       int               `json:"height"`
		AvgFrameRate string            `json:"avg_frame_rate"`
		RFrameRate   string            `json:"r_frame_rate"`
		NbFrames     string            `json:"nb_frames"`
		Duration     string            `json:"duration"`
		SampleRate   string            `json:"sample_rate"`
		Channels     int               `json:"channels"`
		Tags         map[string]string `json:"tags"`
	} `json:"streams"`
}

// Prober implements ports.MetadataProber.
type Prober struct{}

// New creates a Prober.
func New() *Prober {
	return &Prober{}
}

func (p *Prober) Name() string { return "ffprobe" }

func (p *Prober) Probe(ctx context.Context, location string) (ports.ProbeResult, error) {
	ffprobePath, err := ffmpeg.FindFFprobe()
	if err != nil {
		return ports.ProbeResult{}, fmt.Errorf("%w: %w", ErrProbe, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		location,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return ports.ProbeResult{}, fmt.Errorf("%w: %w: %s", ErrProbe, err, strings.TrimSpace(stderr.String()))
	}
	return Parse(stdout.Bytes())
}

// Parse converts an ffprobe JSON report.
func Parse(data []byte) (ports.ProbeResult, error) {
	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return ports.ProbeResult{}, fmt.Errorf("%w: %w", ErrProbe, err)
	}

	res := ports.ProbeResult{
		DurationMs: secondsToMs(r.Format.Duration),
		BitRate:    parseInt(r.Format.BitRate),
		Tags:       map[string]string{},
	}
	for k, v := range r.Format.Tags {
		res.Tags[k] = v
	}

	for _, s := range r.Streams {
		switch s.CodecType {
		case "video":
			if res.Width != 0 {
				continue
			}
			res.Width, res.Height = s.Width, s.Height
			res.FrameRate = ParseRate(s.AvgFrameRate)
			if res.FrameRate == 0 {
				res.FrameRate = ParseRate(s.RFrameRate)
			}
			res.FrameCount = parseInt(s.NbFrames)
			if res.DurationMs == 0 {
				res.DurationMs = secondsToMs(s.Duration)
			}
			for k, v := range s.Tags {
				if _, ok := res.Tags[k]; !ok {
					res.Tags[k] = v
				}
			}
		case "audio":
			if res.AudioSampleRate != 0 {
				continue
			}
			res.AudioSampleRate = int(parseInt(s.SampleRate))
			res.AudioChannels = s.Channels
		}
	}
	return res, nil
}

// ParseRate parses "num/den" or a plain number. Invalid or zero rates
// yield 0.
func ParseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func secondsToMs(s string) int64 {
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs <= 0 || math.IsInf(secs, 0) {
		return 0
	}
	return int64(math.Round(secs * 1000))
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

var _ ports.MetadataProber = (*Prober)(nil)
