// Package ffmpegaudio extracts a media file's audio track to 16-bit PCM by
// running ffmpeg, staging the samples in a temp file.
package ffmpegaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/user/xplayer/pkg/adapters/ffmpeg"
	"github.com/user/xplayer/pkg/ports"
)

const (
	DefaultSampleRate = 44100
	DefaultChannels   = 2
)

// ErrAudioExtract is returned when ffmpeg cannot produce PCM.
var ErrAudioExtract = errors.New("ffmpegaudio: audio extraction failed")

// Options selects the output format.
type Options struct {
	SampleRate int
	Channels   int
}

// Extractor implements ports.AudioExtractor.
type Extractor struct {
	fs   ports.FileSystem
	opts Options
	log  ports.Logger
}

// NewExtractor creates an extractor staging PCM through fs.
func NewExtractor(fs ports.FileSystem, opts Options, log ports.Logger) *Extractor {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.Channels <= 0 {
		opts.Channels = DefaultChannels
	}
	return &Extractor{fs: fs, opts: opts, log: log.WithComponent("ffmpegaudio")}
}

// Extract transcodes the first audio stream from startOffsetMs. It blocks
// until ffmpeg exits; cancelling ctx kills it.
func (e *Extractor) Extract(ctx context.Context, location string, startOffsetMs int64) (*ports.AudioTrack, error) {
	ffmpegPath, err := ffmpeg.FindFFmpeg()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAudioExtract, err)
	}

	tmp, err := e.fs.TempFile("xplayer-audio-*.pcm")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create temp file: %w", ErrAudioExtract, err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpegPath, e.args(location, startOffsetMs, tmp)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		e.remove(tmp)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w: %s", ErrAudioExtract, err, strings.TrimSpace(stderr.String()))
	}

	data, err := e.fs.ReadFile(tmp)
	if err != nil {
		e.remove(tmp)
		return nil, fmt.Errorf("%w: failed to read PCM: %w", ErrAudioExtract, err)
	}

	track := &ports.AudioTrack{
		Samples:       DecodePCM(data),
		SampleRate:    e.opts.SampleRate,
		Channels:      e.opts.Channels,
		StartOffsetMs: startOffsetMs,
		TempPath:      tmp,
	}
	e.log.Debug("Extracted %d audio frames from %s at %d ms", track.Frames(), location, startOffsetMs)
	return track, nil
}

// Release removes the track's temp file.
func (e *Extractor) Release(track *ports.AudioTrack) error {
	if track == nil || track.TempPath == "" {
		return nil
	}
	path := track.TempPath
	track.TempPath = ""
	return e.fs.Remove(path)
}

func (e *Extractor) args(location string, offsetMs int64, out string) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-nostdin"}
	if offsetMs > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", float64(offsetMs)/1000))
	}
	return append(args,
		"-i", location,
		"-map", "0:a:0",
		"-vn",
		"-ac", fmt.Sprint(e.opts.Channels),
		"-ar", fmt.Sprint(e.opts.SampleRate),
		"-acodec", "pcm_s16le",
		"-f", "s16le",
		out,
	)
}

func (e *Extractor) remove(path string) {
	if err := e.fs.Remove(path); err != nil {
		e.log.Warn("Failed to remove %s: %v", path, err)
	}
}

// DecodePCM converts little-endian s16 bytes to samples. A trailing odd byte
// is ignored.
func DecodePCM(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}

var _ ports.AudioExtractor = (*Extractor)(nil)
