package ports

import "context"

// AudioTrack is decoded PCM for one media item.
type AudioTrack struct {
	// Samples holds interleaved signed 16-bit samples.
	Samples    []int16
	SampleRate int
	Channels   int

	// StartOffsetMs is the media time of the first sample.
	StartOffsetMs int64

	// TempPath is the transient file backing the track, removed by Release.
	TempPath string
}

// Frames returns the number of sample frames (one sample per channel) in the track.
func (t *AudioTrack) Frames() int64 {
	if t == nil || t.Channels <= 0 {
		return 0
	}
	return int64(len(t.Samples) / t.Channels)
}

// AudioExtractor produces PCM for the audio track of a media item.
type AudioExtractor interface {
	// Extract decodes audio starting at startOffsetMs.
	Extract(ctx context.Context, location string, startOffsetMs int64) (*AudioTrack, error)

	// Release frees transient resources held by a track.
	Release(track *AudioTrack) error
}

// RenderFunc fills out with interleaved samples. It runs on the audio
// device's real-time thread and must not block, allocate or do I/O.
type RenderFunc func(out []int16)

// AudioDevice is an audio output driven by a render callback.
type AudioDevice interface {
	Open(sampleRate, channels int, render RenderFunc) error
	Start() error
	Close() error
}
