package mocks

import (
	"context"
	"sync"

	"github.com/user/xplayer/pkg/ports"
)

// AudioExtractor returns silent tracks of a fixed length.
type AudioExtractor struct {
	mu sync.Mutex

	SampleRate int
	Channels   int
	DurationMs int64

	ExtractFunc func(ctx context.Context, location string, startOffsetMs int64) (*ports.AudioTrack, error)

	Extracts []int64
	Released []*ports.AudioTrack
}

// NewAudioExtractor creates an extractor for audio of the given duration.
func NewAudioExtractor(durationMs int64) *AudioExtractor {
	return &AudioExtractor{SampleRate: 1000, Channels: 2, DurationMs: durationMs}
}

func (m *AudioExtractor) Extract(ctx context.Context, location string, startOffsetMs int64) (*ports.AudioTrack, error) {
	m.mu.Lock()
	m.Extracts = append(m.Extracts, startOffsetMs)
	fn := m.ExtractFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, location, startOffsetMs)
	}
	frames := (m.DurationMs - startOffsetMs) * int64(m.SampleRate) / 1000
	if frames < 0 {
		frames = 0
	}
	return &ports.AudioTrack{
		Samples:       make([]int16, frames*int64(m.Channels)),
		SampleRate:    m.SampleRate,
		Channels:      m.Channels,
		StartOffsetMs: startOffsetMs,
	}, nil
}

func (m *AudioExtractor) Release(track *ports.AudioTrack) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Released = append(m.Released, track)
	return nil
}

// ExtractCount returns how many extractions were requested.
func (m *AudioExtractor) ExtractCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Extracts)
}

// ReleaseCount returns how many tracks were released.
func (m *AudioExtractor) ReleaseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Released)
}

var _ ports.AudioExtractor = (*AudioExtractor)(nil)

// AudioDevice records lifecycle calls and lets tests drive the callback.
type AudioDevice struct {
	mu sync.Mutex

	OpenFunc func(sampleRate, channels int) error

	Opens  int
	Starts int
	Closes int
	render ports.RenderFunc
}

func (m *AudioDevice) Open(sampleRate, channels int, render ports.RenderFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Opens++
	if m.OpenFunc != nil {
		if err := m.OpenFunc(sampleRate, channels); err != nil {
			return err
		}
	}
	m.render = render
	return nil
}

func (m *AudioDevice) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Starts++
	return nil
}

func (m *AudioDevice) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closes++
	m.render = nil
	return nil
}

// Pull invokes the render callback as the device thread would. It returns
// false when the device is not open.
func (m *AudioDevice) Pull(out []int16) bool {
	m.mu.Lock()
	render := m.render
	m.mu.Unlock()
	if render == nil {
		return false
	}
	render(out)
	return true
}

// IsOpen reports whether the device is open.
func (m *AudioDevice) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.render != nil
}

var _ ports.AudioDevice = (*AudioDevice)(nil)
