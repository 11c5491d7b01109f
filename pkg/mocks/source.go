package mocks

import (
	"context"
	"sync"

	"github.com/user/xplayer/pkg/ports"
)

// FrameSource is a scripted ports.FrameSource that yields frames from an
// index range, then ends cleanly or with Failure.
type FrameSource struct {
	mu sync.Mutex

	Meta    ports.Metadata
	Next    int64
	End     int64
	Failure error

	closed int
}

func (s *FrameSource) Metadata() ports.Metadata { return s.Meta }

func (s *FrameSource) NextFrame() (ports.VideoFrame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed > 0 || s.Next >= s.End {
		return ports.VideoFrame{}, false
	}
	idx := s.Next
	s.Next++
	var ts int64
	if s.Meta.FrameRate > 0 {
		ts = int64(float64(idx) * 1000 / s.Meta.FrameRate)
	}
	return ports.VideoFrame{
		Pixels:      make([]byte, 3),
		Width:       1,
		Height:      1,
		Format:      ports.PixelFormatRGB24,
		Index:       idx,
		TimestampMs: ts,
	}, true
}

func (s *FrameSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Next >= s.End {
		return s.Failure
	}
	return nil
}

func (s *FrameSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// Closed returns how many times Close was called.
func (s *FrameSource) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

var _ ports.FrameSource = (*FrameSource)(nil)

// OpenCall records one FrameOpener.Open call.
type OpenCall struct {
	Location string
	Opts     ports.OpenOptions
}

// FrameOpener opens FrameSources over media described by Meta. By default
// the source starts at the frame matching the offset and runs to the end of
// Meta.DurationMs.
type FrameOpener struct {
	mu sync.Mutex

	Meta     ports.Metadata
	OpenFunc func(ctx context.Context, location string, opts ports.OpenOptions) (ports.FrameSource, error)

	Calls   []OpenCall
	Sources []*FrameSource
}

// NewFrameOpener creates an opener for media of the given duration and rate.
func NewFrameOpener(durationMs int64, fps float64) *FrameOpener {
	return &FrameOpener{Meta: ports.Metadata{
		DurationMs:     durationMs,
		DurationSource: ports.DurationFromDecoder,
		FrameRate:      fps,
		Width:          1,
		Height:         1,
	}}
}

func (m *FrameOpener) Open(ctx context.Context, location string, opts ports.OpenOptions) (ports.FrameSource, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, OpenCall{Location: location, Opts: opts})
	fn := m.OpenFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, location, opts)
	}
	return m.NewSource(location, opts.StartOffsetMs), nil
}

// NewSource builds and records the default source for an offset.
func (m *FrameOpener) NewSource(location string, offsetMs int64) *FrameSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta := m.Meta
	meta.Location = location
	total := int64(float64(meta.DurationMs) * meta.FrameRate / 1000)
	src := &FrameSource{
		Meta: meta,
		Next: int64(float64(offsetMs) * meta.FrameRate / 1000),
		End:  total,
	}
	m.Sources = append(m.Sources, src)
	return src
}

// OpenCount returns how many times Open was called.
func (m *FrameOpener) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

var _ ports.FrameOpener = (*FrameOpener)(nil)
