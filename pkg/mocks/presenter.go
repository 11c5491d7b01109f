package mocks

import (
	"sync"

	"github.com/user/xplayer/pkg/ports"
)

// Presenter records presented frames.
type Presenter struct {
	mu     sync.Mutex
	Frames []ports.VideoFrame
}

func (m *Presenter) Present(frame ports.VideoFrame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames = append(m.Frames, frame)
}

// Indices returns the indices of all presented frames.
func (m *Presenter) Indices() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(m.Frames))
	for i, f := range m.Frames {
		out[i] = f.Index
	}
	return out
}

// Count returns the number of presented frames.
func (m *Presenter) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Frames)
}

var _ ports.Presenter = (*Presenter)(nil)

// Playlist counts advance calls.
type Playlist struct {
	mu sync.Mutex

	NextFunc     func()
	PreviousFunc func()

	NextCalls     int
	PreviousCalls int
}

func (m *Playlist) Next() {
	m.mu.Lock()
	m.NextCalls++
	fn := m.NextFunc
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (m *Playlist) Previous() {
	m.mu.Lock()
	m.PreviousCalls++
	fn := m.PreviousFunc
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

var _ ports.Playlist = (*Playlist)(nil)
