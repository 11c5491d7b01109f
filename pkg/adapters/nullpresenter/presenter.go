// Package nullpresenter provides a presenter that discards frames.
package nullpresenter

import (
	"sync/atomic"

	"github.com/user/xplayer/pkg/ports"
)

// Presenter is a no-op implementation of ports.Presenter that only counts
// the frames it receives.
type Presenter struct {
	count atomic.Int64
}

func New() *Presenter {
	return &Presenter{}
}

// Present drops the frame.
func (p *Presenter) Present(ports.VideoFrame) {
	p.count.Add(1)
}

// Count returns the number of frames received.
func (p *Presenter) Count() int64 {
	return p.count.Load()
}

var _ ports.Presenter = (*Presenter)(nil)
