// Package nulldevice is an AudioDevice that consumes PCM at real-time pace
// and discards it, keeping the audio clock moving without sound hardware.
package nulldevice

import (
	"errors"
	"sync"
	"time"

	"github.com/user/xplayer/pkg/ports"
)

const DefaultBufferFrames = 1024

var ErrNotOpen = errors.New("nulldevice: device not open")

// Device implements ports.AudioDevice.
type Device struct {
	bufferFrames int

	mu       sync.Mutex
	render   ports.RenderFunc
	buf      []int16
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// New creates a device pulling bufferFrames frames per period.
func New(bufferFrames int) *Device {
	if bufferFrames <= 0 {
		bufferFrames = DefaultBufferFrames
	}
	return &Device{bufferFrames: bufferFrames}
}

func (d *Device) Open(sampleRate, channels int, render ports.RenderFunc) error {
	d.Close()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.render = render
	d.buf = make([]int16, d.bufferFrames*max(channels, 1))
	d.interval = time.Duration(d.bufferFrames) * time.Second / time.Duration(max(sampleRate, 1))
	return nil
}

func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.render == nil {
		return ErrNotOpen
	}
	if d.stop != nil {
		return nil
	}
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.run(d.render, d.buf, d.interval, d.stop, d.done)
	return nil
}

func (d *Device) run(render ports.RenderFunc, buf []int16, interval time.Duration, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			render(buf)
		}
	}
}

// Close stops the pull loop and waits for it.
func (d *Device) Close() error {
	d.mu.Lock()
	stop, done := d.stop, d.done
	d.stop, d.done = nil, nil
	d.render = nil
	d.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	return nil
}

var _ ports.AudioDevice = (*Device)(nil)
