// Package malgodevice plays the engine's PCM through miniaudio (malgo) with
// a signed 16-bit playback device.
package malgodevice

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/user/xplayer/pkg/ports"
)

const DefaultBufferFrames = 2048

var ErrNotOpen = errors.New("malgodevice: device not open")

// Device implements ports.AudioDevice.
type Device struct {
	bufferFrames int
	log          ports.Logger

	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
}

// New creates a device with the given period size in frames.
func New(bufferFrames int, log ports.Logger) *Device {
	if bufferFrames <= 0 {
		bufferFrames = DefaultBufferFrames
	}
	return &Device{bufferFrames: bufferFrames, log: log.WithComponent("malgo")}
}

func (d *Device) Open(sampleRate, channels int, render ports.RenderFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		d.log.Debug("miniaudio: %s", message)
	})
	if err != nil {
		return fmt.Errorf("malgodevice: init context: %w", err)
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatS16
	cfg.Playback.Channels = uint32(channels)
	cfg.SampleRate = uint32(sampleRate)
	cfg.PeriodSizeInFrames = uint32(d.bufferFrames)

	w := newWriter(render, channels, d.bufferFrames)
	device, err := malgo.InitDevice(ctx.Context, cfg, malgo.DeviceCallbacks{Data: w.data})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("malgodevice: init device: %w", err)
	}
	d.ctx = ctx
	d.device = device
	return nil
}

func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.device == nil {
		return ErrNotOpen
	}
	return d.device.Start()
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
	return nil
}

func (d *Device) closeLocked() {
	if d.device != nil {
		d.device.Uninit()
		d.device = nil
	}
	if d.ctx != nil {
		_ = d.ctx.Uninit()
		d.ctx.Free()
		d.ctx = nil
	}
}

// writer fills the device's byte buffer from a RenderFunc. The scratch
// buffer is allocated once.
type writer struct {
	render   ports.RenderFunc
	channels int
	scratch  []int16
}

func newWriter(render ports.RenderFunc, channels, bufferFrames int) *writer {
	channels = max(channels, 1)
	return &writer{render: render, channels: channels, scratch: make([]int16, bufferFrames*channels)}
}

func (w *writer) data(out, _ []byte, frameCount uint32) {
	total := int(frameCount) * w.channels
	for done := 0; done < total; {
		n := min(len(w.scratch), total-done)
		buf := w.scratch[:n]
		w.render(buf)
		for i, s := range buf {
			binary.LittleEndian.PutUint16(out[(done+i)*2:], uint16(s))
		}
		done += n
	}
}

var _ ports.AudioDevice = (*Device)(nil)
