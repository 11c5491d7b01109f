// Package beepdevice plays the engine's PCM through the gopxl/beep speaker.
package beepdevice

import (
	"errors"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/user/xplayer/pkg/ports"
)

const DefaultBufferFrames = 2048

var ErrNotOpen = errors.New("beepdevice: device not open")

// The speaker is process-wide; it is initialized once per sample rate.
var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// Device implements ports.AudioDevice.
type Device struct {
	bufferFrames int

	mu       sync.Mutex
	streamer *streamer
}

// New creates a device with the given hardware buffer size in frames.
func New(bufferFrames int) *Device {
	if bufferFrames <= 0 {
		bufferFrames = DefaultBufferFrames
	}
	return &Device{bufferFrames: bufferFrames}
}

func (d *Device) Open(sampleRate, channels int, render ports.RenderFunc) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()

	sr := beep.SampleRate(sampleRate)
	if !speakerInitialized || speakerSampleRate != sr {
		if err := speaker.Init(sr, d.bufferFrames); err != nil {
			return err
		}
		speakerInitialized = true
		speakerSampleRate = sr
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.streamer = newStreamer(render, channels, d.bufferFrames)
	return nil
}

func (d *Device) Start() error {
	d.mu.Lock()
	s := d.streamer
	d.mu.Unlock()
	if s == nil {
		return ErrNotOpen
	}
	speaker.Play(s)
	return nil
}

// Close stops playback. The speaker itself stays initialized for reuse.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.streamer == nil {
		return nil
	}
	speaker.Clear()
	d.streamer = nil
	return nil
}

// streamer adapts a RenderFunc to beep.Streamer. Its scratch buffer is
// allocated once; Stream never allocates.
type streamer struct {
	render   ports.RenderFunc
	channels int
	scratch  []int16
}

func newStreamer(render ports.RenderFunc, channels, bufferFrames int) *streamer {
	channels = max(channels, 1)
	return &streamer{
		render:   render,
		channels: channels,
		scratch:  make([]int16, bufferFrames*channels),
	}
}

func (s *streamer) Stream(samples [][2]float64) (int, bool) {
	frames := len(s.scratch) / s.channels
	for done := 0; done < len(samples); {
		n := min(frames, len(samples)-done)
		buf := s.scratch[:n*s.channels]
		s.render(buf)
		for i := 0; i < n; i++ {
			left := float64(buf[i*s.channels]) / 32768
			right := left
			if s.channels > 1 {
				right = float64(buf[i*s.channels+1]) / 32768
			}
			samples[done+i] = [2]float64{left, right}
		}
		done += n
	}
	return len(samples), true
}

func (s *streamer) Err() error { return nil }

var _ ports.AudioDevice = (*Device)(nil)
