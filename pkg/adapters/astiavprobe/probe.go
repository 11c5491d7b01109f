// Package astiavprobe reads media metadata in-process through the FFmpeg
// libraries (libavformat) bound by go-astiav.
package astiavprobe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/asticode/go-astiav"

	"github.com/user/xplayer/pkg/ports"
)

// avTimeBase is AV_TIME_BASE: format durations are in microseconds.
const avTimeBase = 1_000_000

var (
	ErrAlloc = errors.New("astiavprobe: alloc format context")
	ErrOpen  = errors.New("astiavprobe: open input failed")
)

var quietOnce sync.Once

// Prober implements ports.MetadataProber.
type Prober struct{}

// New creates a Prober and silences libav logging.
func New() *Prober {
	quietOnce.Do(func() { astiav.SetLogLevel(astiav.LogLevelQuiet) })
	return &Prober{}
}

func (p *Prober) Name() string { return "astiav" }

func (p *Prober) Probe(ctx context.Context, location string) (ports.ProbeResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.ProbeResult{}, err
	}

	fc := astiav.AllocFormatContext()
	if fc == nil {
		return ports.ProbeResult{}, ErrAlloc
	}
	defer fc.Free()

	if err := fc.OpenInput(location, nil, nil); err != nil {
		return ports.ProbeResult{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer fc.CloseInput()

	if err := fc.FindStreamInfo(nil); err != nil {
		return ports.ProbeResult{}, fmt.Errorf("%w: find stream info: %w", ErrOpen, err)
	}

	res := ports.ProbeResult{Tags: map[string]string{}}
	if d := fc.Duration(); d > 0 {
		res.DurationMs = d * 1000 / avTimeBase
	}
	res.BitRate = fc.BitRate()
	copyTags(fc.Metadata(), res.Tags)

	for _, st := range fc.Streams() {
		cp := st.CodecParameters()
		switch cp.MediaType() {
		case astiav.MediaTypeVideo:
			if res.Width != 0 {
				continue
			}
			res.Width, res.Height = cp.Width(), cp.Height()
			res.FrameRate = rate(st.AvgFrameRate())
			if res.FrameRate == 0 {
				res.FrameRate = rate(st.RFrameRate())
			}
			res.FrameCount = st.NbFrames()
			copyTags(st.Metadata(), res.Tags)
		case astiav.MediaTypeAudio:
			if res.AudioSampleRate != 0 {
				continue
			}
			res.AudioSampleRate = cp.SampleRate()
			res.AudioChannels = cp.ChannelLayout().Channels()
		}
	}
	return res, nil
}

func rate(r astiav.Rational) float64 {
	if r.Den() == 0 {
		return 0
	}
	return r.Float64()
}

// copyTags adds every entry of d not already in into.
func copyTags(d *astiav.Dictionary, into map[string]string) {
	if d == nil {
		return
	}
	flags := astiav.NewDictionaryFlags(astiav.DictionaryFlagIgnoreSuffix)
	var e *astiav.DictionaryEntry
	for {
		e = d.Get("", e, flags)
		if e == nil {
			return
		}
		if _, ok := into[e.Key()]; !ok {
			into[e.Key()] = e.Value()
		}
	}
}

var _ ports.MetadataProber = (*Prober)(nil)
