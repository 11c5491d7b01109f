// Package mp4probe reads duration, frame rate and stream parameters from
// ISO-BMFF (MP4/MOV) headers without decoding any media.
package mp4probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/xplayer/pkg/ports"
)

var (
	// ErrNotMP4 is returned for locations this prober does not read.
	ErrNotMP4 = errors.New("mp4probe: not an MP4 file")

	// ErrNoTracks is returned when the file has no moov box.
	ErrNoTracks = errors.New("mp4probe: no tracks found")
)

var extensions = map[string]bool{".mp4": true, ".m4v": true, ".mov": true, ".m4a": true, ".3gp": true}

// Codec is the video sample entry family.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecUnknown Codec = "unknown"
)

// Prober implements ports.MetadataProber for local MP4 files.
type Prober struct{}

// New creates a Prober.
func New() *Prober {
	return &Prober{}
}

func (p *Prober) Name() string { return "mp4" }

func (p *Prober) Probe(ctx context.Context, location string) (ports.ProbeResult, error) {
	if strings.Contains(location, "://") || !extensions[strings.ToLower(filepath.Ext(location))] {
		return ports.ProbeResult{}, ErrNotMP4
	}
	f, err := os.Open(location)
	if err != nil {
		return ports.ProbeResult{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader reads metadata from an MP4 stream. Media data is not loaded.
func ProbeReader(r io.ReadSeeker) (ports.ProbeResult, error) {
	file, err := mp4.DecodeFile(r, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return ports.ProbeResult{}, fmt.Errorf("%w: decode mp4: %w", ErrNotMP4, err)
	}

	moov := file.Moov
	if file.IsFragmented() && file.Init != nil {
		moov = file.Init.Moov
	}
	if moov == nil {
		return ports.ProbeResult{}, ErrNoTracks
	}

	res := ports.ProbeResult{Tags: map[string]string{}}
	if moov.Mvhd != nil && moov.Mvhd.Timescale > 0 {
		res.DurationMs = int64(moov.Mvhd.Duration * 1000 / uint64(moov.Mvhd.Timescale))
	}

	for _, trak := range moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil {
			continue
		}
		switch trak.Mdia.Hdlr.HandlerType {
		case "vide":
			if res.Width != 0 {
				continue
			}
			readVideoTrack(file, trak, &res)
		case "soun":
			if res.AudioSampleRate != 0 {
				continue
			}
			readAudioTrack(trak, &res)
		}
	}
	return res, nil
}

func readVideoTrack(file *mp4.File, trak *mp4.TrakBox, res *ports.ProbeResult) {
	stsd := sampleDescriptions(trak)
	if stsd == nil {
		return
	}
	for _, child := range stsd.Children {
		if entry, ok := child.(*mp4.VisualSampleEntryBox); ok {
			res.Width, res.Height = int(entry.Width), int(entry.Height)
		}
		if c := codecOf(child.Type()); c != CodecUnknown {
			res.Tags["codec"] = string(c)
		}
	}

	var samples uint64
	if stsz := trak.Mdia.Minf.Stbl.Stsz; stsz != nil {
		samples = uint64(stsz.SampleNumber)
	}
	if samples == 0 && file.IsFragmented() && trak.Tkhd != nil {
		samples = fragmentSamples(file, trak.Tkhd.TrackID)
	}
	res.FrameCount = int64(samples)

	mdhd := trak.Mdia.Mdhd
	if mdhd == nil || mdhd.Timescale == 0 || samples == 0 {
		return
	}
	trackMs := mdhd.Duration * 1000 / uint64(mdhd.Timescale)
	if trackMs == 0 {
		trackMs = uint64(max(res.DurationMs, 0))
	}
	if trackMs > 0 {
		res.FrameRate = float64(samples) * 1000 / float64(trackMs)
	}
}

func readAudioTrack(trak *mp4.TrakBox, res *ports.ProbeResult) {
	stsd := sampleDescriptions(trak)
	if stsd == nil {
		return
	}
	for _, child := range stsd.Children {
		if entry, ok := child.(*mp4.AudioSampleEntryBox); ok {
			res.AudioSampleRate = int(entry.SampleRate)
			res.AudioChannels = int(entry.ChannelCount)
			return
		}
	}
}

func sampleDescriptions(trak *mp4.TrakBox) *mp4.StsdBox {
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
		return nil
	}
	return trak.Mdia.Minf.Stbl.Stsd
}

// fragmentSamples counts the samples of one track across all fragments.
func fragmentSamples(file *mp4.File, trackID uint32) uint64 {
	var n uint64
	for _, seg := range file.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != trackID {
					continue
				}
				for _, trun := range traf.Truns {
					n += uint64(trun.SampleCount())
				}
			}
		}
	}
	return n
}

func codecOf(boxType string) Codec {
	switch boxType {
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecHEVC
	case "av01":
		return CodecAV1
	default:
		return CodecUnknown
	}
}

var _ ports.MetadataProber = (*Prober)(nil)
