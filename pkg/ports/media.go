package ports

import (
	"context"
	"image"
)

// PixelFormat names the memory layout of VideoFrame.Pixels.
type PixelFormat string

const (
	PixelFormatRGB24 PixelFormat = "rgb24"
	PixelFormatRGBA  PixelFormat = "rgba"
)

// BytesPerPixel returns the number of bytes one pixel occupies.
func (p PixelFormat) BytesPerPixel() int {
	switch p {
	case PixelFormatRGBA:
		return 4
	default:
		return 3
	}
}

// VideoFrame is one decoded picture. Ownership of Pixels moves with the frame;
// whoever holds it last may keep or mutate it.
type VideoFrame struct {
	Pixels []byte
	Width  int
	Height int
	Format PixelFormat

	// Index is the frame number counted from the start of the media.
	Index int64
	// TimestampMs is the presentation time of the frame within the media.
	TimestampMs int64
}

// Image converts the frame into an image.RGBA.
func (f VideoFrame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	if f.Format == PixelFormatRGBA {
		copy(img.Pix, f.Pixels)
		return img
	}
	for i, j := 0, 0; i+2 < len(f.Pixels) && j+3 < len(img.Pix); i, j = i+3, j+4 {
		img.Pix[j] = f.Pixels[i]
		img.Pix[j+1] = f.Pixels[i+1]
		img.Pix[j+2] = f.Pixels[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// DurationSource records which resolution step produced Metadata.DurationMs.
type DurationSource string

const (
	DurationFromDecoder  DurationSource = "decoder"
	DurationFromTags     DurationSource = "tags"
	DurationFromFrames   DurationSource = "frames"
	DurationFromBitrate  DurationSource = "bitrate"
	DurationFromProbe    DurationSource = "probe"
	DurationFromFallback DurationSource = "fallback"
)

// Metadata describes an opened media item.
type Metadata struct {
	Location       string
	DurationMs     int64
	DurationSource DurationSource
	FrameRate      float64
	Width          int
	Height         int

	AudioSampleRate int
	AudioChannels   int
}

// HasVideo reports whether the media has a picture to decode.
func (m Metadata) HasVideo() bool {
	return m.Width > 0 && m.Height > 0
}

// FrameIntervalMs returns the duration of one frame in milliseconds.
func (m Metadata) FrameIntervalMs() float64 {
	if m.FrameRate <= 0 {
		return 0
	}
	return 1000 / m.FrameRate
}

// OpenOptions controls how a FrameSource is opened.
type OpenOptions struct {
	StartOffsetMs int64

	// ReadAheadFrames sizes the decoder output buffer in frames. Zero uses the
	// backend default.
	ReadAheadFrames int
}

// FrameSource is a forward-only, finite sequence of decoded frames.
// Changing position requires opening a new source.
type FrameSource interface {
	Metadata() Metadata

	// NextFrame returns the next frame in presentation order, or false when
	// no frame is available.
	NextFrame() (VideoFrame, bool)

	// Err reports why NextFrame last returned false: nil at a clean end of
	// stream, non-nil on a decode failure.
	Err() error

	// Close releases decoder resources. It is idempotent and may be called
	// from a goroutine other than the reader.
	Close() error
}

// FrameOpener creates FrameSources.
type FrameOpener interface {
	Open(ctx context.Context, location string, opts OpenOptions) (FrameSource, error)
}

// ProbeResult is the raw metadata one prober could read. Zero values mean
// the field was not available.
type ProbeResult struct {
	DurationMs int64
	Tags       map[string]string
	FrameCount int64
	FrameRate  float64
	BitRate    int64
	Width      int
	Height     int

	AudioSampleRate int
	AudioChannels   int
}

// MetadataProber reads container metadata without decoding frames.
type MetadataProber interface {
	Name() string
	Probe(ctx context.Context, location string) (ProbeResult, error)
}
