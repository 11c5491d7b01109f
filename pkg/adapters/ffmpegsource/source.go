// Package ffmpegsource decodes video frames by running ffmpeg as a
// subprocess that writes raw RGB frames to stdout.
package ffmpegsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/user/xplayer/pkg/adapters/ffmpeg"
	"github.com/user/xplayer/pkg/ports"
)

const (
	DefaultMaxWidth  = 1280
	DefaultMaxHeight = 720
)

// MetadataResolver supplies frame rate and dimensions before decoding.
type MetadataResolver interface {
	Resolve(ctx context.Context, location string) (ports.Metadata, error)
}

// Options bounds the decoded frame size.
type Options struct {
	MaxWidth  int
	MaxHeight int
}

// Opener implements ports.FrameOpener.
type Opener struct {
	meta MetadataResolver
	opts Options
	log  ports.Logger
}

// NewOpener creates an opener. Frames larger than the bounds are scaled down
// keeping the aspect ratio.
func NewOpener(meta MetadataResolver, opts Options, log ports.Logger) *Opener {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultMaxWidth
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = DefaultMaxHeight
	}
	return &Opener{meta: meta, opts: opts, log: log.WithComponent("ffmpegsource")}
}

// Open starts ffmpeg at opts.StartOffsetMs and waits for the first frame, so
// an unreadable or unsupported file fails here rather than on the first tick.
// Media with an audio track but no video opens as a source without frames.
// An offset at or past the last frame opens as an already exhausted source.
func (o *Opener) Open(ctx context.Context, location string, opts ports.OpenOptions) (ports.FrameSource, error) {
	meta, err := o.meta.Resolve(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecoderInit, err)
	}
	if !meta.HasVideo() {
		if meta.AudioSampleRate <= 0 {
			return nil, fmt.Errorf("%w: no video or audio stream in %s", ErrDecoderInit, location)
		}
		o.log.Debug("No video stream in %s, playing audio only", location)
		return &audioOnlySource{meta: meta}, nil
	}

	ffmpegPath, err := ffmpeg.FindFFmpeg()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecoderInit, err)
	}
	meta.Width, meta.Height = FitSize(meta.Width, meta.Height, o.opts.MaxWidth, o.opts.MaxHeight)

	src := newSource(meta, opts)
	args := buildArgs(location, opts.StartOffsetMs, meta.Width, meta.Height)
	if err := src.start(ffmpegPath, args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecoderInit, err)
	}

	first, ok, err := src.receive(ctx)
	if err != nil {
		src.Close()
		return nil, err
	}
	if !ok {
		msg := src.stderrText()
		if opts.StartOffsetMs > 0 && src.Err() == nil {
			o.log.Debug("No frames in %s after %d ms", location, opts.StartOffsetMs)
			return src, nil
		}
		src.Close()
		return nil, fmt.Errorf("%w: %s: %s", ErrDecoderInit, location, msg)
	}
	src.peeked = &first

	o.log.Debug("Decoding %s from %d ms at %dx%d", location, opts.StartOffsetMs, meta.Width, meta.Height)
	return src, nil
}

func buildArgs(location string, offsetMs int64, width, height int) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-nostdin"}
	if offsetMs > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", float64(offsetMs)/1000))
	}
	return append(args,
		"-i", location,
		"-map", "0:v:0",
		"-an", "-sn",
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)
}

// FitSize scales width x height down to fit maxW x maxH, keeping the aspect
// ratio. Results are rounded to even numbers as most codecs require.
func FitSize(width, height, maxW, maxH int) (int, int) {
	if width <= maxW && height <= maxH {
		return width &^ 1, height &^ 1
	}
	w, h := maxW, height*maxW/width
	if h > maxH {
		w, h = width*maxH/height, maxH
	}
	return max(w&^1, 2), max(h&^1, 2)
}

// source is a ports.FrameSource over a running ffmpeg process.
type source struct {
	meta       ports.Metadata
	frameSize  int
	startIndex int64
	offsetMs   int64

	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr lockedBuffer

	frames chan []byte
	quit   chan struct{}
	done   chan struct{}

	peeked *ports.VideoFrame
	next   int64

	mu        sync.Mutex
	err       error
	closed    bool
	closeOnce sync.Once
}

func newSource(meta ports.Metadata, opts ports.OpenOptions) *source {
	readAhead := max(opts.ReadAheadFrames, 1)
	return &source{
		meta:       meta,
		frameSize:  meta.Width * meta.Height * ports.PixelFormatRGB24.BytesPerPixel(),
		startIndex: int64(float64(opts.StartOffsetMs) * meta.FrameRate / 1000),
		offsetMs:   opts.StartOffsetMs,
		frames:     make(chan []byte, readAhead),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (s *source) start(ffmpegPath string, args []string) error {
	s.cmd = exec.Command(ffmpegPath, args...)
	s.cmd.Stderr = &s.stderr
	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	s.stdout = stdout
	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	go s.readLoop()
	return nil
}

// readLoop reads whole frames until ffmpeg exits, then records why.
func (s *source) readLoop() {
	defer close(s.done)
	defer close(s.frames)

	var readErr error
	for {
		buf := make([]byte, s.frameSize)
		if _, err := io.ReadFull(s.stdout, buf); err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = err
			}
			break
		}
		select {
		case s.frames <- buf:
		case <-s.quit:
			_ = s.cmd.Wait()
			return
		}
	}

	waitErr := s.cmd.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	switch {
	case waitErr != nil:
		s.err = fmt.Errorf("%w: %w: %s", ErrDecodeRead, waitErr, s.stderr.String())
	case readErr != nil:
		s.err = fmt.Errorf("%w: %w", ErrDecodeRead, readErr)
	}
}

func (s *source) receive(ctx context.Context) (ports.VideoFrame, bool, error) {
	select {
	case buf, ok := <-s.frames:
		if !ok {
			return ports.VideoFrame{}, false, nil
		}
		return s.frame(buf), true, nil
	case <-ctx.Done():
		return ports.VideoFrame{}, false, ctx.Err()
	}
}

func (s *source) frame(buf []byte) ports.VideoFrame {
	n := s.next
	s.next++
	var ts int64
	if s.meta.FrameRate > 0 {
		ts = s.offsetMs + int64(float64(n)*1000/s.meta.FrameRate)
	}
	return ports.VideoFrame{
		Pixels:      buf,
		Width:       s.meta.Width,
		Height:      s.meta.Height,
		Format:      ports.PixelFormatRGB24,
		Index:       s.startIndex + n,
		TimestampMs: ts,
	}
}

func (s *source) Metadata() ports.Metadata { return s.meta }

// NextFrame blocks until ffmpeg has produced the next frame or exited.
func (s *source) NextFrame() (ports.VideoFrame, bool) {
	if s.peeked != nil {
		f := *s.peeked
		s.peeked = nil
		return f, true
	}
	buf, ok := <-s.frames
	if !ok {
		return ports.VideoFrame{}, false
	}
	return s.frame(buf), true
}

func (s *source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close kills ffmpeg and waits for the reader to exit. Safe to call more
// than once and from any goroutine.
func (s *source) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.quit)
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		<-s.done
	})
	return nil
}

func (s *source) stderrText() string {
	<-s.done
	return strings.TrimSpace(s.stderr.String())
}

// audioOnlySource stands in for the video of media that has none. It never
// yields a frame and never fails.
type audioOnlySource struct {
	meta ports.Metadata
}

func (s *audioOnlySource) Metadata() ports.Metadata { return s.meta }

func (s *audioOnlySource) NextFrame() (ports.VideoFrame, bool) { return ports.VideoFrame{}, false }

func (s *audioOnlySource) Err() error { return nil }

func (s *audioOnlySource) Close() error { return nil }

// lockedBuffer is a bytes.Buffer safe for the exec copier and readers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buf.Len() > 4096 {
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var (
	_ ports.FrameOpener = (*Opener)(nil)
	_ ports.FrameSource = (*source)(nil)
	_ ports.FrameSource = (*audioOnlySource)(nil)
)
