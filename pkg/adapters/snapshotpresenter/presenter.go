// Package snapshotpresenter saves every Nth presented frame as a PNG, with an
// optional on-screen display bar showing transport state and position.
package snapshotpresenter

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"sync"

	"github.com/user/xplayer/pkg/ports"
)

const (
	DefaultEvery = 30
	queueSize    = 4
	barHeight    = 24
	barFontSize  = 13
	barPadding   = 6
)

var (
	barColor      = color.RGBA{R: 16, G: 16, B: 16, A: 255}
	progressColor = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	textColor     = color.White
)

// Options controls which frames are saved and how.
type Options struct {
	Dir   string
	Every int
	OSD   bool

	// MaxWidth scales wider frames down, keeping the aspect ratio. Zero keeps
	// the decoded size.
	MaxWidth int

	// FontPath optionally replaces the built-in OSD face.
	FontPath string
}

// Status is what the OSD shows.
type Status struct {
	State      string
	PositionMs int64
	DurationMs int64
}

type job struct {
	seq    int
	frame  ports.VideoFrame
	status Status
}

// Presenter implements ports.Presenter. Encoding and writing happen on a
// worker goroutine; frames arriving while the queue is full are skipped.
type Presenter struct {
	fs       ports.FileSystem
	renderer ports.Renderer
	log      ports.Logger
	opts     Options

	mu        sync.Mutex
	status    Status
	presented int64
	queued    int
	skipped   int
	saved     int

	jobs      chan job
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a presenter and starts its writer.
func New(fs ports.FileSystem, renderer ports.Renderer, log ports.Logger, opts Options) *Presenter {
	if opts.Every <= 0 {
		opts.Every = DefaultEvery
	}
	p := &Presenter{
		fs:       fs,
		renderer: renderer,
		log:      log.WithComponent("snapshot"),
		opts:     opts,
		jobs:     make(chan job, queueSize),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// SetState and SetDuration feed the OSD from the engine's listener. The
// position shown is the frame's own timestamp.
func (p *Presenter) SetState(state string) {
	p.mu.Lock()
	p.status.State = state
	p.mu.Unlock()
}

func (p *Presenter) SetDuration(ms int64) {
	p.mu.Lock()
	p.status.DurationMs = ms
	p.mu.Unlock()
}

func (p *Presenter) Present(frame ports.VideoFrame) {
	p.mu.Lock()
	p.presented++
	if (p.presented-1)%int64(p.opts.Every) != 0 {
		p.mu.Unlock()
		return
	}
	p.queued++
	j := job{seq: p.queued, frame: frame, status: p.status}
	j.status.PositionMs = frame.TimestampMs
	p.mu.Unlock()

	select {
	case p.jobs <- j:
	default:
		p.mu.Lock()
		p.skipped++
		p.mu.Unlock()
		p.log.Debug("Snapshot queue full, skipping frame %d", frame.Index)
	}
}

// Close waits for queued snapshots to be written. Present must not be
// called afterwards.
func (p *Presenter) Close() error {
	p.closeOnce.Do(func() { close(p.jobs) })
	<-p.done
	return nil
}

// Saved returns the number of snapshots written.
func (p *Presenter) Saved() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saved
}

// Skipped returns the number of snapshots dropped because the writer was busy.
func (p *Presenter) Skipped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.skipped
}

func (p *Presenter) run() {
	defer close(p.done)
	for j := range p.jobs {
		path, err := p.write(j)
		if err != nil {
			p.log.Warn("Failed to save snapshot of frame %d: %v", j.frame.Index, err)
			continue
		}
		p.mu.Lock()
		p.saved++
		p.mu.Unlock()
		p.log.Debug("Saved snapshot %s", path)
	}
}

func (p *Presenter) write(j job) (string, error) {
	var img image.Image = j.frame.Image()
	width, height := j.frame.Width, j.frame.Height
	if p.opts.MaxWidth > 0 && width > p.opts.MaxWidth {
		height = max(1, height*p.opts.MaxWidth/width)
		width = p.opts.MaxWidth
		img = p.renderer.ResizeImage(img, width, height)
	}

	canvasHeight := height
	if p.opts.OSD {
		canvasHeight += barHeight
	}
	canvas := p.renderer.CreateCanvas(width, canvasHeight, color.Black)
	canvas.DrawImage(img, 0, 0)
	if p.opts.OSD {
		p.drawOSD(canvas, width, height, j.status)
	}

	data, err := p.renderer.EncodeImage(canvas.ToImage(), ports.FormatPNG, 0)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	path := filepath.Join(p.opts.Dir, fmt.Sprintf("snapshot-%05d-frame-%06d.png", j.seq, j.frame.Index))
	if err := p.fs.WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func (p *Presenter) drawOSD(canvas ports.Canvas, width, top int, st Status) {
	canvas.DrawRect(0, top, width, barHeight, barColor)
	if st.DurationMs > 0 {
		progress := min(st.PositionMs, st.DurationMs) * int64(width) / st.DurationMs
		canvas.DrawRect(0, top, int(progress), 2, progressColor)
	}

	style := ports.TextStyle{FontSize: barFontSize, FontPath: p.opts.FontPath, Color: textColor}
	mid := top + barHeight/2 + 1
	clock := FormatClock(st.PositionMs) + " / " + FormatClock(st.DurationMs)

	// The state label is dropped when the bar is too narrow for both.
	stateWidth, _ := canvas.MeasureText(st.State, style)
	clockWidth, _ := canvas.MeasureText(clock, style)
	if stateWidth+clockWidth+3*barPadding <= float64(width) {
		canvas.DrawText(st.State, barPadding, mid, style)
	}

	style.Align = ports.AlignRight
	canvas.DrawText(clock, width-barPadding, mid, style)
}

// FormatClock renders milliseconds as M:SS, or H:MM:SS from one hour.
func FormatClock(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	s := ms / 1000
	h, m, sec := s/3600, (s/60)%60, s%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

var _ ports.Presenter = (*Presenter)(nil)
