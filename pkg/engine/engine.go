// Package engine implements the playback state machine. It owns the frame
// source, frame buffer, playback clock, audio renderer and sync controller
// for one media item and drives them from periodic ticks.
package engine

import (
	"sync"
	"time"

	"github.com/user/xplayer/pkg/audio"
	"github.com/user/xplayer/pkg/avsync"
	"github.com/user/xplayer/pkg/clock"
	"github.com/user/xplayer/pkg/framebuffer"
	"github.com/user/xplayer/pkg/ports"
)

// State is the transport state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// StopReason records why playback last stopped.
type StopReason int

const (
	StopNone StopReason = iota
	StopUser
	StopEndOfStream
	StopDecodeFailure
	StopMediaChanged
)

func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopUser:
		return "user"
	case StopEndOfStream:
		return "end-of-stream"
	case StopDecodeFailure:
		return "decode-failure"
	case StopMediaChanged:
		return "media-changed"
	default:
		return "unknown"
	}
}

// Advances reports whether stopping for this reason moves the playlist on.
func (r StopReason) Advances() bool {
	return r == StopEndOfStream || r == StopDecodeFailure
}

// MediaHandle identifies the loaded media item.
type MediaHandle struct {
	ID       string
	Location string
	Resolved ports.Resolved
	Metadata ports.Metadata
}

// StopInfo describes the most recent transition to Stopped.
type StopInfo struct {
	Reason     StopReason
	PositionMs int64
	Media      MediaHandle
}

// Stats counts engine activity since construction.
type Stats struct {
	FramesPresented int64
	FramesDropped   int64
	DecodeRetries   int64
	Seeks           int64
	SeekFallbacks   int64
	AudioFailures   int64
	Sync            avsync.Stats
}

// Deps are the engine's collaborators. Opener, Scheduler and Logger are
// required; the rest may be nil.
type Deps struct {
	Opener    ports.FrameOpener
	Audio     ports.AudioExtractor
	Device    ports.AudioDevice
	Presenter ports.Presenter
	Playlist  ports.Playlist
	Resolver  ports.Resolver
	Scheduler ports.Scheduler
	Listener  Listener
	Logger    ports.Logger
}

// Engine is the playback state machine. All methods are safe for concurrent
// use; ticks and transport calls are serialized by one mutex that the audio
// render path never takes.
type Engine struct {
	deps Deps
	opts Options
	log  ports.Logger

	mu     sync.Mutex
	outbox []func()

	state        State
	media        *MediaHandle
	pendingSeek  int64
	lastDuration int64
	lastStop     StopInfo

	source   ports.FrameSource
	frames   *framebuffer.Buffer
	clock    *clock.Clock
	renderer *audio.Renderer
	sync     *avsync.Controller

	deviceOpen     bool
	deviceRate     int
	deviceChannels int

	tasks      []ports.Task
	gen        uint64
	lastSample time.Time
	rate       float64
	volume     int

	segmentStartMs int64
	segmentFrames  int64
	decodeRetries  int

	stats Stats
}

// New creates a stopped engine.
func New(deps Deps, opts Options) *Engine {
	opts = opts.withDefaults()
	log := deps.Logger.WithComponent("engine")
	renderer := audio.NewRenderer(opts.Volume)
	return &Engine{
		deps:         deps,
		opts:         opts,
		log:          log,
		pendingSeek:  -1,
		lastDuration: -1,
		frames:       framebuffer.New(opts.BufferCapacity, opts.RefillBatch),
		clock:        clock.New(),
		renderer:     renderer,
		sync:         avsync.New(opts.Sync, avsync.RendererClock{Renderer: renderer}, deps.Logger.WithComponent("avsync")),
		rate:         opts.Rate,
		volume:       opts.Volume,
	}
}

// SetPlaylist sets the playlist advanced on end of stream.
func (e *Engine) SetPlaylist(p ports.Playlist) {
	e.lock()
	defer e.unlock()
	e.deps.Playlist = p
}

// SetListener replaces the event listener.
func (e *Engine) SetListener(l Listener) {
	e.lock()
	defer e.unlock()
	e.deps.Listener = l
}

// State returns the transport state.
func (e *Engine) State() State {
	e.lock()
	defer e.unlock()
	return e.state
}

// Position returns the playback position in milliseconds as of the last tick
// or seek.
func (e *Engine) Position() int64 {
	e.lock()
	defer e.unlock()
	return e.clock.Position()
}

// Duration returns the media duration in milliseconds, or 0 before the
// media has been opened.
func (e *Engine) Duration() int64 {
	e.lock()
	defer e.unlock()
	return e.durationLocked()
}

// Volume returns the volume (0..100).
func (e *Engine) Volume() int {
	e.lock()
	defer e.unlock()
	return e.volume
}

// PlaybackRate returns the playback rate.
func (e *Engine) PlaybackRate() float64 {
	e.lock()
	defer e.unlock()
	return e.rate
}

// Media returns a copy of the loaded media handle.
func (e *Engine) Media() (MediaHandle, bool) {
	e.lock()
	defer e.unlock()
	if e.media == nil {
		return MediaHandle{}, false
	}
	return *e.media, true
}

// LastStop describes the most recent stop.
func (e *Engine) LastStop() StopInfo {
	e.lock()
	defer e.unlock()
	return e.lastStop
}

// LastStopReason is shorthand for LastStop().Reason.
func (e *Engine) LastStopReason() StopReason {
	return e.LastStop().Reason
}

// Stats returns activity counters.
func (e *Engine) Stats() Stats {
	e.lock()
	defer e.unlock()
	s := e.stats
	s.Sync = e.sync.Stats()
	return s
}

func (e *Engine) lock() {
	e.mu.Lock()
}

// unlock releases the engine and then runs the callbacks queued while it was
// held, in order.
func (e *Engine) unlock() {
	out := e.outbox
	e.outbox = nil
	e.mu.Unlock()
	for _, fn := range out {
		fn()
	}
}

func (e *Engine) durationLocked() int64 {
	if e.media == nil {
		return 0
	}
	return e.media.Metadata.DurationMs
}

func (e *Engine) durationTrustedLocked() bool {
	return e.media != nil &&
		e.media.Metadata.DurationMs > 0 &&
		e.media.Metadata.DurationSource != ports.DurationFromFallback
}
