// Package playlist holds an ordered list of media locations and decides what
// plays next when the engine reaches the end of an item.
package playlist

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/user/xplayer/pkg/ports"
)

var (
	ErrIndexOutOfRange = errors.New("playlist: index out of range")
	ErrUnknownMode     = errors.New("playlist: unknown play mode")
)

// Mode selects how Next and Previous move through the list.
type Mode int

const (
	Sequential Mode = iota
	Random
	CurrentItemOnce
	CurrentItemInLoop
	Loop
)

var modeNames = map[Mode]string{
	Sequential:        "sequential",
	Random:            "random",
	CurrentItemOnce:   "once",
	CurrentItemInLoop: "repeat-one",
	Loop:              "loop",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode parses a mode name as printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return Sequential, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Player is the part of the engine the playlist drives.
type Player interface {
	SetMedia(location string)
	Play(ctx context.Context) error
	Stop()
}

// Playlist implements ports.Playlist.
type Playlist struct {
	ctx    context.Context
	player Player
	log    ports.Logger
	rng    *rand.Rand

	mu      sync.Mutex
	items   []string
	current int
	mode    Mode

	done     chan struct{}
	doneOnce sync.Once
}

// Option configures a Playlist.
type Option func(*Playlist)

// WithMode sets the initial play mode.
func WithMode(m Mode) Option {
	return func(p *Playlist) { p.mode = m }
}

// WithRand sets the random source used by Random mode.
func WithRand(r *rand.Rand) Option {
	return func(p *Playlist) { p.rng = r }
}

// New creates an empty playlist driving player. ctx is passed to every Play.
func New(ctx context.Context, player Player, log ports.Logger, opts ...Option) *Playlist {
	p := &Playlist{
		ctx:     ctx,
		player:  player,
		log:     log.WithComponent("playlist"),
		current: -1,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return p
}

// Add appends locations.
func (p *Playlist) Add(locations ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, locations...)
}

// Clear removes every item.
func (p *Playlist) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.current = -1
}

// Items returns a copy of the locations.
func (p *Playlist) Items() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.items...)
}

// Len returns the number of items.
func (p *Playlist) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// CurrentIndex returns the index of the current item, or -1.
func (p *Playlist) CurrentIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Mode returns the play mode.
func (p *Playlist) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// SetMode changes the play mode.
func (p *Playlist) SetMode(m Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = m
}

// Done is closed once Next finds nothing further to play.
func (p *Playlist) Done() <-chan struct{} {
	return p.done
}

// SetCurrentIndex stops the player, loads item i and plays it.
func (p *Playlist) SetCurrentIndex(i int) error {
	p.mu.Lock()
	if i < 0 || i >= len(p.items) {
		p.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	p.current = i
	location := p.items[i]
	p.mu.Unlock()

	p.log.Info("Playing item %d: %s", i+1, location)
	p.player.Stop()
	p.player.SetMedia(location)
	return p.player.Play(p.ctx)
}

// Start plays the first item, moving on per the mode if it cannot be opened.
func (p *Playlist) Start() {
	if p.Len() == 0 {
		p.finish()
		return
	}
	if err := p.SetCurrentIndex(0); err != nil {
		p.log.Warn("Skipping item %d: %v", 1, err)
		p.Next()
	}
}

// Next moves on according to the mode. Items that fail to open are skipped
// until every item has been tried once.
func (p *Playlist) Next() {
	for attempts := p.Len(); attempts > 0; attempts-- {
		i, ok := p.nextIndex()
		if !ok {
			break
		}
		err := p.SetCurrentIndex(i)
		if err == nil {
			return
		}
		p.log.Warn("Skipping item %d: %v", i+1, err)
		if p.Mode() == CurrentItemInLoop {
			break
		}
	}
	p.finish()
}

// Previous moves back according to the mode.
func (p *Playlist) Previous() {
	i, ok := p.previousIndex()
	if !ok {
		return
	}
	if err := p.SetCurrentIndex(i); err != nil {
		p.log.Warn("Skipping item %d: %v", i+1, err)
	}
}

func (p *Playlist) nextIndex() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.items)
	if n == 0 {
		return 0, false
	}
	switch p.mode {
	case CurrentItemOnce:
		return 0, false
	case CurrentItemInLoop:
		return p.current, p.current >= 0
	case Random:
		return p.rng.IntN(n), true
	case Loop:
		return (p.current + 1) % n, true
	default:
		next := p.current + 1
		return next, next < n
	}
}

func (p *Playlist) previousIndex() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.items)
	if n == 0 {
		return 0, false
	}
	switch p.mode {
	case CurrentItemOnce, CurrentItemInLoop:
		return p.current, p.current >= 0
	case Random:
		return p.rng.IntN(n), true
	case Loop:
		if p.current <= 0 {
			return n - 1, true
		}
		return p.current - 1, true
	default:
		return max(p.current-1, 0), true
	}
}

func (p *Playlist) finish() {
	p.doneOnce.Do(func() {
		p.log.Info("Playlist finished")
		close(p.done)
	})
}

var _ ports.Playlist = (*Playlist)(nil)
