package main

import (
	"context"
	"sync"
	"time"

	"github.com/user/xplayer/pkg/engine"
	"github.com/user/xplayer/pkg/ports"
	"github.com/user/xplayer/pkg/summarizer"
)

// enginePlayer is the part of the engine a session drives.
type enginePlayer interface {
	SetMedia(location string)
	Play(ctx context.Context) error
	Stop()
	SetPosition(ctx context.Context, ms int64) error
	LastStop() engine.StopInfo
}

// session sits between the playlist and the engine. It applies the start
// position, records every finished item in history and collects the items
// for the session report.
type session struct {
	player  enginePlayer
	history ports.HistoryStore
	log     ports.Logger

	resume  bool
	startMs int64

	mu       sync.Mutex
	location string
	items    []summarizer.ItemReport
}

func newSession(player enginePlayer, history ports.HistoryStore, log ports.Logger) *session {
	return &session{player: player, history: history, log: log, startMs: -1}
}

func (s *session) SetMedia(location string) {
	s.mu.Lock()
	s.location = location
	s.mu.Unlock()
	s.player.SetMedia(location)
}

func (s *session) Stop() {
	s.player.Stop()
}

// Play starts the current item. The --start offset applies to the first
// item only; --resume applies to every item with a stored position.
func (s *session) Play(ctx context.Context) error {
	s.mu.Lock()
	location := s.location
	start := s.startMs
	s.startMs = -1
	s.mu.Unlock()

	if start < 0 && s.resume && s.history != nil {
		if pos, ok, err := s.history.LastPosition(ctx, location); err != nil {
			s.log.Warn("Failed to read history for %s: %v", location, err)
		} else if ok && pos > 0 {
			s.log.Info("Resuming %s at %d ms", location, pos)
			start = pos
		}
	}
	if start > 0 {
		if err := s.player.SetPosition(ctx, start); err != nil {
			s.log.Warn("Cannot start %s at %d ms: %v", location, start, err)
		}
	}

	err := s.player.Play(ctx)
	if err != nil {
		s.mu.Lock()
		s.items = append(s.items, summarizer.ItemReport{Location: location, Error: err.Error()})
		s.mu.Unlock()
	}
	return err
}

// StateChanged records the item that just stopped.
func (s *session) StateChanged(state engine.State) {
	if state != engine.Stopped {
		return
	}
	stop := s.player.LastStop()
	if stop.Media.Location == "" || stop.Reason == engine.StopNone {
		return
	}

	md := stop.Media.Metadata
	s.mu.Lock()
	s.items = append(s.items, summarizer.ItemReport{
		Location:       stop.Media.Location,
		Title:          stop.Media.Resolved.Title,
		DurationMs:     md.DurationMs,
		DurationSource: string(md.DurationSource),
		PositionMs:     stop.PositionMs,
		StopReason:     stop.Reason.String(),
	})
	s.mu.Unlock()

	if s.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.history.Record(ctx, ports.HistoryEntry{
		ID:         stop.Media.ID,
		Location:   stop.Media.Location,
		Title:      stop.Media.Resolved.Title,
		DurationMs: md.DurationMs,
		PositionMs: stop.PositionMs,
		StopReason: stop.Reason.String(),
	})
	if err != nil {
		s.log.Warn("Failed to record history for %s: %v", stop.Media.Location, err)
	}
}

func (s *session) PositionChanged(int64) {}

func (s *session) DurationChanged(int64) {}

// Items returns the reports collected so far.
func (s *session) Items() []summarizer.ItemReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]summarizer.ItemReport(nil), s.items...)
}

var _ engine.Listener = (*session)(nil)
