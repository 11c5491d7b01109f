package ports

import (
	"context"
	"time"
)

// HistoryEntry is one finished playback of a media item.
type HistoryEntry struct {
	ID         string
	Location   string
	Title      string
	DurationMs int64
	PositionMs int64
	StopReason string
	PlayedAt   time.Time
}

// HistoryStore persists playback history.
type HistoryStore interface {
	Record(ctx context.Context, entry HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)

	// LastPosition returns where the most recent playback of location stopped.
	LastPosition(ctx context.Context, location string) (int64, bool, error)

	Clear(ctx context.Context) error
}
