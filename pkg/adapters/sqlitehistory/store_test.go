package sqlitehistory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/xplayer/pkg/ports"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, loc := range []string{"/a.mp4", "/b.mp4", "/c.mp4"} {
		err := s.Record(ctx, ports.HistoryEntry{
			Location:   loc,
			DurationMs: 60000,
			PositionMs: int64(i) * 1000,
			StopReason: "user",
			PlayedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	recent, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Location != "/c.mp4" || recent[1].Location != "/b.mp4" {
		t.Errorf("expected newest first, got %s, %s", recent[0].Location, recent[1].Location)
	}
	if recent[0].ID == "" {
		t.Error("expected an ID to be assigned")
	}
	if !recent[0].PlayedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("expected played at %v, got %v", base.Add(2*time.Minute), recent[0].PlayedAt)
	}

	all, _ := s.Recent(ctx, 0)
	if len(all) != 3 {
		t.Errorf("expected all 3 entries without a limit, got %d", len(all))
	}
}

func TestStore_LastPosition(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if _, ok, err := s.LastPosition(ctx, "/a.mp4"); err != nil || ok {
		t.Fatalf("expected no position, got ok=%v err=%v", ok, err)
	}

	s.Record(ctx, ports.HistoryEntry{Location: "/a.mp4", PositionMs: 5000, PlayedAt: base})
	s.Record(ctx, ports.HistoryEntry{Location: "/a.mp4", PositionMs: 42000, PlayedAt: base.Add(time.Hour)})
	s.Record(ctx, ports.HistoryEntry{Location: "/b.mp4", PositionMs: 7000, PlayedAt: base.Add(2 * time.Hour)})

	pos, ok, err := s.LastPosition(ctx, "/a.mp4")
	if err != nil || !ok {
		t.Fatalf("LastPosition failed: ok=%v err=%v", ok, err)
	}
	if pos != 42000 {
		t.Errorf("expected 42000, got %d", pos)
	}
}

func TestStore_Clear(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	s.Record(ctx, ports.HistoryEntry{Location: "/a.mp4"})

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	recent, _ := s.Recent(ctx, 10)
	if len(recent) != 0 {
		t.Errorf("expected empty history, got %d entries", len(recent))
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s.Record(context.Background(), ports.HistoryEntry{ID: "fixed", Location: "/a.mp4", PositionMs: 9})
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	recent, _ := s.Recent(context.Background(), 1)
	if len(recent) != 1 || recent[0].ID != "fixed" {
		t.Errorf("expected the stored entry after reopen, got %+v", recent)
	}
}
