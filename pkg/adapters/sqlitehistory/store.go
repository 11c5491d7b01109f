// Package sqlitehistory stores play history in a SQLite database.
package sqlitehistory

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/user/xplayer/pkg/ports"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Store implements ports.HistoryStore.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite driver: %w", err)
	}

	d, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores entry. A missing ID or PlayedAt is filled in.
func (s *Store) Record(ctx context.Context, entry ports.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.PlayedAt.IsZero() {
		entry.PlayedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO history(id, location, title, duration_ms, position_ms, stop_reason, played_at)
		 VALUES (?,?,?,?,?,?,?)`,
		entry.ID, entry.Location, entry.Title, entry.DurationMs, entry.PositionMs,
		entry.StopReason, entry.PlayedAt.UnixMilli(),
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]ports.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, location, title, duration_ms, position_ms, stop_reason, played_at
		 FROM history ORDER BY played_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.HistoryEntry
	for rows.Next() {
		var e ports.HistoryEntry
		var playedAt int64
		if err := rows.Scan(&e.ID, &e.Location, &e.Title, &e.DurationMs, &e.PositionMs, &e.StopReason, &playedAt); err != nil {
			return nil, err
		}
		e.PlayedAt = time.UnixMilli(playedAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) LastPosition(ctx context.Context, location string) (int64, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT position_ms FROM history WHERE location = ? ORDER BY played_at DESC, rowid DESC LIMIT 1`, location)
	var pos int64
	if err := row.Scan(&pos); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return pos, true, nil
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	return err
}

var _ ports.HistoryStore = (*Store)(nil)
