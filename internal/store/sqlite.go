package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/ThaerHindawi/livekit/internal/metrics"
	"github.com/ThaerHindawi/livekit/internal/models"
)

// SQLiteJournal stores room events in a local SQLite database.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens (or creates) the database at dbPath.
// If dbPath is empty, defaults to "./data/videocall.db"
func NewSQLiteJournal(ctx context.Context, dbPath string) (*SQLiteJournal, error) {
	if dbPath == "" {
		dbPath = "./data/videocall.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	journal := &SQLiteJournal{db: db}

	if err := journal.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return journal, nil
}

// initSchema creates tables if they don't exist.
// created_at holds unix milliseconds.
func (s *SQLiteJournal) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS room_events (
		id TEXT PRIMARY KEY,
		room_name TEXT NOT NULL,
		participant TEXT NOT NULL,
		kind TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_room_events_room ON room_events(room_name, created_at);
	CREATE INDEX IF NOT EXISTS idx_room_events_created ON room_events(created_at);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database.
func (s *SQLiteJournal) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteJournal) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RecordEvent inserts an event, filling in ID and CreatedAt when unset.
func (s *SQLiteJournal) RecordEvent(ctx context.Context, event *models.RoomEvent) error {
	defer observeSQLite(time.Now())

	if event.ID == "" {
		event.ID = ulid.Make().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO room_events (id, room_name, participant, kind, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, event.ID, event.Room, event.Participant, string(event.Kind), event.CreatedAt.UnixMilli())
	return err
}

// RoomEvents returns the most recent events for room, newest first.
func (s *SQLiteJournal) RoomEvents(ctx context.Context, room string, limit int) ([]models.RoomEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}

	defer observeSQLite(time.Now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_name, participant, kind, created_at
		FROM room_events
		WHERE room_name = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, room, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteEvents(rows, limit)
}

// Summary aggregates event counts and the latest events across all rooms.
func (s *SQLiteJournal) Summary(ctx context.Context, recent int) (*models.JournalSummary, error) {
	defer observeSQLite(time.Now())

	if recent <= 0 {
		recent = defaultEventLimit
	}

	summary := &models.JournalSummary{Counts: make(map[models.EventKind]int64)}

	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM room_events GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			rows.Close()
			return nil, err
		}
		summary.Counts[models.EventKind(kind)] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var lastMs sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(created_at) FROM room_events`).Scan(&lastMs); err != nil {
		return nil, err
	}
	if lastMs.Valid {
		t := time.UnixMilli(lastMs.Int64).UTC()
		summary.LastActivity = &t
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, room_name, participant, kind, created_at
		FROM room_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, recent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary.Recent, err = scanSQLiteEvents(rows, recent)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func scanSQLiteEvents(rows *sql.Rows, capacity int) ([]models.RoomEvent, error) {
	events := make([]models.RoomEvent, 0, capacity)
	for rows.Next() {
		var e models.RoomEvent
		var kind string
		var createdMs int64
		if err := rows.Scan(&e.ID, &e.Room, &e.Participant, &kind, &createdMs); err != nil {
			return nil, err
		}
		e.Kind = models.EventKind(kind)
		e.CreatedAt = time.UnixMilli(createdMs).UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

func observeSQLite(start time.Time) {
	metrics.JournalLatency.WithLabelValues("sqlite").Observe(time.Since(start).Seconds())
}
