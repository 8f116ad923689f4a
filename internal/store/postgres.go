package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/ThaerHindawi/livekit/internal/metrics"
	"github.com/ThaerHindawi/livekit/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS room_events (
	id          TEXT PRIMARY KEY,
	room_name   TEXT NOT NULL,
	participant TEXT NOT NULL,
	kind        TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_room_events_room ON room_events(room_name, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_room_events_created ON room_events(created_at DESC);
`

// PostgresJournal stores room events in PostgreSQL.
type PostgresJournal struct {
	pool *pgxpool.Pool
}

// NewPostgresJournal creates a connection pool and ensures the schema exists.
func NewPostgresJournal(ctx context.Context, databaseURL string) (*PostgresJournal, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresJournal{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresJournal) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresJournal) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// RecordEvent inserts an event, filling in ID and CreatedAt when unset.
func (s *PostgresJournal) RecordEvent(ctx context.Context, event *models.RoomEvent) error {
	defer observePostgres(time.Now())

	if event.ID == "" {
		event.ID = ulid.Make().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO room_events (id, room_name, participant, kind, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, event.ID, event.Room, event.Participant, string(event.Kind), event.CreatedAt)
	return err
}

// RoomEvents returns the most recent events for room, newest first.
func (s *PostgresJournal) RoomEvents(ctx context.Context, room string, limit int) ([]models.RoomEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}

	defer observePostgres(time.Now())

	rows, err := s.pool.Query(ctx, `
		SELECT id, room_name, participant, kind, created_at
		FROM room_events
		WHERE room_name = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, room, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.RoomEvent, 0, limit)
	for rows.Next() {
		var e models.RoomEvent
		var kind string
		if err := rows.Scan(&e.ID, &e.Room, &e.Participant, &kind, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = models.EventKind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Summary aggregates event counts and the latest events across all rooms.
func (s *PostgresJournal) Summary(ctx context.Context, recent int) (*models.JournalSummary, error) {
	defer observePostgres(time.Now())

	if recent <= 0 {
		recent = defaultEventLimit
	}

	summary := &models.JournalSummary{Counts: make(map[models.EventKind]int64)}

	rows, err := s.pool.Query(ctx, `SELECT kind, COUNT(*) FROM room_events GROUP BY kind`)
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

	var last *time.Time
	if err := s.pool.QueryRow(ctx, `SELECT MAX(created_at) FROM room_events`).Scan(&last); err != nil {
		return nil, err
	}
	summary.LastActivity = last

	rows, err = s.pool.Query(ctx, `
		SELECT id, room_name, participant, kind, created_at
		FROM room_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, recent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary.Recent = make([]models.RoomEvent, 0, recent)
	for rows.Next() {
		var e models.RoomEvent
		var kind string
		if err := rows.Scan(&e.ID, &e.Room, &e.Participant, &kind, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = models.EventKind(kind)
		summary.Recent = append(summary.Recent, e)
	}
	return summary, rows.Err()
}

func observePostgres(start time.Time) {
	metrics.JournalLatency.WithLabelValues("postgres").Observe(time.Since(start).Seconds())
}
