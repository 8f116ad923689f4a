package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThaerHindawi/livekit/internal/models"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLiteJournal(context.Background(), filepath.Join(t.TempDir(), "nested", "events.db"))
	require.NoError(t, err)
	t.Cleanup(j.Close)
	return j
}

func TestSQLiteJournalRecordAndList(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)
	require.NoError(t, j.Ping(ctx))

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	events := []*models.RoomEvent{
		{Room: "demo", Participant: "alice", Kind: models.EventAdmitted, CreatedAt: base},
		{Room: "demo", Participant: "bob", Kind: models.EventAdmitted, CreatedAt: base.Add(time.Second)},
		{Room: "other", Participant: "carol", Kind: models.EventAdmitted, CreatedAt: base.Add(2 * time.Second)},
		{Room: "demo", Participant: "alice", Kind: models.EventReleased, CreatedAt: base.Add(3 * time.Second)},
	}
	for _, e := range events {
		require.NoError(t, j.RecordEvent(ctx, e))
		assert.NotEmpty(t, e.ID)
	}

	got, err := j.RoomEvents(ctx, "demo", 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, models.EventReleased, got[0].Kind)
	assert.Equal(t, "bob", got[1].Participant)
	assert.Equal(t, base, got[2].CreatedAt)

	got, err = j.RoomEvents(ctx, "demo", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = j.RoomEvents(ctx, "missing", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteJournalSummary(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	empty, err := j.Summary(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, empty.Counts)
	assert.Nil(t, empty.LastActivity)
	assert.Empty(t, empty.Recent)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	kinds := []models.EventKind{
		models.EventAdmitted, models.EventAdmitted, models.EventRejected, models.EventReleased,
	}
	for i, k := range kinds {
		require.NoError(t, j.RecordEvent(ctx, &models.RoomEvent{
			Room: "demo", Participant: "p", Kind: k, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	summary, err := j.Summary(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Counts[models.EventAdmitted])
	assert.Equal(t, int64(1), summary.Counts[models.EventRejected])
	assert.Equal(t, int64(1), summary.Counts[models.EventReleased])
	require.NotNil(t, summary.LastActivity)
	assert.Equal(t, base.Add(3*time.Minute), *summary.LastActivity)
	require.Len(t, summary.Recent, 2)
	assert.Equal(t, models.EventReleased, summary.Recent[0].Kind)
}

func TestSQLiteJournalFillsTimestamp(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	e := &models.RoomEvent{Room: "demo", Participant: "alice", Kind: models.EventAdmitted}
	require.NoError(t, j.RecordEvent(ctx, e))
	assert.False(t, e.CreatedAt.IsZero())
	assert.WithinDuration(t, time.Now(), e.CreatedAt, time.Minute)
}
