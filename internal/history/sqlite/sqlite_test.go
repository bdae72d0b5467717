package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Psychloor/TimeTracker/internal/history"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.EnsureSchema(context.Background()))
	return db
}

func TestSendAndRecent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	started := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, db.Send(ctx, history.Event{
		Type:       history.EventSessionStart,
		PID:        4242,
		StartedAt:  started,
		OccurredAt: started,
	}))
	require.NoError(t, db.Send(ctx, history.Event{
		Type:       history.EventSessionEnd,
		PID:        4242,
		Reason:     "absent",
		Duration:   90 * time.Second,
		StartedAt:  started,
		OccurredAt: started.Add(2 * time.Minute),
	}))

	events, err := db.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Most recent first.
	assert.Equal(t, history.EventSessionEnd, events[0].Type)
	assert.Equal(t, "absent", events[0].Reason)
	assert.Equal(t, 90*time.Second, events[0].Duration)
	assert.Equal(t, int32(4242), events[0].PID)
	assert.Equal(t, history.EventSessionStart, events[1].Type)
	assert.Empty(t, events[1].Reason)
}

func TestRecentLimit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Send(ctx, history.Event{
			Type:       history.EventSessionStart,
			PID:        int32(i + 1),
			StartedAt:  time.Now().UTC(),
			OccurredAt: time.Now().UTC(),
		}))
	}
	events, err := db.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Equal(t, int32(5), events[0].PID)
}

func TestNewRejectsEmptyPath(t *testing.T) {
	_, err := New("  ")
	require.Error(t, err)
}
