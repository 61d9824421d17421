package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vividhneo/dailytasksv3/internal/clock"
)

func TestMemoryRepository_RecordAndFilter(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	repo := NewMemoryRepository(clk)

	require.NoError(t, repo.RecordEvent(EventTaskCreated, EventMetadata{"taskId": "task_1"}))
	clk.Advance(time.Hour)
	require.NoError(t, repo.RecordEvent(EventTaskCompleted, EventMetadata{"taskId": "task_1"}))
	require.NoError(t, repo.RecordEvent(EventProfileCreated, nil))

	all, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "task_1", all[0].Metadata["taskId"])

	completions, err := repo.GetEvents(time.Time{}, []EventType{EventTaskCompleted})
	require.NoError(t, err)
	require.Len(t, completions, 1)
	assert.Equal(t, EventTaskCompleted, completions[0].Type)

	// Only events at or after the cutoff come back.
	later, err := repo.GetEvents(time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	assert.Len(t, later, 2)

	require.NoError(t, repo.Clear())
	all, err = repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCalculateStats(t *testing.T) {
	now := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -7)

	events := []Event{
		{Type: EventTaskCreated},
		{Type: EventTaskCreated},
		{Type: EventTaskCreated},
		{Type: EventTaskCompleted},
		{Type: EventRolloverCompleted, Metadata: EventMetadata{"date": "2024-01-05", "rolled": 2}},
		{Type: EventRolloverCompleted, Metadata: EventMetadata{"date": "2024-01-06", "rolled": 0}},
		{Type: EventProfileDeleted},
	}

	stats := CalculateStats(events, since, now)

	assert.Equal(t, "2024-01-01", stats.Period)
	assert.Equal(t, 3, stats.TasksCreated)
	assert.Equal(t, 1, stats.TaskCompletion)
	assert.Equal(t, 2, stats.Rollovers)
	assert.Equal(t, 2, stats.TasksRolled)
	assert.InDelta(t, 3.0/7.0, stats.TasksPerDay, 0.001)
	assert.Equal(t, 3, stats.EventCounts[EventTaskCreated])
	assert.Equal(t, 1, stats.EventCounts[EventProfileDeleted])
}

func TestCalculateStats_ShortWindowClampsToOneDay(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	since := now.Add(-2 * time.Hour)

	stats := CalculateStats([]Event{
		{Type: EventTaskCreated},
		{Type: EventTaskCreated},
	}, since, now)

	assert.InDelta(t, 2.0, stats.TasksPerDay, 0.001)
}

func TestEventMetadata_Int(t *testing.T) {
	m := EventMetadata{"a": 3, "b": 4.0, "c": "nope"}

	got, ok := m.Int("a")
	assert.True(t, ok)
	assert.Equal(t, 3, got)

	// JSON-decoded numbers arrive as float64.
	got, ok = m.Int("b")
	assert.True(t, ok)
	assert.Equal(t, 4, got)

	_, ok = m.Int("c")
	assert.False(t, ok)
	_, ok = m.Int("missing")
	assert.False(t, ok)
}
