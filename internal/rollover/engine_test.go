package rollover

import (
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vividhneo/dailytasksv3/internal/clock"
	"github.com/vividhneo/dailytasksv3/internal/model"
	"github.com/vividhneo/dailytasksv3/internal/profile"
	"github.com/vividhneo/dailytasksv3/internal/storage"
	"github.com/vividhneo/dailytasksv3/internal/task"
)

type fixture struct {
	engine   *Engine
	tasks    *task.Store
	profiles *profile.Store
	clock    *clock.FakeClock
	kv       *storage.MemoryKV
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	kv := storage.NewMemoryKV()
	clk := clock.NewFakeClock(now)

	tasks, err := task.NewStore(kv, clk)
	require.NoError(t, err)
	profiles, err := profile.NewStore(kv, clk, "Personal")
	require.NoError(t, err)
	tasks.SetProfileChecker(profiles)
	profiles.SetTaskPurger(tasks)

	logger := log.New(testWriter{t}, "", 0)
	return &fixture{
		engine:   NewEngine(kv, tasks, profiles, clk, logger),
		tasks:    tasks,
		profiles: profiles,
		clock:    clk,
		kv:       kv,
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestEngine_RollsIncompleteTasksForward(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC))
	pid := f.profiles.CurrentID()

	orig, err := f.tasks.Add("Send report", "2024-01-01", pid)
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC))
	res, err := f.engine.RunOnce()
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, model.Date("2024-01-02"), res.Date)
	assert.Equal(t, 1, res.Rolled)

	// The original stays on its day, untouched.
	yesterday := f.tasks.List(pid, "2024-01-01")
	require.Len(t, yesterday, 1)
	assert.Equal(t, orig.ID, yesterday[0].ID)
	assert.False(t, yesterday[0].Completed)

	// Exactly one fresh copy appears on today.
	today := f.tasks.List(pid, "2024-01-02")
	require.Len(t, today, 1)
	assert.NotEqual(t, orig.ID, today[0].ID)
	assert.Equal(t, "Send report", today[0].Text)
	assert.Equal(t, pid, today[0].ProfileID)
	assert.False(t, today[0].Completed)
}

func TestEngine_CompletedTasksStayPut(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC))
	pid := f.profiles.CurrentID()

	done, err := f.tasks.Add("Draft email", "2024-01-01", pid)
	require.NoError(t, err)
	_, _, err = f.tasks.SetCompleted(done.ID, true)
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC))
	res, err := f.engine.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rolled)
	assert.Empty(t, f.tasks.List(pid, "2024-01-02"))
}

func TestEngine_Idempotent(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC))
	pid := f.profiles.CurrentID()

	_, err := f.tasks.Add("Send report", "2024-01-01", pid)
	require.NoError(t, err)

	for i := range 5 {
		res, err := f.engine.RunOnce()
		require.NoError(t, err)
		if i == 0 {
			assert.False(t, res.Skipped)
			assert.Equal(t, 1, res.Rolled)
		} else {
			assert.True(t, res.Skipped)
		}
	}

	assert.Len(t, f.tasks.List(pid, "2024-01-02"), 1)
}

func TestEngine_BookkeepingAdvancesWithNoTasks(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC))

	res, err := f.engine.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rolled)

	last, err := f.engine.LastRun()
	require.NoError(t, err)
	assert.Equal(t, model.Date("2024-01-02"), last)
}

func TestEngine_SweepsAllProfiles(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC))
	personal := f.profiles.CurrentID()

	work, err := f.profiles.Add("Work")
	require.NoError(t, err)

	_, err = f.tasks.Add("home chore", "2024-01-01", personal)
	require.NoError(t, err)
	_, err = f.tasks.Add("work chore", "2024-01-01", work.ID)
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC))
	res, err := f.engine.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rolled)
	assert.Len(t, f.tasks.List(personal, "2024-01-02"), 1)
	assert.Len(t, f.tasks.List(work.ID, "2024-01-02"), 1)
}

func TestEngine_OnlyLooksOneDayBack(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC))
	pid := f.profiles.CurrentID()

	_, err := f.tasks.Add("stranded", "2024-01-01", pid)
	require.NoError(t, err)

	// Dormant for three days: only the immediately preceding day rolls.
	f.clock.Set(time.Date(2024, 1, 4, 1, 0, 0, 0, time.UTC))
	res, err := f.engine.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rolled)
	assert.Len(t, f.tasks.List(pid, "2024-01-01"), 1)
	assert.Empty(t, f.tasks.List(pid, "2024-01-04"))
}

func TestEngine_NextDayRunsAgain(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC))
	pid := f.profiles.CurrentID()

	_, err := f.tasks.Add("Send report", "2024-01-01", pid)
	require.NoError(t, err)

	res, err := f.engine.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rolled)

	f.clock.Set(time.Date(2024, 1, 3, 1, 0, 0, 0, time.UTC))
	res, err = f.engine.RunOnce()
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 1, res.Rolled)

	assert.Len(t, f.tasks.List(pid, "2024-01-03"), 1)
}

// The full scenario: a day's mix of finished and unfinished work, then
// the next morning's pass.
func TestEngine_EndToEndScenario(t *testing.T) {
	f := newFixture(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	work, err := f.profiles.Add("Work")
	require.NoError(t, err)

	draft, err := f.tasks.Add("Draft email", "2024-01-01", work.ID)
	require.NoError(t, err)
	_, _, err = f.tasks.SetCompleted(draft.ID, true)
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	send, err := f.tasks.Add("Send report", "2024-01-01", work.ID)
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 1, 2, 0, 30, 0, 0, time.UTC))
	res, err := f.engine.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rolled)

	jan1 := f.tasks.List(work.ID, "2024-01-01")
	require.Len(t, jan1, 2)
	assert.Equal(t, send.ID, jan1[0].ID)
	assert.False(t, jan1[0].Completed)
	assert.Equal(t, draft.ID, jan1[1].ID)
	assert.True(t, jan1[1].Completed)

	jan2 := f.tasks.List(work.ID, "2024-01-02")
	require.Len(t, jan2, 1)
	assert.Equal(t, "Send report", jan2[0].Text)
	assert.False(t, jan2[0].Completed)
	assert.NotEqual(t, send.ID, jan2[0].ID)
}
