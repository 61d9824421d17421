package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vividhneo/dailytasksv3/internal/clock"
	"github.com/vividhneo/dailytasksv3/internal/model"
	"github.com/vividhneo/dailytasksv3/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.MemoryKV) {
	t.Helper()

	kv := storage.NewMemoryKV()
	clk := clock.NewFakeClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	s, err := NewStore(kv, clk, "Personal")
	require.NoError(t, err)
	return s, kv
}

func TestNewStore_CreatesDefaultProfile(t *testing.T) {
	s, _ := newTestStore(t)

	got := s.List()
	require.Len(t, got, 1)
	assert.Equal(t, "Personal", got[0].Name)
	assert.Equal(t, got[0].ID, s.CurrentID())
}

func TestNewStore_StaleCurrentFallsBack(t *testing.T) {
	kv := storage.NewMemoryKV()
	clk := clock.NewFakeClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	require.NoError(t, kv.Set(storage.KeyProfiles, []model.Profile{
		{ID: "profile_1", Name: "Personal", CreatedAt: clk.Now()},
	}))
	require.NoError(t, kv.Set(storage.KeyCurrentProfileID, model.ProfileID("profile_gone")))

	s, err := NewStore(kv, clk, "Personal")
	require.NoError(t, err)
	assert.Equal(t, model.ProfileID("profile_1"), s.CurrentID())
}

func TestStore_Add(t *testing.T) {
	s, _ := newTestStore(t)

	p, err := s.Add("Work")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Work", p.Name)

	got := s.List()
	require.Len(t, got, 2)
	assert.Equal(t, "Personal", got[0].Name)
	assert.Equal(t, "Work", got[1].Name)
}

func TestStore_Add_EmptyName(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Add("   ")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Len(t, s.List(), 1)
}

func TestStore_Rename(t *testing.T) {
	s, _ := newTestStore(t)

	p, err := s.Add("Work")
	require.NoError(t, err)

	got, found, err := s.Rename(p.ID, "Side projects")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Side projects", got.Name)
}

func TestStore_Rename_BlankIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)

	p, err := s.Add("Work")
	require.NoError(t, err)

	got, found, err := s.Rename(p.ID, "  ")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Work", got.Name)
}

func TestStore_Rename_UnknownID(t *testing.T) {
	s, _ := newTestStore(t)

	_, found, err := s.Rename("profile_missing", "X")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Delete_LastProfileRefused(t *testing.T) {
	s, _ := newTestStore(t)

	only := s.List()[0]
	found, err := s.Delete(only.ID)
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrLastProfile)
	assert.Len(t, s.List(), 1)
	assert.Equal(t, only.ID, s.CurrentID())
}

func TestStore_Delete_ReassignsCurrent(t *testing.T) {
	s, _ := newTestStore(t)

	def := s.List()[0]
	work, err := s.Add("Work")
	require.NoError(t, err)

	require.NoError(t, s.SetCurrent(work.ID))
	found, err := s.Delete(work.ID)
	require.NoError(t, err)
	assert.True(t, found)

	assert.Equal(t, def.ID, s.CurrentID())
	assert.Len(t, s.List(), 1)
}

type purgeRecorder struct {
	purged []model.ProfileID
}

func (p *purgeRecorder) DeleteByProfile(id model.ProfileID) (int, error) {
	p.purged = append(p.purged, id)
	return 1, nil
}

func TestStore_Delete_CascadesTasks(t *testing.T) {
	s, _ := newTestStore(t)
	purger := &purgeRecorder{}
	s.SetTaskPurger(purger)

	work, err := s.Add("Work")
	require.NoError(t, err)

	found, err := s.Delete(work.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []model.ProfileID{work.ID}, purger.purged)
}

func TestStore_Delete_UnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)

	found, err := s.Delete("profile_missing")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestStore_SetCurrent(t *testing.T) {
	s, _ := newTestStore(t)

	work, err := s.Add("Work")
	require.NoError(t, err)

	require.NoError(t, s.SetCurrent(work.ID))
	assert.Equal(t, work.ID, s.CurrentID())

	err = s.SetCurrent("profile_missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, work.ID, s.CurrentID())
}

func TestStore_SurvivesReload(t *testing.T) {
	kv := storage.NewMemoryKV()
	clk := clock.NewFakeClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	s, err := NewStore(kv, clk, "Personal")
	require.NoError(t, err)
	work, err := s.Add("Work")
	require.NoError(t, err)
	require.NoError(t, s.SetCurrent(work.ID))

	reloaded, err := NewStore(kv, clk, "Personal")
	require.NoError(t, err)
	assert.Len(t, reloaded.List(), 2)
	assert.Equal(t, work.ID, reloaded.CurrentID())
}

func TestStore_Exists(t *testing.T) {
	s, _ := newTestStore(t)

	assert.True(t, s.Exists(s.CurrentID()))
	assert.False(t, s.Exists("profile_missing"))
}
