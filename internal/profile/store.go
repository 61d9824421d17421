package profile

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vividhneo/dailytasksv3/internal/clock"
	"github.com/vividhneo/dailytasksv3/internal/model"
	"github.com/vividhneo/dailytasksv3/internal/storage"
)

var (
	ErrNotFound    = errors.New("profile not found")
	ErrEmptyName   = errors.New("profile name must not be empty")
	ErrLastProfile = errors.New("cannot delete the last profile")
)

// TaskPurger removes every task that belongs to a profile. Deleting a
// profile cascades through it so orphaned tasks do not accumulate.
type TaskPurger interface {
	DeleteByProfile(profileID model.ProfileID) (int, error)
}

// Store owns the profile collection and the active-profile selection.
// The collection is never empty: a default profile is created at load and
// the last remaining profile cannot be deleted.
type Store struct {
	mu        sync.RWMutex
	kv        storage.KV
	clock     clock.Clock
	tasks     TaskPurger
	profiles  []model.Profile
	currentID model.ProfileID
}

func NewStore(kv storage.KV, clk clock.Clock, defaultName string) (*Store, error) {
	defaultName = strings.TrimSpace(defaultName)
	if defaultName == "" {
		defaultName = "Personal"
	}

	s := &Store{kv: kv, clock: clk}
	if _, err := kv.Get(storage.KeyProfiles, &s.profiles); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	if _, err := kv.Get(storage.KeyCurrentProfileID, &s.currentID); err != nil {
		return nil, fmt.Errorf("load current profile: %w", err)
	}

	if len(s.profiles) == 0 {
		p := model.Profile{
			ID:        newProfileID(),
			Name:      defaultName,
			CreatedAt: clk.Now(),
		}
		if err := kv.Set(storage.KeyProfiles, []model.Profile{p}); err != nil {
			return nil, fmt.Errorf("persist default profile: %w", err)
		}
		s.profiles = []model.Profile{p}
		s.currentID = ""
	}

	// A stale or unset selection falls back to the first profile.
	if !s.hasLocked(s.currentID) {
		s.currentID = s.profiles[0].ID
		if err := kv.Set(storage.KeyCurrentProfileID, s.currentID); err != nil {
			return nil, fmt.Errorf("persist current profile: %w", err)
		}
	}

	return s, nil
}

// SetTaskPurger wires the cascade-delete collaborator.
func (s *Store) SetTaskPurger(tp TaskPurger) {
	s.tasks = tp
}

func newProfileID() model.ProfileID {
	return model.ProfileID("profile_" + uuid.NewString())
}

func (s *Store) hasLocked(id model.ProfileID) bool {
	for _, p := range s.profiles {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Add creates a profile. The first profile ever created becomes current.
func (s *Store) Add(name string) (model.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Profile{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := model.Profile{
		ID:        newProfileID(),
		Name:      name,
		CreatedAt: s.clock.Now(),
	}

	next := make([]model.Profile, 0, len(s.profiles)+1)
	next = append(next, s.profiles...)
	next = append(next, p)

	if err := s.kv.Set(storage.KeyProfiles, next); err != nil {
		return model.Profile{}, fmt.Errorf("persist profiles: %w", err)
	}
	s.profiles = next

	if s.currentID == "" {
		if err := s.kv.Set(storage.KeyCurrentProfileID, p.ID); err != nil {
			return model.Profile{}, fmt.Errorf("persist current profile: %w", err)
		}
		s.currentID = p.ID
	}

	return p, nil
}

// Rename updates the display name. A blank new name is a no-op and the
// stored profile is returned unchanged.
func (s *Store) Rename(id model.ProfileID, newName string) (model.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.profiles {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Profile{}, false, nil
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return s.profiles[idx], true, nil
	}

	next := make([]model.Profile, len(s.profiles))
	copy(next, s.profiles)
	next[idx].Name = newName

	if err := s.kv.Set(storage.KeyProfiles, next); err != nil {
		return model.Profile{}, true, fmt.Errorf("persist profiles: %w", err)
	}
	s.profiles = next
	return next[idx], true, nil
}

// Delete removes a profile and purges its tasks. Deleting the last
// remaining profile is refused; deleting the current profile reassigns
// the selection to the first remaining one.
func (s *Store) Delete(id model.ProfileID) (bool, error) {
	s.mu.Lock()

	if !s.hasLocked(id) {
		s.mu.Unlock()
		return false, nil
	}
	if len(s.profiles) == 1 {
		s.mu.Unlock()
		return true, ErrLastProfile
	}

	next := make([]model.Profile, 0, len(s.profiles)-1)
	for _, p := range s.profiles {
		if p.ID != id {
			next = append(next, p)
		}
	}

	if err := s.kv.Set(storage.KeyProfiles, next); err != nil {
		s.mu.Unlock()
		return true, fmt.Errorf("persist profiles: %w", err)
	}
	s.profiles = next

	if s.currentID == id {
		if err := s.kv.Set(storage.KeyCurrentProfileID, next[0].ID); err != nil {
			s.mu.Unlock()
			return true, fmt.Errorf("persist current profile: %w", err)
		}
		s.currentID = next[0].ID
	}

	tasks := s.tasks
	s.mu.Unlock()

	// Cascade outside the lock: the task store serializes its own
	// mutations and may consult this store concurrently.
	if tasks != nil {
		if _, err := tasks.DeleteByProfile(id); err != nil {
			return true, fmt.Errorf("purge tasks for profile %s: %w", id, err)
		}
	}
	return true, nil
}

// List returns all profiles in insertion order.
func (s *Store) List() []model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Profile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// Get returns the profile with the given id.
func (s *Store) Get(id model.ProfileID) (model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if p.ID == id {
			return p, true
		}
	}
	return model.Profile{}, false
}

// Exists satisfies task.ProfileChecker.
func (s *Store) Exists(id model.ProfileID) bool {
	_, ok := s.Get(id)
	return ok
}

// CurrentID returns the active profile id. It always references an
// existing profile.
func (s *Store) CurrentID() model.ProfileID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// SetCurrent switches the active profile.
func (s *Store) SetCurrent(id model.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasLocked(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.kv.Set(storage.KeyCurrentProfileID, id); err != nil {
		return fmt.Errorf("persist current profile: %w", err)
	}
	s.currentID = id
	return nil
}
