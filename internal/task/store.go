package task

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vividhneo/dailytasksv3/internal/clock"
	"github.com/vividhneo/dailytasksv3/internal/model"
	"github.com/vividhneo/dailytasksv3/internal/storage"
)

var (
	ErrNotFound       = errors.New("task not found")
	ErrEmptyText      = errors.New("task text must not be empty")
	ErrUnknownProfile = errors.New("profile does not exist")
)

// ProfileChecker reports whether a profile id references a live profile.
// Creation validates against it; existing tasks are never revalidated, so
// a deleted profile simply leaves its tasks unselectable.
type ProfileChecker interface {
	Exists(id model.ProfileID) bool
}

// Store owns the task collection. Every mutation writes the updated
// collection through the persistence adapter before swapping in-memory
// state, so the durable copy is never behind what callers observe.
type Store struct {
	mu       sync.RWMutex
	kv       storage.KV
	clock    clock.Clock
	profiles ProfileChecker
	tasks    []model.Task
}

func NewStore(kv storage.KV, clk clock.Clock) (*Store, error) {
	s := &Store{kv: kv, clock: clk}
	if _, err := kv.Get(storage.KeyTasks, &s.tasks); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return s, nil
}

// SetProfileChecker enables profile validation on Add. Optional; a nil
// checker skips the reference check (used by lower-level tests).
func (s *Store) SetProfileChecker(pc ProfileChecker) {
	s.profiles = pc
}

func newTaskID() model.TaskID {
	return model.TaskID("task_" + uuid.NewString())
}

// Add creates an incomplete task for the given profile and day.
func (s *Store) Add(text string, date model.Date, profileID model.ProfileID) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, ErrEmptyText
	}
	if _, err := model.ParseDate(string(date)); err != nil {
		return model.Task{}, err
	}
	// Checked before taking the store lock: the profile store may be
	// mid-delete and calling back into this store.
	if s.profiles != nil && !s.profiles.Exists(profileID) {
		return model.Task{}, fmt.Errorf("%w: %s", ErrUnknownProfile, profileID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := model.Task{
		ID:        newTaskID(),
		Text:      text,
		Completed: false,
		ProfileID: profileID,
		Date:      date,
		CreatedAt: s.clock.Now(),
	}

	next := make([]model.Task, 0, len(s.tasks)+1)
	next = append(next, s.tasks...)
	next = append(next, t)

	if err := s.kv.Set(storage.KeyTasks, next); err != nil {
		return model.Task{}, fmt.Errorf("persist tasks: %w", err)
	}
	s.tasks = next
	return t, nil
}

// Toggle flips the completed flag. An unknown id is a silent no-op (found
// reports whether a match existed) so racing UI events cannot fail hard.
func (s *Store) Toggle(id model.TaskID) (model.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setCompletedLocked(id, nil)
}

// SetCompleted sets the completed flag to an explicit value.
func (s *Store) SetCompleted(id model.TaskID, completed bool) (model.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setCompletedLocked(id, &completed)
}

func (s *Store) setCompletedLocked(id model.TaskID, completed *bool) (model.Task, bool, error) {
	idx := -1
	for i, t := range s.tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Task{}, false, nil
	}

	next := make([]model.Task, len(s.tasks))
	copy(next, s.tasks)
	if completed == nil {
		next[idx].Completed = !next[idx].Completed
	} else {
		next[idx].Completed = *completed
	}

	if err := s.kv.Set(storage.KeyTasks, next); err != nil {
		return model.Task{}, true, fmt.Errorf("persist tasks: %w", err)
	}
	s.tasks = next
	return next[idx], true, nil
}

// Delete removes the task. An unknown id is a no-op.
func (s *Store) Delete(id model.TaskID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Task, 0, len(s.tasks))
	found := false
	for _, t := range s.tasks {
		if t.ID == id {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		return false, nil
	}

	if err := s.kv.Set(storage.KeyTasks, next); err != nil {
		return true, fmt.Errorf("persist tasks: %w", err)
	}
	s.tasks = next
	return true, nil
}

// DeleteByProfile purges every task belonging to the profile and returns
// how many were removed. Used for cascade delete on profile removal.
func (s *Store) DeleteByProfile(profileID model.ProfileID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Task, 0, len(s.tasks))
	removed := 0
	for _, t := range s.tasks {
		if t.ProfileID == profileID {
			removed++
			continue
		}
		next = append(next, t)
	}
	if removed == 0 {
		return 0, nil
	}

	if err := s.kv.Set(storage.KeyTasks, next); err != nil {
		return 0, fmt.Errorf("persist tasks: %w", err)
	}
	s.tasks = next
	return removed, nil
}

// Get returns the task with the given id.
func (s *Store) Get(id model.TaskID) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// List returns the profile's tasks for one day. Finished items sink below
// pending ones and stay visible; within each group creation order holds.
func (s *Store) List(profileID model.ProfileID, date model.Date) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.ProfileID == profileID && t.Date == date {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// TasksOn returns a snapshot of every task dated the given day, across
// all profiles.
func (s *Store) TasksOn(date model.Date) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return out
}
