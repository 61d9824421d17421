package telemetry

import (
	"sync"
	"time"

	"github.com/vividhneo/dailytasksv3/internal/clock"
)

// Repository records usage events and serves them back for aggregation.
type Repository interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryRepository keeps events in memory. Events do not survive a
// restart, which is fine for usage stats.
type MemoryRepository struct {
	mu     sync.RWMutex
	clock  clock.Clock
	events []Event
	nextID int
}

func NewMemoryRepository(clk clock.Clock) *MemoryRepository {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &MemoryRepository{clock: clk, nextID: 1}
}

func (r *MemoryRepository) RecordEvent(eventType EventType, metadata EventMetadata) error {
	var meta EventMetadata
	if len(metadata) > 0 {
		meta = make(EventMetadata, len(metadata))
		for k, v := range metadata {
			meta[k] = v
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: r.clock.Now(),
		Metadata:  meta,
	})
	r.nextID++
	return nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := func(t EventType) bool {
		if len(eventTypes) == 0 {
			return true
		}
		for _, et := range eventTypes {
			if et == t {
				return true
			}
		}
		return false
	}

	out := make([]Event, 0)
	for _, e := range r.events {
		if e.Timestamp.Before(since) || !wanted(e.Type) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
	r.nextID = 1
	return nil
}
