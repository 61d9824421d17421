package telemetry

import "time"

// EventType tags a usage event. Values are stable wire identifiers.
type EventType string

const (
	EventTaskCreated       EventType = "task_created"
	EventTaskCompleted     EventType = "task_completed"
	EventTaskDeleted       EventType = "task_deleted"
	EventProfileCreated    EventType = "profile_created"
	EventProfileDeleted    EventType = "profile_deleted"
	EventRolloverCompleted EventType = "rollover_completed"
)

// EventMetadata carries event-specific detail, e.g. the task id or how
// many tasks a rollover pass carried forward.
type EventMetadata map[string]any

type Event struct {
	ID        int           `json:"id"`
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Metadata  EventMetadata `json:"metadata,omitempty"`
}

// Int reads an integer metadata value. Values that arrived through a
// JSON round trip decode as float64, so both forms are accepted.
func (m EventMetadata) Int(key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
