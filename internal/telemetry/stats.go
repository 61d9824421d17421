package telemetry

import "time"

type Stats struct {
	Period         string            `json:"period"`
	EventCounts    map[EventType]int `json:"event_counts"`
	TasksPerDay    float64           `json:"tasks_per_day"`
	TasksCreated   int               `json:"tasks_created"`
	TaskCompletion int               `json:"task_completions"`
	TasksRolled    int               `json:"tasks_rolled"`
	Rollovers      int               `json:"rollovers"`
}

// CalculateStats computes usage stats from events recorded since the
// given time.
func CalculateStats(events []Event, since time.Time, now time.Time) Stats {
	stats := Stats{
		Period:      since.Format("2006-01-02"),
		EventCounts: make(map[EventType]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		switch event.Type {
		case EventTaskCreated:
			stats.TasksCreated++
		case EventTaskCompleted:
			stats.TaskCompletion++
		case EventRolloverCompleted:
			stats.Rollovers++
			if rolled, ok := event.Metadata.Int("rolled"); ok {
				stats.TasksRolled += rolled
			}
		}
	}

	days := now.Sub(since).Hours() / 24
	if days < 1 {
		days = 1
	}
	stats.TasksPerDay = float64(stats.TasksCreated) / days

	return stats
}
