package telemetry

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vividhneo/dailytasksv3/internal/clock"
)

type Handler struct {
	events Repository
	clock  clock.Clock
}

func NewHandler(events Repository, clk clock.Clock) *Handler {
	return &Handler{events: events, clock: clk}
}

// GET /api/stats?since=YYYY-MM-DD
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	since := now.AddDate(0, 0, -7)

	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "since must be YYYY-MM-DD"})
			return
		}
		since = parsed
	}

	events, err := h.events.GetEvents(since, nil)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(CalculateStats(events, since, now))
}
