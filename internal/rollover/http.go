package rollover

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /api/rollover
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	last, err := h.engine.LastRun()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lastRolloverDate": string(last),
	})
}

// POST /api/rollover/run
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.RunOnce()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}
