package task

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vividhneo/dailytasksv3/internal/model"
	"github.com/vividhneo/dailytasksv3/internal/telemetry"
)

type Handler struct {
	store  *Store
	events telemetry.Repository
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) SetEventLog(events telemetry.Repository) {
	h.events = events
}

func (h *Handler) record(eventType telemetry.EventType, metadata telemetry.EventMetadata) {
	if h.events == nil {
		return
	}
	_ = h.events.RecordEvent(eventType, metadata)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// GET /api/tasks?profileId=&date=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	profileID := q.Get("profileId")
	if profileID == "" {
		writeErr(w, http.StatusBadRequest, "profileId is required")
		return
	}
	date, err := model.ParseDate(q.Get("date"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.store.List(model.ProfileID(profileID), date))
}

// POST /api/tasks
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text      string `json:"text"`
		ProfileID string `json:"profileId"`
		Date      string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}

	t, err := h.store.Add(in.Text, model.Date(in.Date), model.ProfileID(in.ProfileID))
	switch {
	case errors.Is(err, ErrEmptyText), errors.Is(err, model.ErrBadDate), errors.Is(err, ErrUnknownProfile):
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.record(telemetry.EventTaskCreated, telemetry.EventMetadata{
		"taskId":    string(t.ID),
		"profileId": string(t.ProfileID),
		"date":      string(t.Date),
	})
	writeJSON(w, http.StatusCreated, t)
}

// PATCH /api/tasks/{id}
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))

	var in struct {
		Completed *bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	if in.Completed == nil {
		writeErr(w, http.StatusBadRequest, `missing field "completed"`)
		return
	}

	t, found, err := h.store.SetCompleted(id, *in.Completed)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}

	if t.Completed {
		h.record(telemetry.EventTaskCompleted, telemetry.EventMetadata{
			"taskId": string(t.ID),
		})
	}
	writeJSON(w, http.StatusOK, t)
}

// DELETE /api/tasks/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))

	found, err := h.store.Delete(id)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if found {
		h.record(telemetry.EventTaskDeleted, telemetry.EventMetadata{
			"taskId": string(id),
		})
	}
	w.WriteHeader(http.StatusNoContent)
}
