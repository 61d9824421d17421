package profile

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

// GET /api/profiles
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

// POST /api/profiles
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}

	p, err := h.store.Add(in.Name)
	switch {
	case errors.Is(err, ErrEmptyName):
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.record(telemetry.EventProfileCreated, telemetry.EventMetadata{
		"profileId": string(p.ID),
	})
	writeJSON(w, http.StatusCreated, p)
}

// PATCH /api/profiles/{id}
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id := model.ProfileID(r.PathValue("id"))

	var in struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}

	p, found, err := h.store.Rename(id, in.Name)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DELETE /api/profiles/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.ProfileID(r.PathValue("id"))

	found, err := h.store.Delete(id)
	switch {
	case errors.Is(err, ErrLastProfile):
		writeErr(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	case !found:
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.record(telemetry.EventProfileDeleted, telemetry.EventMetadata{
		"profileId": string(id),
	})
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/profiles/current
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	id := h.store.CurrentID()
	p, ok := h.store.Get(id)
	if !ok {
		writeErr(w, http.StatusInternalServerError, "current profile missing")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PUT /api/profiles/current
func (h *Handler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}

	err := h.store.SetCurrent(model.ProfileID(in.ID))
	switch {
	case errors.Is(err, ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	p, _ := h.store.Get(model.ProfileID(in.ID))
	writeJSON(w, http.StatusOK, p)
}
