package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/timeanalyzer/internal/clock"
	"github.com/dukerupert/timeanalyzer/internal/model"
	"github.com/dukerupert/timeanalyzer/internal/store"
	"github.com/dukerupert/timeanalyzer/internal/websocket"
)

type ActivityHandler struct {
	store  *store.ActivityStore
	clock  clock.Clock
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewActivityHandler(s *store.ActivityStore, clk clock.Clock, hub *websocket.Hub, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{store: s, clock: clk, hub: hub, logger: logger}
}

func (h *ActivityHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	activity, err := model.NewActivity(in, h.clock.Today())
	if err != nil {
		writeStoreError(w, h.logger, "create activity", err)
		return
	}

	activity, err = h.store.Add(activity)
	if err != nil {
		writeStoreError(w, h.logger, "create activity", err)
		return
	}

	h.broadcast(websocket.NewMessage("activity", "created", activity.ID, nil))

	writeJSON(w, http.StatusCreated, activity)
}

// List returns activities newest date first, optionally narrowed with
// ?category=.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = model.CategoryAll
	}
	if category != model.CategoryAll && !model.Category(category).Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category"})
		return
	}

	activities := store.SortByDateDesc(h.store.ByCategory(category))
	if activities == nil {
		activities = []model.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var patch model.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	activity, err := h.store.Update(id, patch)
	if err != nil {
		writeStoreError(w, h.logger, "update activity", err)
		return
	}

	h.broadcast(websocket.NewMessage("activity", "updated", id, nil))

	writeJSON(w, http.StatusOK, activity)
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeStoreError(w, h.logger, "delete activity", err)
		return
	}

	h.broadcast(websocket.NewMessage("activity", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}

// Clear removes every activity.
func (h *ActivityHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(); err != nil {
		writeStoreError(w, h.logger, "clear activities", err)
		return
	}

	h.broadcast(websocket.NewMessage("activity", "cleared", 0, nil))

	w.WriteHeader(http.StatusNoContent)
}

// writeStoreError maps validation failures to 400, unknown ids to 404 and
// anything else to 500.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "activity not found"})
	default:
		logger.Error(op, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to " + op})
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
