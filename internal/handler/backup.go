package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/timeanalyzer/internal/backup"
	"github.com/dukerupert/timeanalyzer/internal/model"
	"github.com/dukerupert/timeanalyzer/internal/websocket"
)

const backupListLimit = 20

type BackupHandler struct {
	manager *backup.Manager
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewBackupHandler(m *backup.Manager, hub *websocket.Hub, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: m, hub: hub, logger: logger}
}

type backupRequest struct {
	Passphrase string `json:"passphrase"`
}

type backupListResponse struct {
	Status  backup.Status  `json:"status"`
	Backups []model.Backup `json:"backups"`
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.manager.List(backupListLimit)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list backups"})
		return
	}
	if backups == nil {
		backups = []model.Backup{}
	}
	writeJSON(w, http.StatusOK, backupListResponse{Status: h.manager.Status(), Backups: backups})
}

// Create runs a backup now. The passphrase in the body is optional when one
// is configured.
func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBackupRequest(w, r)
	if !ok {
		return
	}

	b, err := h.manager.RunNow(r.Context(), req.Passphrase)
	if err != nil {
		h.writeBackupError(w, "run backup", err)
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	req, ok := decodeBackupRequest(w, r)
	if !ok {
		return
	}

	n, err := h.manager.Restore(r.Context(), id, req.Passphrase)
	if err != nil {
		h.writeBackupError(w, "restore backup", err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("backup", "restored", id, map[string]any{"activities": n}))
	}

	writeJSON(w, http.StatusOK, map[string]int{"restored": n})
}

func decodeBackupRequest(w http.ResponseWriter, r *http.Request) (backupRequest, bool) {
	var req backupRequest
	if r.ContentLength == 0 {
		return req, true
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return req, false
	}
	return req, true
}

func (h *BackupHandler) writeBackupError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, backup.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case errors.Is(err, backup.ErrNoPassphrase), errors.Is(err, backup.ErrWrongPassphrase):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, backup.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.logger.Error(op, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to " + op})
	}
}
