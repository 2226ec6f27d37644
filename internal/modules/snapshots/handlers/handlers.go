// Package handlers provides HTTP handlers for portfolio snapshots.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/moni-app/moni/internal/modules/snapshots"
)

// DefaultRecentLimit bounds GET /api/snapshots when no limit is given.
const DefaultRecentLimit = 50

// Handler handles snapshot HTTP requests
type Handler struct {
	service *snapshots.Service
	log     zerolog.Logger
}

// NewHandler creates a new snapshot handler
func NewHandler(service *snapshots.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "snapshots").Logger(),
	}
}

// HandleRecent returns the newest snapshots, most recent first
func (h *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit := DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	list, err := h.service.Recent(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list snapshots")
		h.writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	if list == nil {
		list = []snapshots.Snapshot{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

// HandleRecord takes a snapshot of the current portfolio immediately
func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Record()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to record snapshot")
		h.writeError(w, http.StatusInternalServerError, "failed to record snapshot")
		return
	}
	h.writeJSON(w, http.StatusCreated, snap)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
