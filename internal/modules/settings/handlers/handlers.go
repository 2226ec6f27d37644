// Package handlers provides HTTP handlers for runtime settings management.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/moni-app/moni/internal/modules/settings"
)

// SettingUpdate is the request body for PUT /api/settings/{key}.
type SettingUpdate struct {
	Value       string  `json:"value"`
	Description *string `json:"description,omitempty"`
}

// Handler handles settings HTTP requests
type Handler struct {
	repo *settings.Repository
	log  zerolog.Logger
}

// NewHandler creates a new settings handler
func NewHandler(repo *settings.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "settings").Logger(),
	}
}

// HandleGetAll returns every setting as a key-value map
func (h *Handler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get all settings")
		h.writeError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}
	h.writeJSON(w, http.StatusOK, all)
}

// HandleGet returns a single setting value
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, err := h.repo.Get(key)
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("Failed to get setting")
		h.writeError(w, http.StatusInternalServerError, "failed to get setting")
		return
	}
	if value == nil {
		h.writeError(w, http.StatusNotFound, "setting not found")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{key: *value})
}

// HandleUpdate sets a setting value
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		h.writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	var update SettingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.repo.Set(key, update.Value, update.Description); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("Failed to update setting")
		h.writeError(w, http.StatusInternalServerError, "failed to update setting")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{key: update.Value})
}

// HandleDelete removes a setting so the environment default applies again
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := h.repo.Delete(key); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("Failed to delete setting")
		h.writeError(w, http.StatusInternalServerError, "failed to delete setting")
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
