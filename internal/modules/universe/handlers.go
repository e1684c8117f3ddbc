package universe

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/alphacapital/riskengine/internal/domain"
)

// Handler handles HTTP requests for the universe module.
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new universe handler.
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("component", "universe_handler").Logger(),
	}
}

// RegisterRoutes mounts the universe endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGet)
	r.Put("/", h.HandleReplace)
}

// HandleGet handles GET /api/universe.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.repo.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load universe")
		h.writeError(w, http.StatusInternalServerError, "Failed to load universe")
		return
	}

	h.writeJSON(w, http.StatusOK, u)
}

// HandleReplace handles PUT /api/universe - replaces the whole universe.
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	var u Universe
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid universe payload")
		return
	}

	if err := h.repo.ReplaceAll(u); err != nil {
		if errors.Is(err, domain.ErrInvalidConfiguration) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to replace universe")
		h.writeError(w, http.StatusInternalServerError, "Failed to replace universe")
		return
	}

	h.writeJSON(w, http.StatusOK, u)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}
