package analysis

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/alphacapital/riskengine/internal/domain"
)

// Handler handles HTTP requests for the analysis module.
type Handler struct {
	service *Service
	repo    *Repository
	log     zerolog.Logger
}

// NewHandler creates a new analysis handler.
func NewHandler(service *Service, repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		repo:    repo,
		log:     log.With().Str("component", "analysis_handler").Logger(),
	}
}

// RegisterRoutes mounts the analysis endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/run", h.HandleRun)
	r.Get("/latest", h.HandleGetLatest)
	r.Get("/{id}", h.HandleGetByID)
	r.Get("/", h.HandleList)
}

// HandleRun handles POST /api/analysis/run - runs a full analysis.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	h.log.Info().Msg("Running portfolio analysis")

	result, err := h.service.Run()
	if err != nil {
		h.log.Error().Err(err).Msg("Analysis failed")
		if errors.Is(err, domain.ErrInvalidConfiguration) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleGetLatest handles GET /api/analysis/latest.
func (h *Handler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	result, err := h.repo.GetLatest()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load latest analysis")
		h.writeError(w, http.StatusInternalServerError, "Failed to load latest analysis")
		return
	}
	if result == nil {
		h.writeError(w, http.StatusNotFound, "No analysis has been run yet")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleGetByID handles GET /api/analysis/{id}.
func (h *Handler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.repo.GetByID(id)
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to load analysis")
		h.writeError(w, http.StatusInternalServerError, "Failed to load analysis")
		return
	}
	if result == nil {
		h.writeError(w, http.StatusNotFound, "Analysis not found")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleList handles GET /api/analysis?limit=N.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	results, err := h.repo.List(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list analyses")
		h.writeError(w, http.StatusInternalServerError, "Failed to list analyses")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

// HTTP helpers

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
