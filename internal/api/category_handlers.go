package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/video-library/internal/models"
)

// Category handlers

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories := s.store.Categories()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"total":      len(categories),
	})
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req models.AddCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	category, err := s.store.AddCategory(r.Context(), req.Name)
	if err != nil {
		slog.Error("failed to add category", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add category")
		return
	}

	// A name that trims to empty is a silent no-op, not an error.
	if category == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

// handleGetCategory returns a category together with its videos. Videos
// carrying a dangling category reference are never rejected anywhere; only
// the category resource itself can be not found.
func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	category := s.store.Category(id)
	if category == nil {
		respondError(w, http.StatusNotFound, "category_not_found", "category not found")
		return
	}

	videos := s.store.VideosByCategory(id)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"videos":   videos,
		"total":    len(videos),
	})
}
