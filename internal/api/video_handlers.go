package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/video-library/internal/catalog"
	"github.com/terra-clan/video-library/internal/models"
)

// Video handlers

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var videos []models.Video
	switch {
	case q.Get("search") != "":
		videos = s.store.Search(q.Get("search"))
	case q.Get("category") != "":
		videos = s.store.VideosByCategory(q.Get("category"))
	case q.Get("collection") == "featured":
		videos = s.store.Featured()
	case q.Get("collection") == "pending":
		videos = s.store.Pending()
	default:
		videos = s.store.Videos()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"videos": videos,
		"total":  len(videos),
	})
}

func (s *Server) handleAddVideo(w http.ResponseWriter, r *http.Request) {
	var req models.AddVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	video, err := s.store.AddVideo(r.Context(), req.Input, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			respondError(w, http.StatusUnprocessableEntity, "invalid_input", "input is neither a link nor an embed code")
			return
		}
		slog.Error("failed to add video", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add video")
		return
	}

	s.notices.Set("视频已成功添加！")
	s.nav.ShowOverview()

	respondJSON(w, http.StatusCreated, video)
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	video := s.store.Video(id)
	if video == nil {
		respondError(w, http.StatusNotFound, "video_not_found", "video not found")
		return
	}
	respondJSON(w, http.StatusOK, video)
}

func (s *Server) handleEditVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.EditVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.store.EditVideo(r.Context(), id, req.Title, req.Description); err != nil {
		if errors.Is(err, catalog.ErrVideoNotFound) {
			respondError(w, http.StatusNotFound, "video_not_found", "video not found")
			return
		}
		slog.Error("failed to edit video", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to edit video")
		return
	}

	respondJSON(w, http.StatusOK, s.store.Video(id))
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteVideo(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrVideoNotFound) {
			respondError(w, http.StatusNotFound, "video_not_found", "video not found")
			return
		}
		slog.Error("failed to delete video", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete video")
		return
	}

	// Deleting from category-detail re-enters the same list; elsewhere the
	// overview is shown.
	s.nav.AfterDelete()

	respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleReassignCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.ReassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.CategoryID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "category_id is required")
		return
	}

	if err := s.store.ReassignCategory(r.Context(), id, req.CategoryID); err != nil {
		if errors.Is(err, catalog.ErrVideoNotFound) {
			respondError(w, http.StatusNotFound, "video_not_found", "video not found")
			return
		}
		slog.Error("failed to reassign video", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to reassign video")
		return
	}

	respondJSON(w, http.StatusOK, s.store.Video(id))
}
