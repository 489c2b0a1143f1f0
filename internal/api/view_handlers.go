package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Navigation handlers. The navigator only consumes identifiers; what each
// view renders is recomputed from the catalog on read.

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.nav.State())
}

func (s *Server) handleShowOverview(w http.ResponseWriter, r *http.Request) {
	s.nav.ShowOverview()
	respondJSON(w, http.StatusOK, s.nav.State())
}

func (s *Server) handleShowCategory(w http.ResponseWriter, r *http.Request) {
	s.nav.ShowCategory(chi.URLParam(r, "id"))
	respondJSON(w, http.StatusOK, s.nav.State())
}

// handleShowVideo enters playback for an existing video. An unknown id
// leaves the navigation state unchanged, the way the original ignored plays
// of missing videos.
func (s *Server) handleShowVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	video := s.store.Video(id)
	if video == nil {
		respondError(w, http.StatusNotFound, "video_not_found", "video not found")
		return
	}

	s.nav.ShowVideo(video.ID, video.CategoryID)
	respondJSON(w, http.StatusOK, s.nav.State())
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.nav.Back()
	respondJSON(w, http.StatusOK, s.nav.State())
}
