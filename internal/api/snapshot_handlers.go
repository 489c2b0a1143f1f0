package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/terra-clan/video-library/internal/snapshot"
)

// Snapshot handlers

// handleExportSnapshot serves the whole catalog as a downloadable, dated
// JSON document.
func (s *Server) handleExportSnapshot(w http.ResponseWriter, r *http.Request) {
	now := s.store.Now()
	snap := snapshot.Export(s.store.Categories(), s.store.Videos(), now)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", snapshot.Filename(now)))
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		slog.Error("failed to encode snapshot", "error", err)
	}
}

// handleImportSnapshot replaces both collections wholesale from an uploaded
// snapshot document. Malformed documents leave current state untouched.
func (s *Server) handleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}

	snap, err := snapshot.Parse(body)
	if err != nil {
		if errors.Is(err, snapshot.ErrInvalidFormat) {
			respondError(w, http.StatusUnprocessableEntity, "invalid_format", "document is not a valid library snapshot")
			return
		}
		slog.Error("failed to parse snapshot", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to import snapshot")
		return
	}

	if err := s.store.ReplaceAll(r.Context(), snap.Categories, snap.Videos); err != nil {
		slog.Error("failed to apply snapshot", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to import snapshot")
		return
	}

	s.notices.Set("数据导入成功！")

	respondJSON(w, http.StatusOK, map[string]int{
		"categories": len(snap.Categories),
		"videos":     len(snap.Videos),
	})
}
