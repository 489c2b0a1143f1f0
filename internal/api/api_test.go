package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/terra-clan/video-library/internal/catalog"
	"github.com/terra-clan/video-library/internal/config"
	"github.com/terra-clan/video-library/internal/models"
	"github.com/terra-clan/video-library/internal/notice"
	"github.com/terra-clan/video-library/internal/seed"
	"github.com/terra-clan/video-library/internal/storage"
	"github.com/terra-clan/video-library/internal/view"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	backend := storage.NewMemoryStore()

	clock := func() func() time.Time {
		current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		return func() time.Time {
			current = current.Add(time.Millisecond)
			return current
		}
	}()

	store, err := catalog.Open(context.Background(), backend, seed.Default(),
		catalog.WithClock(clock),
		catalog.WithRand(rand.New(rand.NewSource(1))),
	)
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}

	return NewServer(
		config.ServerConfig{Host: "127.0.0.1", Port: 0},
		store,
		view.NewNavigator(),
		notice.NewBoard(time.Minute),
		backend,
	)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v\nbody: %s", err, rr.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("invalid data: %v\nbody: %s", err, rr.Body.String())
		}
	}
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var env struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.Error == nil {
		t.Fatalf("expected error in body: %s", rr.Body.String())
	}
	return env.Error.Code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rr := doJSON(t, s, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestAddVideo(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/v1/videos", models.AddVideoRequest{
		Input: "https://example.com/x",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var video models.Video
	decodeData(t, rr, &video)
	if video.Type != models.TypeLink || !video.IsUserAdded {
		t.Errorf("unexpected video: %+v", video)
	}
	if video.CategoryID != models.UncategorizedID {
		t.Errorf("expected uncategorized sentinel, got %q", video.CategoryID)
	}
	if video.Title != "我的自定义视频" {
		t.Errorf("expected fallback title, got %q", video.Title)
	}

	// Successful add surfaces the transient notice and navigates home.
	rr = doJSON(t, s, http.MethodGet, "/api/v1/notice", nil)
	var n struct {
		Message string `json:"message"`
	}
	decodeData(t, rr, &n)
	if n.Message != "视频已成功添加！" {
		t.Errorf("unexpected notice: %q", n.Message)
	}
}

func TestAddVideo_InvalidInput(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/v1/videos", models.AddVideoRequest{
		Input: "definitely not a link",
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if code := errorCode(t, rr); code != "invalid_input" {
		t.Errorf("expected invalid_input, got %q", code)
	}
}

func TestListVideos_Filters(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/v1/videos", models.AddVideoRequest{
		Input: "https://example.com/x", Title: "Deep Work",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add failed: %d", rr.Code)
	}

	var listing struct {
		Videos []models.Video `json:"videos"`
		Total  int            `json:"total"`
	}

	decodeData(t, doJSON(t, s, http.MethodGet, "/api/v1/videos", nil), &listing)
	if listing.Total != 2 {
		t.Errorf("expected 2 videos, got %d", listing.Total)
	}

	decodeData(t, doJSON(t, s, http.MethodGet, "/api/v1/videos?search=deep+work", nil), &listing)
	if listing.Total != 1 {
		t.Errorf("search: expected 1 video, got %d", listing.Total)
	}

	decodeData(t, doJSON(t, s, http.MethodGet, "/api/v1/videos?category=mindset", nil), &listing)
	if listing.Total != 1 || listing.Videos[0].ID != "v1" {
		t.Errorf("category filter: unexpected %+v", listing)
	}

	decodeData(t, doJSON(t, s, http.MethodGet, "/api/v1/videos?collection=pending", nil), &listing)
	if listing.Total != 1 || !listing.Videos[0].IsUserAdded {
		t.Errorf("pending filter: unexpected %+v", listing)
	}
}

func TestDeleteVideo(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodDelete, "/api/v1/videos/v1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	// Deleting the same id again reports not found.
	rr = doJSON(t, s, http.MethodDelete, "/api/v1/videos/v1", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if code := errorCode(t, rr); code != "video_not_found" {
		t.Errorf("expected video_not_found, got %q", code)
	}
}

func TestEditVideo(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPut, "/api/v1/videos/v1", models.EditVideoRequest{
		Title: "Renamed", Description: "New",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var video models.Video
	decodeData(t, rr, &video)
	if video.Title != "Renamed" || video.Description != "New" {
		t.Errorf("edit not applied: %+v", video)
	}
}

func TestReassignCategory(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/v1/videos/v1/category", models.ReassignRequest{
		CategoryID: "learning",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var video models.Video
	decodeData(t, rr, &video)
	if video.CategoryID != "learning" || video.IsUserAdded {
		t.Errorf("unexpected video after reassign: %+v", video)
	}

	// Missing category_id is rejected before touching the store.
	rr = doJSON(t, s, http.MethodPost, "/api/v1/videos/v1/category", models.ReassignRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAddCategory(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/v1/categories", models.AddCategoryRequest{Name: "编程"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}

	var category models.Category
	decodeData(t, rr, &category)
	if category.Name != "编程" || category.Emoji == "" {
		t.Errorf("unexpected category: %+v", category)
	}

	// A blank name is a no-op, not an error.
	rr = doJSON(t, s, http.MethodPost, "/api/v1/categories", models.AddCategoryRequest{Name: "   "})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestGetCategory(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodGet, "/api/v1/categories/mindset", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var detail struct {
		Category models.Category `json:"category"`
		Videos   []models.Video  `json:"videos"`
	}
	decodeData(t, rr, &detail)
	if detail.Category.Name != "心智成长" || len(detail.Videos) != 1 {
		t.Errorf("unexpected detail: %+v", detail)
	}

	rr = doJSON(t, s, http.MethodGet, "/api/v1/categories/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSnapshotExportImport(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodGet, "/api/v1/snapshot", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="my-growth-video-library-2025-06-01.json"` {
		t.Errorf("unexpected content disposition: %q", cd)
	}

	// The export endpoint serves the raw snapshot document.
	var snap models.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("export not a raw snapshot: %v", err)
	}
	if snap.Version != "1.0" || len(snap.Categories) != 2 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	// Importing it back round-trips the catalog.
	rr = doJSON(t, s, http.MethodPost, "/api/v1/snapshot", snap)
	if rr.Code != http.StatusOK {
		t.Fatalf("import expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// Importing empty collections replaces state wholesale.
	rr = doJSON(t, s, http.MethodPost, "/api/v1/snapshot",
		map[string]interface{}{"categories": []models.Category{}, "videos": []models.Video{}})
	if rr.Code != http.StatusOK {
		t.Fatalf("empty import expected 200, got %d", rr.Code)
	}

	var listing struct {
		Total int `json:"total"`
	}
	decodeData(t, doJSON(t, s, http.MethodGet, "/api/v1/videos", nil), &listing)
	if listing.Total != 0 {
		t.Errorf("expected empty catalog after import, got %d videos", listing.Total)
	}
}

func TestSnapshotImport_InvalidFormat(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/v1/snapshot", map[string]interface{}{"categories": []models.Category{}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if code := errorCode(t, rr); code != "invalid_format" {
		t.Errorf("expected invalid_format, got %q", code)
	}

	// State untouched after a rejected import.
	var listing struct {
		Total int `json:"total"`
	}
	decodeData(t, doJSON(t, s, http.MethodGet, "/api/v1/videos", nil), &listing)
	if listing.Total != 1 {
		t.Errorf("expected seed catalog intact, got %d videos", listing.Total)
	}
}

func TestNavigationFlow(t *testing.T) {
	s := newTestServer(t)

	var st view.State

	decodeData(t, doJSON(t, s, http.MethodGet, "/api/v1/view", nil), &st)
	if st.Current != view.Overview {
		t.Fatalf("expected overview start, got %q", st.Current)
	}

	decodeData(t, doJSON(t, s, http.MethodPost, "/api/v1/view/category/mindset", nil), &st)
	if st.Current != view.CategoryDetail || st.CategoryID != "mindset" {
		t.Fatalf("unexpected state: %+v", st)
	}

	decodeData(t, doJSON(t, s, http.MethodPost, "/api/v1/view/video/v1", nil), &st)
	if st.Current != view.VideoPlay || st.VideoID != "v1" {
		t.Fatalf("unexpected state: %+v", st)
	}

	decodeData(t, doJSON(t, s, http.MethodPost, "/api/v1/view/back", nil), &st)
	if st.Current != view.CategoryDetail || st.CategoryID != "mindset" {
		t.Fatalf("back should return to the category list: %+v", st)
	}

	// Playing an unknown video leaves navigation untouched.
	rr := doJSON(t, s, http.MethodPost, "/api/v1/view/video/ghost", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	decodeData(t, doJSON(t, s, http.MethodGet, "/api/v1/view", nil), &st)
	if st.Current != view.CategoryDetail {
		t.Fatalf("navigation state changed on missing video: %+v", st)
	}
}

func TestDeleteFromCategoryDetail_StaysInCategory(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/v1/view/category/mindset", nil)

	rr := doJSON(t, s, http.MethodDelete, "/api/v1/videos/v1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", rr.Code)
	}

	var st view.State
	decodeData(t, doJSON(t, s, http.MethodGet, "/api/v1/view", nil), &st)
	if st.Current != view.CategoryDetail || st.CategoryID != "mindset" {
		t.Fatalf("expected to stay in category-detail, got %+v", st)
	}
}
