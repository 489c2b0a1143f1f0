package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/terra-clan/video-library/internal/models"
	"github.com/terra-clan/video-library/internal/seed"
	"github.com/terra-clan/video-library/internal/storage"
)

// Common errors
var (
	// ErrInvalidInput means add-video input was neither an embeddable
	// iframe snippet nor a parseable absolute URL.
	ErrInvalidInput = errors.New("input is not a valid link or embed code")
	// ErrVideoNotFound is returned by operations targeting a missing video id.
	ErrVideoNotFound = errors.New("video not found")
)

// Fallback literals applied when the user leaves fields blank
const (
	fallbackTitle       = "我的自定义视频"
	fallbackDescription = "自定义视频描述。"
	unknownDuration     = "未知"
)

// emojiPool is the fixed pool a new category's emoji is drawn from
var emojiPool = []string{"💡", "🚀", "⭐", "🎯", "🔧", "🔬", "🎨", "🎵", "📈", "🌍"}

// Store is the sole owner of the ordered category and video collections.
// Every successful mutation is immediately mirrored to the persistence
// backend (write-through).
type Store struct {
	mu      sync.RWMutex
	backend storage.Store

	categories []models.Category
	videos     []models.Video

	now func() time.Time
	rng *rand.Rand
}

// Option configures the store
type Option func(*Store)

// WithClock sets the clock used for id generation and export timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithRand sets the random source used for emoji selection
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) {
		s.rng = rng
	}
}

// Open loads both collections from the backend. A collection that is absent
// or unparsable is substituted from the seed dataset, and the seed is
// persisted immediately so subsequent loads are stable.
func Open(ctx context.Context, backend storage.Store, ds seed.Dataset, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}

	cats, catsFound, err := backend.LoadCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	vids, vidsFound, err := backend.LoadVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load videos: %w", err)
	}

	if !catsFound {
		cats = append([]models.Category(nil), ds.Categories...)
	}
	if !vidsFound {
		vids = append([]models.Video(nil), ds.Videos...)
	}

	s.categories = cats
	s.videos = vids

	if !catsFound || !vidsFound {
		slog.Info("seeding catalog",
			"categories_seeded", !catsFound,
			"videos_seeded", !vidsFound,
		)
		if err := backend.SaveAll(ctx, s.categories, s.videos); err != nil {
			return nil, fmt.Errorf("failed to persist seed: %w", err)
		}
	}

	return s, nil
}

// persist mirrors the current collections to the backend. Callers hold the
// write lock. In-memory state stays applied even when the write fails, the
// same way the original kept its page state when storage misbehaved.
func (s *Store) persist(ctx context.Context) error {
	if err := s.backend.SaveAll(ctx, s.categories, s.videos); err != nil {
		return fmt.Errorf("failed to persist catalog: %w", err)
	}
	return nil
}

// AddVideo creates a user-added video from raw input. The input is either an
// iframe embed snippet (its src becomes the URL, type embed) or a standalone
// absolute URL (type link). Title resolution: custom title, then an extracted
// title attribute, then the fallback literal.
func (s *Store) AddVideo(ctx context.Context, rawInput, customTitle, customDescription string) (*models.Video, error) {
	parsed, err := parseVideoInput(rawInput)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(customTitle)
	if title == "" {
		title = parsed.Title
	}
	if title == "" {
		title = fallbackTitle
	}

	description := strings.TrimSpace(customDescription)
	if description == "" {
		description = fallbackDescription
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	video := models.Video{
		ID:          fmt.Sprintf("user-v-%d", s.now().UnixMilli()),
		CategoryID:  models.UncategorizedID,
		Title:       title,
		Description: description,
		Duration:    unknownDuration,
		Thumbnail:   thumbnailURL(title),
		VideoURL:    parsed.VideoURL,
		Type:        parsed.Type,
		IsUserAdded: true,
	}

	s.videos = append(s.videos, video)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	slog.Info("video added", "id", video.ID, "type", video.Type, "title", video.Title)
	return &video, nil
}

// AddCategory appends a new category with a random emoji from the fixed
// pool. A name that trims to empty is a no-op: nil category, nil error,
// no mutation.
func (s *Store) AddCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	category := models.Category{
		ID:    fmt.Sprintf("cat-%d", s.now().UnixMilli()),
		Name:  name,
		Emoji: emojiPool[s.rng.Intn(len(emojiPool))],
	}

	s.categories = append(s.categories, category)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	slog.Info("category added", "id", category.ID, "name", category.Name)
	return &category, nil
}

// DeleteVideo removes the video with the given id. Returns ErrVideoNotFound
// without mutating anything when the id is unknown.
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.videoIndex(id)
	if idx < 0 {
		return ErrVideoNotFound
	}

	s.videos = append(s.videos[:idx], s.videos[idx+1:]...)

	if err := s.persist(ctx); err != nil {
		return err
	}

	slog.Info("video deleted", "id", id)
	return nil
}

// EditVideo updates exactly the title, description and the thumbnail derived
// from the new title. The thumbnail is regenerated even when only the
// description changed, matching the original edit behavior. All other fields
// are untouched.
func (s *Store) EditVideo(ctx context.Context, id, title, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.videoIndex(id)
	if idx < 0 {
		return ErrVideoNotFound
	}

	s.videos[idx].Title = title
	s.videos[idx].Description = description
	s.videos[idx].Thumbnail = thumbnailURL(title)

	if err := s.persist(ctx); err != nil {
		return err
	}

	slog.Info("video edited", "id", id)
	return nil
}

// ReassignCategory moves a video to another category and always clears
// IsUserAdded, even when it was already false. The target category id is
// accepted verbatim with no referential check; a dangling reference renders
// as an unknown-category label at display time.
func (s *Store) ReassignCategory(ctx context.Context, videoID, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.videoIndex(videoID)
	if idx < 0 {
		return ErrVideoNotFound
	}

	s.videos[idx].CategoryID = categoryID
	s.videos[idx].IsUserAdded = false

	if err := s.persist(ctx); err != nil {
		return err
	}

	slog.Info("video reassigned", "id", videoID, "category_id", categoryID)
	return nil
}

// Search returns videos whose title or description contains the query,
// case-insensitively, in stored order. Non-destructive.
func (s *Store) Search(query string) []models.Video {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []models.Video
	for _, v := range s.videos {
		if strings.Contains(strings.ToLower(v.Title), q) ||
			strings.Contains(strings.ToLower(v.Description), q) {
			results = append(results, v)
		}
	}
	return results
}

// ReplaceAll swaps both collections wholesale and persists. Used by import;
// no merge, no dedup, no entity validation.
func (s *Store) ReplaceAll(ctx context.Context, cats []models.Category, vids []models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = append([]models.Category(nil), cats...)
	s.videos = append([]models.Video(nil), vids...)

	if err := s.persist(ctx); err != nil {
		return err
	}

	slog.Info("catalog replaced", "categories", len(s.categories), "videos", len(s.videos))
	return nil
}

// Categories returns a copy of the ordered category collection
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category(nil), s.categories...)
}

// Videos returns a copy of the ordered video collection
func (s *Store) Videos() []models.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Video(nil), s.videos...)
}

// Category returns the category with the given id, or nil
func (s *Store) Category(id string) *models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.categories {
		if s.categories[i].ID == id {
			c := s.categories[i]
			return &c
		}
	}
	return nil
}

// Video returns the video with the given id, or nil
func (s *Store) Video(id string) *models.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.videoIndex(id); idx >= 0 {
		v := s.videos[idx]
		return &v
	}
	return nil
}

// VideosByCategory returns the videos assigned to a category id, in stored order
func (s *Store) VideosByCategory(categoryID string) []models.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []models.Video
	for _, v := range s.videos {
		if v.CategoryID == categoryID {
			results = append(results, v)
		}
	}
	return results
}

// Featured returns the curated (non user-added) videos
func (s *Store) Featured() []models.Video {
	return s.byUserAdded(false)
}

// Pending returns the user-added videos awaiting triage
func (s *Store) Pending() []models.Video {
	return s.byUserAdded(true)
}

func (s *Store) byUserAdded(userAdded bool) []models.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []models.Video
	for _, v := range s.videos {
		if v.IsUserAdded == userAdded {
			results = append(results, v)
		}
	}
	return results
}

// videoIndex returns the index of a video id, or -1. Callers hold the lock.
func (s *Store) videoIndex(id string) int {
	for i := range s.videos {
		if s.videos[i].ID == id {
			return i
		}
	}
	return -1
}

// Now returns the store's current clock reading. Exported for collaborators
// that stamp timestamps consistently with id generation (export dates).
func (s *Store) Now() time.Time {
	return s.now()
}
