package storage

import (
	"context"

	"github.com/terra-clan/video-library/internal/models"
)

// Fixed storage keys, one per collection. The two collections are stored as
// independent documents, never as one combined value.
const (
	KeyCategories = "myGrowthVideoLibrary_categories_v2"
	KeyVideos     = "myGrowthVideoLibrary_videos_v2"
)

// Store defines the persistence port for the catalog. Implementations mirror
// the collections into a durable key-value medium; they never mutate them.
//
// Load methods return ok=false when the key is absent or its value does not
// parse, so the caller can substitute seed data. Errors are reserved for
// medium failures (connectivity, I/O).
type Store interface {
	LoadCategories(ctx context.Context) (cats []models.Category, ok bool, err error)
	LoadVideos(ctx context.Context) (vids []models.Video, ok bool, err error)

	// SaveAll writes both collections. Called after every successful catalog
	// mutation (write-through, no batching).
	SaveAll(ctx context.Context, cats []models.Category, vids []models.Video) error

	Ping(ctx context.Context) error
	Close() error
}
