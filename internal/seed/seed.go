package seed

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/video-library/internal/models"
)

// Dataset is the initial catalog used when a collection is missing from
// storage on first load.
type Dataset struct {
	Categories []models.Category `yaml:"categories"`
	Videos     []models.Video    `yaml:"videos"`
}

// Default returns the built-in curated seed dataset
func Default() Dataset {
	return Dataset{
		Categories: []models.Category{
			{ID: "mindset", Name: "心智成长", Emoji: "🧠"},
			{ID: "learning", Name: "高效学习", Emoji: "📚"},
		},
		Videos: []models.Video{
			{
				ID:          "v1",
				CategoryID:  "mindset",
				Title:       "MIT 6.S184: Flow Matching and Diffusion Models",
				Description: "Generative AI with SDEs, Lecture 01.",
				Duration:    "1:24:30",
				Thumbnail:   "https://placehold.co/600x338/2d3748/cbd5e0?text=Flow+Matching",
				VideoURL:    "https://www.youtube.com/embed/GCoP2w-Cqtg",
				Type:        models.TypeEmbed,
				IsUserAdded: false,
			},
		},
	}
}

// Load returns the seed dataset, reading a YAML override from path when one
// is configured. A missing or unreadable file falls back to the built-in
// dataset with a warning; the service still starts.
func Load(path string) Dataset {
	if path == "" {
		return Default()
	}

	ds, err := LoadFile(path)
	if err != nil {
		slog.Warn("failed to load seed file, using built-in dataset", "path", path, "error", err)
		return Default()
	}

	slog.Info("seed dataset loaded",
		"path", path,
		"categories", len(ds.Categories),
		"videos", len(ds.Videos),
	)
	return ds
}

// LoadFile parses a YAML seed dataset from path
func LoadFile(path string) (Dataset, error) {
	var ds Dataset

	data, err := os.ReadFile(path)
	if err != nil {
		return ds, fmt.Errorf("failed to read seed file: %w", err)
	}

	if err := yaml.Unmarshal(data, &ds); err != nil {
		return ds, fmt.Errorf("failed to parse seed file: %w", err)
	}

	if len(ds.Categories) == 0 && len(ds.Videos) == 0 {
		return ds, fmt.Errorf("seed file %s defines no categories and no videos", path)
	}

	return ds, nil
}
