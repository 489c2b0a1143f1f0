package models

import (
	"time"
)

// VideoType describes how a video's URL should be presented
type VideoType string

const (
	// TypeEmbed plays inline in a frame
	TypeEmbed VideoType = "embed"
	// TypeLink is an external navigation target
	TypeLink VideoType = "link"
)

// UncategorizedID is the sentinel category for videos awaiting user triage.
// It is distinct from every real category id.
const UncategorizedID = "user-added"

// Category represents a top-level grouping of videos
type Category struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Emoji string `json:"emoji" yaml:"emoji"`
}

// Video represents a single catalog entry
type Video struct {
	ID          string    `json:"id" yaml:"id"`
	CategoryID  string    `json:"categoryId" yaml:"categoryId"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Duration    string    `json:"duration" yaml:"duration"` // free text, e.g. "1:24:30"
	Thumbnail   string    `json:"thumbnail" yaml:"thumbnail"`
	VideoURL    string    `json:"videoUrl" yaml:"videoUrl"`
	Type        VideoType `json:"type" yaml:"type"`
	IsUserAdded bool      `json:"isUserAdded" yaml:"isUserAdded"`
}

// IsEmbed returns true if the video plays inline
func (v *Video) IsEmbed() bool {
	return v.Type == TypeEmbed
}

// Snapshot is the portable export/import unit bundling the whole catalog
type Snapshot struct {
	Categories []Category `json:"categories"`
	Videos     []Video    `json:"videos"`
	Version    string     `json:"version"`
	ExportDate time.Time  `json:"exportDate"`
}

// SnapshotVersion is the format version stamped on exports
const SnapshotVersion = "1.0"

// AddVideoRequest represents a request to add a video from raw user input
type AddVideoRequest struct {
	Input       string `json:"input"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// AddCategoryRequest represents a request to create a category
type AddCategoryRequest struct {
	Name string `json:"name"`
}

// EditVideoRequest represents a title/description update
type EditVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ReassignRequest represents a category reassignment (drag-and-drop drop)
type ReassignRequest struct {
	CategoryID string `json:"category_id"`
}
