package snapshot

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/terra-clan/video-library/internal/models"
)

// ErrInvalidFormat means the document was not parseable JSON or was missing
// the categories or videos member.
var ErrInvalidFormat = errors.New("document is not a valid library snapshot")

// Export bundles both collections into a portable snapshot stamped with the
// format version and an export timestamp.
func Export(cats []models.Category, vids []models.Video, now time.Time) models.Snapshot {
	return models.Snapshot{
		Categories: cats,
		Videos:     vids,
		Version:    models.SnapshotVersion,
		ExportDate: now.UTC(),
	}
}

// Parse accepts a document only when it parses as JSON and carries both a
// categories and a videos member. Entity shape is not validated beyond the
// arrays decoding; a snapshot from a newer or older export round-trips as-is.
func Parse(data []byte) (*models.Snapshot, error) {
	var probe struct {
		Categories json.RawMessage `json:"categories"`
		Videos     json.RawMessage `json:"videos"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, ErrInvalidFormat
	}
	if isAbsent(probe.Categories) || isAbsent(probe.Videos) {
		return nil, ErrInvalidFormat
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, ErrInvalidFormat
	}
	return &snap, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// Filename returns the dated download name for an export
func Filename(now time.Time) string {
	return "my-growth-video-library-" + now.UTC().Format("2006-01-02") + ".json"
}
