package catalog

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/terra-clan/video-library/internal/models"
)

var (
	iframeSrcRe = regexp.MustCompile(`<iframe[^>]+src="([^"]+)"`)
	titleAttrRe = regexp.MustCompile(`title="([^"]+)"`)
)

// parsedInput is the result of interpreting raw add-video input
type parsedInput struct {
	VideoURL string
	Type     models.VideoType
	Title    string // extracted title attribute, may be empty
}

// parseVideoInput interprets raw user input as either an embeddable iframe
// snippet or a standalone absolute URL. Returns ErrInvalidInput when it is
// neither.
func parseVideoInput(raw string) (parsedInput, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return parsedInput{}, ErrInvalidInput
	}

	var p parsedInput

	// The title attribute is searched in the whole input, not just inside
	// the iframe tag, matching how users paste embed codes.
	if m := titleAttrRe.FindStringSubmatch(input); m != nil {
		p.Title = m[1]
	}

	if m := iframeSrcRe.FindStringSubmatch(input); m != nil {
		p.VideoURL = m[1]
		p.Type = models.TypeEmbed
		return p, nil
	}

	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return parsedInput{}, ErrInvalidInput
	}

	p.VideoURL = input
	p.Type = models.TypeLink
	return p, nil
}

// thumbnailURL derives a deterministic generated-avatar thumbnail from a title
func thumbnailURL(title string) string {
	return "https://api.dicebear.com/7.x/shapes/svg?seed=" + url.QueryEscape(title) +
		"&backgroundColor=5a67d8&textColor=ffffff&size=600&width=600&height=338"
}
