package catalog

import (
	"errors"
	"testing"

	"github.com/terra-clan/video-library/internal/models"
)

func TestParseVideoInput(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantType  models.VideoType
		wantURL   string
		wantTitle string
		wantErr   bool
	}{
		{
			name:     "plain absolute url",
			input:    "https://example.com/watch?v=abc",
			wantType: models.TypeLink,
			wantURL:  "https://example.com/watch?v=abc",
		},
		{
			name:     "url with surrounding whitespace",
			input:    "  https://example.com/x  ",
			wantType: models.TypeLink,
			wantURL:  "https://example.com/x",
		},
		{
			name:      "iframe embed with title",
			input:     `<iframe width="560" src="https://www.youtube.com/embed/xyz" title="Lecture 01"></iframe>`,
			wantType:  models.TypeEmbed,
			wantURL:   "https://www.youtube.com/embed/xyz",
			wantTitle: "Lecture 01",
		},
		{
			name:     "iframe embed without title",
			input:    `<iframe src="https://player.example.com/v/1"></iframe>`,
			wantType: models.TypeEmbed,
			wantURL:  "https://player.example.com/v/1",
		},
		{
			name:      "iframe wins over surrounding markup",
			input:     `<div><p>watch this</p><iframe frameborder="0" src="https://www.youtube.com/embed/q" title="T"></iframe></div>`,
			wantType:  models.TypeEmbed,
			wantURL:   "https://www.youtube.com/embed/q",
			wantTitle: "T",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   \n\t ",
			wantErr: true,
		},
		{
			name:    "not a url",
			input:   "just some words",
			wantErr: true,
		},
		{
			name:    "relative url rejected",
			input:   "/videos/123",
			wantErr: true,
		},
		{
			name:    "iframe without src rejected",
			input:   `<iframe title="No Source"></iframe>`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := parseVideoInput(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Type != tc.wantType {
				t.Errorf("type: expected %q, got %q", tc.wantType, p.Type)
			}
			if p.VideoURL != tc.wantURL {
				t.Errorf("url: expected %q, got %q", tc.wantURL, p.VideoURL)
			}
			if p.Title != tc.wantTitle {
				t.Errorf("title: expected %q, got %q", tc.wantTitle, p.Title)
			}
		})
	}
}

func TestThumbnailURL_Deterministic(t *testing.T) {
	a := thumbnailURL("My Video")
	b := thumbnailURL("My Video")
	if a != b {
		t.Fatalf("thumbnail not deterministic: %q vs %q", a, b)
	}
	if thumbnailURL("Other") == a {
		t.Fatal("different titles produced the same thumbnail")
	}
}
