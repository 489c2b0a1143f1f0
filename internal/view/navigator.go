package view

import (
	"sync"
)

// Name identifies one of the three views
type Name string

const (
	// Overview is the initial view: search, add forms, category grid,
	// featured and pending sections.
	Overview Name = "main-overview"
	// CategoryDetail shows the videos of one category
	CategoryDetail Name = "category-detail"
	// VideoPlay shows a single playing video
	VideoPlay Name = "video-play"
)

// Previous is the one-level breadcrumb used for back-navigation. Param is a
// category id or empty.
type Previous struct {
	Name  Name   `json:"name"`
	Param string `json:"param,omitempty"`
}

// State is the externally visible navigation state
type State struct {
	Current    Name     `json:"current"`
	CategoryID string   `json:"category_id,omitempty"`
	VideoID    string   `json:"video_id,omitempty"`
	Previous   Previous `json:"previous"`
}

// Navigator tracks which view is active. It holds identifiers only, never
// entity copies, so it can never diverge from the catalog.
type Navigator struct {
	mu       sync.Mutex
	current  Name
	videoID  string
	previous Previous
}

// NewNavigator starts at the overview
func NewNavigator() *Navigator {
	return &Navigator{
		current:  Overview,
		previous: Previous{Name: Overview},
	}
}

// State returns the current navigation state. The active category id is the
// breadcrumb param while in category-detail, the way the original rendered
// the detail list from previousView.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()

	st := State{
		Current:  n.current,
		Previous: n.previous,
	}
	if n.current == CategoryDetail {
		st.CategoryID = n.previous.Param
	}
	if n.current == VideoPlay {
		st.VideoID = n.videoID
	}
	return st
}

// ShowOverview is the unconditional home action
func (n *Navigator) ShowOverview() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = Overview
	n.videoID = ""
}

// ShowCategory enters category-detail. The breadcrumb records the view being
// left together with the target category id, so a later delete-from-detail
// can recompute which list to show. An empty id is a no-op.
func (n *Navigator) ShowCategory(categoryID string) {
	if categoryID == "" {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.previous = Previous{Name: n.current, Param: categoryID}
	n.current = CategoryDetail
	n.videoID = ""
}

// ShowVideo enters video-play. The breadcrumb records the view being left
// and, when leaving category-detail, the video's own category id so back
// returns to that list.
func (n *Navigator) ShowVideo(videoID, videoCategoryID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	prev := Previous{Name: n.current}
	if n.current == CategoryDetail {
		prev.Param = videoCategoryID
	}
	n.previous = prev
	n.current = VideoPlay
	n.videoID = videoID
}

// Back leaves video-play toward whatever preceded it: category-detail with
// the remembered category id, or the overview. Elsewhere it is a no-op.
func (n *Navigator) Back() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current != VideoPlay {
		return
	}
	n.videoID = ""
	if n.previous.Name == CategoryDetail && n.previous.Param != "" {
		n.previous = Previous{Name: n.current, Param: n.previous.Param}
		n.current = CategoryDetail
		return
	}
	n.current = Overview
}

// AfterDelete recomputes the view after a video deletion: category-detail
// re-enters the same category (the list is recomputed, not cached), anywhere
// else lands on the overview.
func (n *Navigator) AfterDelete() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.videoID = ""
	if n.current == CategoryDetail && n.previous.Param != "" {
		// Same transition as ShowCategory with the remembered id.
		n.previous = Previous{Name: n.current, Param: n.previous.Param}
		n.current = CategoryDetail
		return
	}
	n.current = Overview
}
