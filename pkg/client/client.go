package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/video-library/internal/models"
	"github.com/terra-clan/video-library/internal/view"
)

// Client is a Go SDK for the video-library API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new video-library client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a structured error returned by the API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// do performs a request against the enveloped API and decodes data into out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "unknown", Message: "unknown error"}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode data: %w", err)
		}
	}
	return nil
}

// ListVideosOptions filters a video listing
type ListVideosOptions struct {
	Search     string
	CategoryID string
	Collection string // "featured" or "pending"
}

// ListVideos returns videos, optionally filtered
func (c *Client) ListVideos(ctx context.Context, opts ListVideosOptions) ([]models.Video, error) {
	q := url.Values{}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.CategoryID != "" {
		q.Set("category", opts.CategoryID)
	}
	if opts.Collection != "" {
		q.Set("collection", opts.Collection)
	}

	path := "/api/v1/videos"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out struct {
		Videos []models.Video `json:"videos"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Videos, nil
}

// AddVideo adds a video from a raw URL or embed snippet
func (c *Client) AddVideo(ctx context.Context, input, title, description string) (*models.Video, error) {
	req := models.AddVideoRequest{Input: input, Title: title, Description: description}
	var video models.Video
	if err := c.do(ctx, http.MethodPost, "/api/v1/videos", req, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// GetVideo fetches a single video by id
func (c *Client) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video
	if err := c.do(ctx, http.MethodGet, "/api/v1/videos/"+url.PathEscape(id), nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// EditVideo updates a video's title and description
func (c *Client) EditVideo(ctx context.Context, id, title, description string) (*models.Video, error) {
	req := models.EditVideoRequest{Title: title, Description: description}
	var video models.Video
	if err := c.do(ctx, http.MethodPut, "/api/v1/videos/"+url.PathEscape(id), req, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// DeleteVideo removes a video by id
func (c *Client) DeleteVideo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/videos/"+url.PathEscape(id), nil, nil)
}

// ReassignCategory moves a video into another category
func (c *Client) ReassignCategory(ctx context.Context, videoID, categoryID string) (*models.Video, error) {
	req := models.ReassignRequest{CategoryID: categoryID}
	var video models.Video
	if err := c.do(ctx, http.MethodPost, "/api/v1/videos/"+url.PathEscape(videoID)+"/category", req, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// ListCategories returns all categories in display order
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// AddCategory creates a category. A blank name is a server-side no-op and
// returns nil, nil.
func (c *Client) AddCategory(ctx context.Context, name string) (*models.Category, error) {
	req := models.AddCategoryRequest{Name: name}
	var category models.Category
	if err := c.do(ctx, http.MethodPost, "/api/v1/categories", req, &category); err != nil {
		return nil, err
	}
	if category.ID == "" {
		return nil, nil
	}
	return &category, nil
}

// CategoryDetail is a category with its assigned videos
type CategoryDetail struct {
	Category models.Category `json:"category"`
	Videos   []models.Video  `json:"videos"`
}

// GetCategory fetches a category together with its videos
func (c *Client) GetCategory(ctx context.Context, id string) (*CategoryDetail, error) {
	var detail CategoryDetail
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories/"+url.PathEscape(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExportSnapshot downloads the whole catalog. The export endpoint serves the
// raw document, not the API envelope.
func (c *Client) ExportSnapshot(ctx context.Context) (*models.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/snapshot", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: "export_failed", Message: "snapshot export failed"}
	}

	var snap models.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// ImportSnapshot replaces the whole catalog from a snapshot document
func (c *Client) ImportSnapshot(ctx context.Context, snap *models.Snapshot) error {
	return c.do(ctx, http.MethodPost, "/api/v1/snapshot", snap, nil)
}

// View returns the current navigation state
func (c *Client) View(ctx context.Context) (*view.State, error) {
	var st view.State
	if err := c.do(ctx, http.MethodGet, "/api/v1/view", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ShowOverview navigates home
func (c *Client) ShowOverview(ctx context.Context) (*view.State, error) {
	return c.navigate(ctx, "/api/v1/view/overview")
}

// ShowCategory navigates into a category's detail view
func (c *Client) ShowCategory(ctx context.Context, categoryID string) (*view.State, error) {
	return c.navigate(ctx, "/api/v1/view/category/"+url.PathEscape(categoryID))
}

// ShowVideo navigates into playback of a video
func (c *Client) ShowVideo(ctx context.Context, videoID string) (*view.State, error) {
	return c.navigate(ctx, "/api/v1/view/video/"+url.PathEscape(videoID))
}

// Back performs single-level back-navigation out of playback
func (c *Client) Back(ctx context.Context) (*view.State, error) {
	return c.navigate(ctx, "/api/v1/view/back")
}

func (c *Client) navigate(ctx context.Context, path string) (*view.State, error) {
	var st view.State
	if err := c.do(ctx, http.MethodPost, path, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Notice returns the current transient status message, empty when expired
func (c *Client) Notice(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/notice", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
