package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/terra-clan/video-library/internal/models"
)

// MemoryStore implements Store with an in-process map. Used for tests and as
// the non-durable backend.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Put stores a raw value under key. Test helper for simulating pre-existing
// or corrupt persisted state.
func (s *MemoryStore) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Get returns the raw value stored under key
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// LoadCategories returns the stored category collection
func (s *MemoryStore) LoadCategories(ctx context.Context) ([]models.Category, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, found := s.data[KeyCategories]
	if !found {
		return nil, false, nil
	}
	var cats []models.Category
	if err := json.Unmarshal(raw, &cats); err != nil {
		return nil, false, nil
	}
	return cats, true, nil
}

// LoadVideos returns the stored video collection
func (s *MemoryStore) LoadVideos(ctx context.Context) ([]models.Video, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, found := s.data[KeyVideos]
	if !found {
		return nil, false, nil
	}
	var vids []models.Video
	if err := json.Unmarshal(raw, &vids); err != nil {
		return nil, false, nil
	}
	return vids, true, nil
}

// SaveAll writes both collections
func (s *MemoryStore) SaveAll(ctx context.Context, cats []models.Category, vids []models.Video) error {
	catsJSON, err := json.Marshal(cats)
	if err != nil {
		return err
	}
	vidsJSON, err := json.Marshal(vids)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[KeyCategories] = catsJSON
	s.data[KeyVideos] = vidsJSON
	return nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// Close is a no-op
func (s *MemoryStore) Close() error { return nil }
