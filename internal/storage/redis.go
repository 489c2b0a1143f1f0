package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/terra-clan/video-library/internal/models"
)

// RedisStore implements Store using Redis
type RedisStore struct {
	client *redis.Client
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// LoadCategories reads the category collection from its fixed key
func (s *RedisStore) LoadCategories(ctx context.Context) ([]models.Category, bool, error) {
	raw, err := s.client.Get(ctx, KeyCategories).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", KeyCategories, err)
	}

	var cats []models.Category
	if err := json.Unmarshal(raw, &cats); err != nil {
		slog.Warn("stored categories unparsable, treating as absent", "key", KeyCategories, "error", err)
		return nil, false, nil
	}
	return cats, true, nil
}

// LoadVideos reads the video collection from its fixed key
func (s *RedisStore) LoadVideos(ctx context.Context) ([]models.Video, bool, error) {
	raw, err := s.client.Get(ctx, KeyVideos).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", KeyVideos, err)
	}

	var vids []models.Video
	if err := json.Unmarshal(raw, &vids); err != nil {
		slog.Warn("stored videos unparsable, treating as absent", "key", KeyVideos, "error", err)
		return nil, false, nil
	}
	return vids, true, nil
}

// SaveAll writes both collections. The two keys are written from one call
// with no transaction; the pair write is best-effort atomic.
func (s *RedisStore) SaveAll(ctx context.Context, cats []models.Category, vids []models.Video) error {
	catsJSON, err := json.Marshal(cats)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	vidsJSON, err := json.Marshal(vids)
	if err != nil {
		return fmt.Errorf("failed to marshal videos: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, KeyCategories, catsJSON, 0)
	pipe.Set(ctx, KeyVideos, vidsJSON, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to persist catalog: %w", err)
	}
	return nil
}

// Ping verifies Redis connectivity
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
