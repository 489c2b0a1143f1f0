package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/video-library/internal/models"
)

// PostgresStore implements Store using a single key-value table in PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

const createStateTable = `
CREATE TABLE IF NOT EXISTS library_state (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPostgresStore creates a new PostgreSQL-backed store and ensures its schema
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 2
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createStateTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure library_state table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) loadKey(ctx context.Context, key string) ([]byte, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM library_state WHERE key = $1`, key).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return raw, true, nil
}

// LoadCategories reads the category collection from its fixed key
func (s *PostgresStore) LoadCategories(ctx context.Context) ([]models.Category, bool, error) {
	raw, found, err := s.loadKey(ctx, KeyCategories)
	if err != nil || !found {
		return nil, false, err
	}

	var cats []models.Category
	if err := json.Unmarshal(raw, &cats); err != nil {
		slog.Warn("stored categories unparsable, treating as absent", "key", KeyCategories, "error", err)
		return nil, false, nil
	}
	return cats, true, nil
}

// LoadVideos reads the video collection from its fixed key
func (s *PostgresStore) LoadVideos(ctx context.Context) ([]models.Video, bool, error) {
	raw, found, err := s.loadKey(ctx, KeyVideos)
	if err != nil || !found {
		return nil, false, err
	}

	var vids []models.Video
	if err := json.Unmarshal(raw, &vids); err != nil {
		slog.Warn("stored videos unparsable, treating as absent", "key", KeyVideos, "error", err)
		return nil, false, nil
	}
	return vids, true, nil
}

// SaveAll upserts both collections in one transaction
func (s *PostgresStore) SaveAll(ctx context.Context, cats []models.Category, vids []models.Video) error {
	catsJSON, err := json.Marshal(cats)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	vidsJSON, err := json.Marshal(vids)
	if err != nil {
		return fmt.Errorf("failed to marshal videos: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	upsert := `
		INSERT INTO library_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := tx.Exec(ctx, upsert, KeyCategories, catsJSON); err != nil {
		return fmt.Errorf("failed to persist categories: %w", err)
	}
	if _, err := tx.Exec(ctx, upsert, KeyVideos, vidsJSON); err != nil {
		return fmt.Errorf("failed to persist videos: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
