// Copyright (c) 2026 Rand-a-Pizza.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/randapizza/server/models"
)

// Cache stores a ranked board between reads so the leaderboard endpoint does
// not hit the repository on every request. Implementations must treat a miss
// and an expired entry identically.
type Cache interface {
	Get(ctx context.Context) ([]models.Recipe, bool, error)
	Set(ctx context.Context, board []models.Recipe) error
	Invalidate(ctx context.Context) error
}

const defaultTTL = 15 * time.Second

// MemoryCache is a single-process board cache. The default for deployments
// without redis, and for tests.
type MemoryCache struct {
	mu        sync.Mutex
	board     []models.Recipe
	expiresAt time.Time
	ttl       time.Duration
}

type MemoryOption func(*MemoryCache)

func WithMemoryTTL(d time.Duration) MemoryOption {
	return func(c *MemoryCache) { c.ttl = d }
}

func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{ttl: defaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(_ context.Context) ([]models.Recipe, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.board == nil || time.Now().After(c.expiresAt) {
		return nil, false, nil
	}
	out := make([]models.Recipe, len(c.board))
	copy(out, c.board)
	return out, true, nil
}

func (c *MemoryCache) Set(_ context.Context, board []models.Recipe) error {
	stored := make([]models.Recipe, len(board))
	copy(stored, board)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.board = stored
	c.expiresAt = time.Now().Add(c.ttl)
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.board = nil
	return nil
}

// RedisCache stores the board as a JSON value with a TTL, shared across
// server instances.
type RedisCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

type RedisOption func(*RedisCache)

func WithRedisKey(key string) RedisOption {
	return func(c *RedisCache) { c.key = key }
}

func WithRedisTTL(d time.Duration) RedisOption {
	return func(c *RedisCache) { c.ttl = d }
}

func NewRedisCache(rdb *redis.Client, opts ...RedisOption) *RedisCache {
	c := &RedisCache{
		rdb: rdb,
		key: "leaderboard:board",
		ttl: defaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) Get(ctx context.Context) ([]models.Recipe, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read board cache: %w", err)
	}

	var board []models.Recipe
	if err := json.Unmarshal(raw, &board); err != nil {
		// A corrupt entry is treated as a miss; the next Set overwrites it.
		return nil, false, nil
	}
	return board, true, nil
}

func (c *RedisCache) Set(ctx context.Context, board []models.Recipe) error {
	raw, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to encode board cache: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write board cache: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate board cache: %w", err)
	}
	return nil
}
