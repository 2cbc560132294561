// Package cache keeps the latest sensor snapshot in Redis so several API
// replicas can serve it without touching SQLite.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"pool_monitor/internal/models"
)

const (
	// LatestReadingKey holds the JSON-encoded latest ReadingSnapshot.
	LatestReadingKey = "poolmon:reading:latest"
	// DefaultTTL bounds how long a stale snapshot is served after the feed stops.
	DefaultTTL = 10 * time.Minute
)

// RedisCache stores reading snapshots in Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// SetLatest stores snap as the latest snapshot.
func (r *RedisCache) SetLatest(ctx context.Context, snap models.ReadingSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, LatestReadingKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache latest reading: %w", err)
	}
	return nil
}

// GetLatest returns the cached snapshot; ok is false on a cache miss.
func (r *RedisCache) GetLatest(ctx context.Context) (models.ReadingSnapshot, bool, error) {
	data, err := r.client.Get(ctx, LatestReadingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.ReadingSnapshot{}, false, nil
	}
	if err != nil {
		return models.ReadingSnapshot{}, false, fmt.Errorf("get latest reading: %w", err)
	}

	var snap models.ReadingSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.ReadingSnapshot{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, true, nil
}

// Close releases the connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
