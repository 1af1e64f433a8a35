package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const statePrefix = "luna:state:"

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Connect parses a redis:// URL and verifies the connection.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// RedisStorage keeps small JSON documents, such as emotional state snapshots, in Redis
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage wraps an existing client. ttl <= 0 keeps keys forever.
func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func (r *RedisStorage) key(id string) string {
	return statePrefix + id
}

// Set stores data under id with the storage TTL
func (r *RedisStorage) Set(ctx context.Context, id string, data any) error {
	payload, err := sonic.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.key(id), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set data: %w", err)
	}
	return nil
}

// Get decodes the document stored under id into dest
func (r *RedisStorage) Get(ctx context.Context, id string, dest any) error {
	payload, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to get data: %w", err)
	}

	if err := sonic.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return nil
}

// Delete removes the document stored under id
func (r *RedisStorage) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete data: %w", err)
	}
	return nil
}

// GetTTL gets remaining TTL for a document
func (r *RedisStorage) GetTTL(ctx context.Context, id string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, r.key(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get TTL: %w", err)
	}
	return ttl, nil
}

// Ping tests Redis connection
func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
