package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "conversation:"
	usersKey  = "conversation:users"
)

// RedisRepository keeps each context as a Redis list of JSON encoded messages
type RedisRepository struct {
	client      *redis.Client
	ttl         time.Duration
	maxMessages int
}

func NewRedisRepository(client *redis.Client, maxMessages int, ttl time.Duration) *RedisRepository {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &RedisRepository{
		client:      client,
		ttl:         ttl,
		maxMessages: maxMessages,
	}
}

func (r *RedisRepository) key(userID string) string {
	return keyPrefix + userID
}

// Append pushes and trims in one MULTI/EXEC so readers never see an untrimmed list.
func (r *RedisRepository) Append(ctx context.Context, userID string, messages ...*schema.Message) error {
	if len(messages) == 0 {
		return nil
	}

	entries := make([]any, 0, len(messages))
	for _, msg := range messages {
		data, err := sonic.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		entries = append(entries, data)
	}

	key := r.key(userID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, entries...)
		pipe.LTrim(ctx, key, int64(-r.maxMessages), -1)
		pipe.SAdd(ctx, usersKey, userID)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append messages: %w", err)
	}
	return nil
}

func (r *RedisRepository) Recent(ctx context.Context, userID string, n int) ([]*schema.Message, error) {
	start := int64(0)
	if n > 0 {
		start = int64(-n)
	}

	raw, err := r.client.LRange(ctx, r.key(userID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	messages := make([]*schema.Message, 0, len(raw))
	for _, item := range raw {
		var msg schema.Message
		if err := sonic.UnmarshalString(item, &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history: %w", err)
		}
		messages = append(messages, &msg)
	}
	return messages, nil
}

func (r *RedisRepository) Length(ctx context.Context, userID string) (int, error) {
	n, err := r.client.LLen(ctx, r.key(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read history length: %w", err)
	}
	return int(n), nil
}

func (r *RedisRepository) Users(ctx context.Context) (int, error) {
	n, err := r.client.SCard(ctx, usersKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return int(n), nil
}

func (r *RedisRepository) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
