package conversation

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"
)

// DefaultMaxMessages keeps the last 16 exchanges per user.
const DefaultMaxMessages = 32

// Repository stores the per-user message context, trimmed on every write.
type Repository interface {
	Append(ctx context.Context, userID string, messages ...*schema.Message) error
	// Recent returns the last n messages in order, or all of them when n <= 0.
	Recent(ctx context.Context, userID string, n int) ([]*schema.Message, error)
	Length(ctx context.Context, userID string) (int, error)
	Users(ctx context.Context) (int, error)
	HealthCheck(ctx context.Context) error
}

// MemoryRepository keeps contexts in process memory
type MemoryRepository struct {
	mu          sync.RWMutex
	maxMessages int
	contexts    map[string][]*schema.Message
}

func NewMemoryRepository(maxMessages int) *MemoryRepository {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &MemoryRepository{
		maxMessages: maxMessages,
		contexts:    make(map[string][]*schema.Message),
	}
}

func (r *MemoryRepository) Append(_ context.Context, userID string, messages ...*schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := append(r.contexts[userID], messages...)
	if len(history) > r.maxMessages {
		history = append([]*schema.Message(nil), trimTail(history, r.maxMessages)...)
	}
	r.contexts[userID] = history
	return nil
}

func (r *MemoryRepository) Recent(_ context.Context, userID string, n int) ([]*schema.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.contexts[userID]
	if n > 0 {
		history = trimTail(history, n)
	}
	return append([]*schema.Message{}, history...), nil
}

func (r *MemoryRepository) Length(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contexts[userID]), nil
}

func (r *MemoryRepository) Users(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contexts), nil
}

func (r *MemoryRepository) HealthCheck(context.Context) error {
	return nil
}
