package conversation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
)

const historyPrefix = "conversation:"

// ConversationHistory holds the message log of one conversation.
type ConversationHistory struct {
	Messages []*schema.Message `json:"messages"`
}

// Repository persists conversation histories keyed by conversation ID.
type Repository interface {
	Load(ctx context.Context, conversationID string) (*ConversationHistory, error)
	Save(ctx context.Context, conversationID string, history *ConversationHistory) error
	AddMessage(ctx context.Context, conversationID string, message *schema.Message) error
	GetContextForModel(ctx context.Context, conversationID string, strategy ContextStrategy) (string, error)
}

// ----------------------------------------------------
// Redis repository
// ----------------------------------------------------

// RedisRepository stores histories under conversation:<id> keys with a
// sliding TTL.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(ctx context.Context, ttl time.Duration) (*RedisRepository, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRepository{
		client: client,
		ttl:    ttl,
	}, nil
}

func (r *RedisRepository) Load(ctx context.Context, conversationID string) (*ConversationHistory, error) {
	key := historyPrefix + conversationID
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &ConversationHistory{Messages: []*schema.Message{}}, nil
		}
		return nil, err
	}

	var history ConversationHistory
	if err := sonic.Unmarshal([]byte(data), &history); err != nil {
		return nil, err
	}

	// Reading keeps the conversation alive.
	r.client.Expire(ctx, key, r.ttl)
	return &history, nil
}

func (r *RedisRepository) Save(ctx context.Context, conversationID string, history *ConversationHistory) error {
	key := historyPrefix + conversationID
	data, err := sonic.Marshal(history)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *RedisRepository) AddMessage(ctx context.Context, conversationID string, message *schema.Message) error {
	history, err := r.Load(ctx, conversationID)
	if err != nil {
		return err
	}

	history.Messages = append(history.Messages, message)
	return r.Save(ctx, conversationID, history)
}

func (r *RedisRepository) GetContextForModel(ctx context.Context, conversationID string, strategy ContextStrategy) (string, error) {
	history, err := r.Load(ctx, conversationID)
	if err != nil {
		return "", err
	}

	return strategy.BuildContext(history.Messages), nil
}

// ----------------------------------------------------
// In-memory repository
// ----------------------------------------------------

// MemoryRepository keeps histories in process memory for setups without
// Redis. Histories live until the process exits.
type MemoryRepository struct {
	mu        sync.RWMutex
	histories map[string]*ConversationHistory
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{histories: make(map[string]*ConversationHistory)}
}

func (r *MemoryRepository) Load(_ context.Context, conversationID string) (*ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history, ok := r.histories[conversationID]
	if !ok {
		return &ConversationHistory{Messages: []*schema.Message{}}, nil
	}

	out := &ConversationHistory{Messages: make([]*schema.Message, len(history.Messages))}
	copy(out.Messages, history.Messages)
	return out, nil
}

func (r *MemoryRepository) Save(_ context.Context, conversationID string, history *ConversationHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := &ConversationHistory{Messages: make([]*schema.Message, len(history.Messages))}
	copy(stored.Messages, history.Messages)
	r.histories[conversationID] = stored
	return nil
}

func (r *MemoryRepository) AddMessage(ctx context.Context, conversationID string, message *schema.Message) error {
	history, err := r.Load(ctx, conversationID)
	if err != nil {
		return err
	}

	history.Messages = append(history.Messages, message)
	return r.Save(ctx, conversationID, history)
}

func (r *MemoryRepository) GetContextForModel(ctx context.Context, conversationID string, strategy ContextStrategy) (string, error) {
	history, err := r.Load(ctx, conversationID)
	if err != nil {
		return "", err
	}

	return strategy.BuildContext(history.Messages), nil
}
