package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultSessionTTL is how long an idle session survives when no TTL
	// is configured.
	DefaultSessionTTL = 60 * time.Minute

	sessionPrefix = "session:"
)

// ErrNotFound reports a missing or expired session.
var ErrNotFound = errors.New("session not found")

// RedisSessionStore keeps session snapshots in Redis under session:<id>
// keys, each with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore connects to the Redis named by REDIS_URL and
// verifies the connection.
func NewRedisSessionStore(ctx context.Context, ttl time.Duration) (*RedisSessionStore, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &RedisSessionStore{client: client, ttl: ttl}, nil
}

func (r *RedisSessionStore) key(sessionID string) string {
	return sessionPrefix + sessionID
}

// Set stores a session value with an explicit TTL.
func (r *RedisSessionStore) Set(ctx context.Context, sessionID string, data any, ttl time.Duration) error {
	payload, err := sonic.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := r.client.Set(ctx, r.key(sessionID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session data: %w", err)
	}

	return nil
}

// SetSession stores a session value with the store's default TTL.
func (r *RedisSessionStore) SetSession(ctx context.Context, sessionID string, data any) error {
	return r.Set(ctx, sessionID, data, r.ttl)
}

// Get loads a session value into dest.
func (r *RedisSessionStore) Get(ctx context.Context, sessionID string, dest any) error {
	payload, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
		}
		return fmt.Errorf("failed to get session data: %w", err)
	}

	if err := sonic.Unmarshal([]byte(payload), dest); err != nil {
		return fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return nil
}

// GetAndTouch loads a session value and refreshes its TTL in one call.
func (r *RedisSessionStore) GetAndTouch(ctx context.Context, sessionID string, dest any) error {
	cmd := r.client.Do(ctx, "GETEX", r.key(sessionID), "EX", int64(r.ttl/time.Second))
	payload, err := cmd.Text()
	if err != nil {
		if errors.Is(err, redis.Nil) || payload == "" {
			return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
		}
		return fmt.Errorf("failed to GETEX: %w", err)
	}

	if err := sonic.Unmarshal([]byte(payload), dest); err != nil {
		return fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return nil
}

// Delete removes a session.
func (r *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Exists reports whether a session is stored.
func (r *RedisSessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	count, err := r.client.Exists(ctx, r.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}
	return count > 0, nil
}

// ExtendTTL pushes the session expiry out by ttl from now.
func (r *RedisSessionStore) ExtendTTL(ctx context.Context, sessionID string, ttl time.Duration) error {
	if err := r.client.Expire(ctx, r.key(sessionID), ttl).Err(); err != nil {
		return fmt.Errorf("failed to extend TTL: %w", err)
	}
	return nil
}

// GetTTL returns the remaining lifetime of a session.
func (r *RedisSessionStore) GetTTL(ctx context.Context, sessionID string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, r.key(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get TTL: %w", err)
	}
	return ttl, nil
}

// Ping tests the Redis connection.
func (r *RedisSessionStore) Ping(ctx context.Context) error {
	_, err := r.client.Ping(ctx).Result()
	return err
}

// Close closes the Redis connection.
func (r *RedisSessionStore) Close() error {
	return r.client.Close()
}
