package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemorySessionStore is an in-process session store used when Redis is
// unavailable. Values go through the same serialization as the Redis
// store so both behave identically.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessionStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Set stores a session value with an explicit TTL.
func (m *MemorySessionStore) Set(_ context.Context, sessionID string, data any, ttl time.Duration) error {
	payload, err := sonic.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sessionID] = memoryEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	return nil
}

// SetSession stores a session value with the store's default TTL.
func (m *MemorySessionStore) SetSession(ctx context.Context, sessionID string, data any) error {
	return m.Set(ctx, sessionID, data, m.ttl)
}

// Get loads a session value into dest.
func (m *MemorySessionStore) Get(_ context.Context, sessionID string, dest any) error {
	m.mu.RLock()
	entry, ok := m.entries[sessionID]
	m.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}

	if err := sonic.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return nil
}

// GetAndTouch loads a session value and refreshes its TTL.
func (m *MemorySessionStore) GetAndTouch(_ context.Context, sessionID string, dest any) error {
	m.mu.Lock()
	entry, ok := m.entries[sessionID]
	if ok && time.Now().After(entry.expiresAt) {
		delete(m.entries, sessionID)
		ok = false
	}
	if ok {
		entry.expiresAt = time.Now().Add(m.ttl)
		m.entries[sessionID] = entry
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}

	if err := sonic.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return nil
}

// Delete removes a session.
func (m *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}

// Exists reports whether a live session is stored.
func (m *MemorySessionStore) Exists(_ context.Context, sessionID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[sessionID]
	return ok && time.Now().Before(entry.expiresAt), nil
}

// ExtendTTL pushes the session expiry out by ttl from now.
func (m *MemorySessionStore) ExtendTTL(_ context.Context, sessionID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	entry.expiresAt = time.Now().Add(ttl)
	m.entries[sessionID] = entry
	return nil
}

// Ping always succeeds for the in-process store.
func (m *MemorySessionStore) Ping(_ context.Context) error {
	return nil
}

// Close drops all sessions.
func (m *MemorySessionStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}
