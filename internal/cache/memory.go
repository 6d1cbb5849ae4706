package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// memoryEntry holds a cached value and its expiry timestamp.
type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore implements Store with an in-process map. Expiry is enforced
// lazily on access; no background goroutine is started.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
	}
}

// Set stores a value under key with the given TTL.
func (m *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

// Get retrieves the value stored under key.
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}
	if entry.expired(time.Now()) {
		delete(m.entries, key)
		return "", ErrCacheMiss
	}
	return entry.value, nil
}

// Del removes the value stored under key.
func (m *MemoryStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// Incr increments the counter stored under key, initializing it to 1 if
// absent or expired. An existing TTL is preserved.
func (m *MemoryStore) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	entry, ok := m.entries[key]
	if !ok || entry.expired(now) {
		m.entries[key] = memoryEntry{value: "1"}
		return 1, nil
	}

	count, err := strconv.ParseInt(entry.value, 10, 64)
	if err != nil {
		return 0, ErrCacheMiss
	}

	count++
	entry.value = strconv.FormatInt(count, 10)
	m.entries[key] = entry
	return count, nil
}
