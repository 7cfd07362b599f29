package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultCapacity bounds the in-memory cache; the oldest entry is evicted
// when a write would exceed it.
const DefaultCapacity = 256

type memoryEntry struct {
	value     []byte
	storedAt  time.Time
	expiresAt time.Time
}

// Memory is a TTL plus capacity bounded in-process cache. Safe for
// concurrent use.
type Memory struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	capacity int
	now      func() time.Time
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		entries:  make(map[string]memoryEntry),
		capacity: capacity,
		now:      time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, time.Time{}, false
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, time.Time{}, false
	}
	return entry.value, entry.storedAt, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, retain time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.capacity {
		m.evictOldestLocked()
	}
	m.entries[key] = memoryEntry{value: value, storedAt: now, expiresAt: now.Add(retain)}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) Invalidate(_ context.Context, predicate func(string) bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if predicate(key) {
			delete(m.entries, key)
		}
	}
	return nil
}

// Len reports the live entry count. Intended for tests.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) sweepLocked(now time.Time) {
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
}

func (m *Memory) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range m.entries {
		if oldestKey == "" || entry.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.storedAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}
