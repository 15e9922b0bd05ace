package storage

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository used in tests and as a
// fallback when no durable backend is configured.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
	notifier
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

// Get returns the value for key, or ErrNotFound.
func (r *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	value, ok := r.data[key]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set writes the value for key.
func (r *MemoryRepository) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	r.mu.Lock()
	r.data[key] = stored
	r.mu.Unlock()
	r.notify(key, stored)
	return nil
}
