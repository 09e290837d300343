package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend keeps collections in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

// Read implements Backend.
func (b *MemoryBackend) Read(_ context.Context, name string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.docs[name]), nil
}

// Write implements Backend.
func (b *MemoryBackend) Write(_ context.Context, name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.docs[name] = slices.Clone(data)
	return nil
}

// Close implements Backend.
func (b *MemoryBackend) Close() error {
	return nil
}
