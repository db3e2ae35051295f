package indexcache

import (
	"context"
	"sync"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// MemoryStore keeps bundles in process memory. Useful for tests and local dev.
type MemoryStore struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

// NewMemoryStore constructs the store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[string][]byte)}
}

// Load implements faq.IndexStore.
func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.payloads[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

// Save implements faq.IndexStore.
func (s *MemoryStore) Save(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[key] = append([]byte(nil), payload...)
	return nil
}

// NoopStore never persists anything; every load is a miss.
type NoopStore struct{}

// Load implements faq.IndexStore.
func (NoopStore) Load(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Save implements faq.IndexStore.
func (NoopStore) Save(context.Context, string, []byte) error { return nil }

var (
	_ faq.IndexStore = (*MemoryStore)(nil)
	_ faq.IndexStore = NoopStore{}
)
