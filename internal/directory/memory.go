package directory

import (
	"context"
	"sync"
)

// MemoryStore is the default directory backend: a mutex-guarded map that
// lives and dies with the process.
type MemoryStore struct {
	mu   sync.RWMutex
	keys map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string][]byte)}
}

func (s *MemoryStore) Publish(_ context.Context, userLabel string, publicKey []byte) error {
	key := make([]byte, len(publicKey))
	copy(key, publicKey)

	s.mu.Lock()
	s.keys[userLabel] = key
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, userLabel string) ([]byte, error) {
	s.mu.RLock()
	key, ok := s.keys[userLabel]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrUserNotFound
	}
	out := make([]byte, len(key))
	copy(out, key)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
