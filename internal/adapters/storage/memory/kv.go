package memory

import (
	"context"
	"sync"

	"plan-timeline/internal/ports/kv"
)

type kvStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewKVStore is the in-memory persistence backend for timelines. Data lives
// for the process lifetime only; good enough for dev and tests.
func NewKVStore() kv.Store {
	return &kvStore{
		data: make(map[string]string),
	}
}

func (s *kvStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok, nil
}

func (s *kvStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}
