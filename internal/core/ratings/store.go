// Package ratings keeps Elo standings for the agents fighting in an
// arena, behind a pluggable store.
package ratings

import (
	"context"
	"sync"
)

// Store persists ratings keyed by agent id.
type Store interface {
	// Get returns the stored rating; ok is false when the agent has no
	// entry yet.
	Get(ctx context.Context, id string) (rating float64, ok bool, err error)
	Put(ctx context.Context, id string, rating float64) error
	All(ctx context.Context) (map[string]float64, error)
	Close() error
}

// MemoryStore keeps ratings in process memory. Useful for tests and for
// throwaway series runs.
type MemoryStore struct {
	mu      sync.RWMutex
	ratings map[string]float64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ratings: make(map[string]float64)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rating, ok := s.ratings[id]
	return rating, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, id string, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[id] = rating
	return nil
}

func (s *MemoryStore) All(_ context.Context) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.ratings))
	for id, rating := range s.ratings {
		out[id] = rating
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
