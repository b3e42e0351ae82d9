package catalog

import (
	"context"
	"sync"
)

// MemStore holds the catalog in process memory. Used in tests and dev runs.
type MemStore struct {
	mu sync.RWMutex
	c  Catalog
}

func NewMemStore() *MemStore {
	return &MemStore{c: EmptyCatalog()}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Load(ctx context.Context) Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.c
	out.Cars = make([]Listing, len(s.c.Cars))
	copy(out.Cars, s.c.Cars)
	return out
}

func (s *MemStore) Save(ctx context.Context, c Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.c = normalize(c)
	return nil
}
