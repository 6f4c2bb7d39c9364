package store

import (
	"context"
	"sort"
	"sync"

	"github.com/muurk/catalog/internal/productapi"
)

// MemoryStore keeps products in a map. Ids are never reused.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]productapi.Product
	nextID   int64
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]productapi.Product),
		nextID:   1,
	}
}

func (s *MemoryStore) sorted(keep func(productapi.Product) bool) []productapi.Product {
	out := make([]productapi.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) List(ctx context.Context) ([]productapi.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(productapi.Product) bool { return true }), nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (productapi.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return productapi.Product{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) Search(ctx context.Context, name string) ([]productapi.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(p productapi.Product) bool { return matchesName(p.Name, name) }), nil
}

func (s *MemoryStore) Create(ctx context.Context, draft productapi.Draft) (productapi.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := draft.WithID(s.nextID)
	s.nextID++
	s.products[p.ID] = p
	return p, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, draft productapi.Draft) (productapi.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return productapi.Product{}, ErrNotFound
	}
	p := draft.WithID(id)
	s.products[id] = p
	return p, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
