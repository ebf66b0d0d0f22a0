package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("store not found")

// Repository provides access to stores.
type Repository interface {
	List(ctx context.Context) ([]Store, error)
	GetByID(ctx context.Context, id int) (Store, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	stores map[int]Store
}

func NewInMemoryRepository(seed []Store) *InMemoryRepository {
	r := &InMemoryRepository{stores: make(map[int]Store, len(seed))}
	for _, s := range seed {
		r.stores[s.ID] = s
	}
	return r
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Store, 0, len(r.stores))
	for _, s := range r.stores {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stores[id]
	if !ok {
		return Store{}, ErrNotFound
	}
	return s, nil
}
