package product

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/wichananm65/rior-backend/internal/store"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (Product, error)
	// ListByIDs returns the products whose id is in ids, ordered by id.
	// Ids without a product are skipped, never reported.
	ListByIDs(ctx context.Context, ids []int) ([]Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id int, p Product) (Product, error)
	Delete(ctx context.Context, id int) error
	// Reset replaces all products with the provided list (used for dev / seeding)
	Reset(ctx context.Context, products []Product) error
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// seeding local data. Like the Postgres join, reads attach the store named by
// StoreID when it is one of the stores given to NewInMemoryRepository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage map[int]Product
	stores  map[int]store.Store
	nextID  int
}

func NewInMemoryRepository(seed []Product, stores ...store.Store) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make(map[int]Product, len(seed)),
		stores:  make(map[int]store.Store, len(stores)),
		nextID:  1,
	}
	for _, s := range stores {
		r.stores[s.ID] = s
	}
	_ = r.Reset(context.Background(), seed)
	return r
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(Product) bool { return true }), nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.storage[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return r.withStoreLocked(p), nil
}

func (r *InMemoryRepository) ListByIDs(ctx context.Context, ids []int) ([]Product, error) {
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(p Product) bool {
		_, ok := want[p.ID]
		return ok
	}), nil
}

func (r *InMemoryRepository) Create(ctx context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.nextID
	}
	if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	r.storage[p.ID] = p
	return r.withStoreLocked(p), nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id int, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return Product{}, ErrNotFound
	}
	p.ID = id
	r.storage[id] = p
	return r.withStoreLocked(p), nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return ErrNotFound
	}
	delete(r.storage, id)
	return nil
}

// Reset replaces the whole in-memory storage with the provided products.
func (r *InMemoryRepository) Reset(ctx context.Context, products []Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = make(map[int]Product, len(products))
	for _, p := range products {
		if p.ID == 0 {
			p.ID = r.nextID
		}
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
		r.storage[p.ID] = p
	}
	return nil
}

func (r *InMemoryRepository) sortedLocked(keep func(Product) bool) []Product {
	out := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if keep(p) {
			out = append(out, r.withStoreLocked(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *InMemoryRepository) withStoreLocked(p Product) Product {
	if p.Store != nil || p.StoreID == nil {
		return p
	}
	if s, ok := r.stores[*p.StoreID]; ok {
		p.Store = &s
	}
	return p
}
