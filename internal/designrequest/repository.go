package designrequest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("design request not found")
	// ErrSlugTaken reports a slug unique-constraint violation. Nothing is
	// persisted when it is returned, so the caller may retry with a new slug.
	ErrSlugTaken = errors.New("design request slug already taken")
)

// Repository persists design requests.
type Repository interface {
	// Create stores dr and links it to dr.ProductIDs atomically. It fills in
	// the generated ID and CreatedAt and the ids that were actually linked.
	Create(ctx context.Context, dr DesignRequest) (DesignRequest, error)
	GetBySlug(ctx context.Context, slug string) (DesignRequest, error)
	// List returns all requests newest first, without product links.
	List(ctx context.Context) ([]DesignRequest, error)
}

// InMemoryRepository keeps requests in process memory, for tests and local runs.
type InMemoryRepository struct {
	mu     sync.RWMutex
	bySlug map[string]DesignRequest
	nextID int
	now    func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		bySlug: map[string]DesignRequest{},
		nextID: 1,
		now:    time.Now,
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, dr DesignRequest) (DesignRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.bySlug[dr.Slug]; taken {
		return DesignRequest{}, ErrSlugTaken
	}
	dr.ID = r.nextID
	r.nextID++
	dr.CreatedAt = r.now().UTC()
	dr.ProductIDs = sortedCopy(dr.ProductIDs)
	r.bySlug[dr.Slug] = dr
	return dr, nil
}

func (r *InMemoryRepository) GetBySlug(ctx context.Context, slug string) (DesignRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dr, ok := r.bySlug[slug]
	if !ok {
		return DesignRequest{}, ErrNotFound
	}
	dr.ProductIDs = sortedCopy(dr.ProductIDs)
	return dr, nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]DesignRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DesignRequest, 0, len(r.bySlug))
	for _, dr := range r.bySlug {
		dr.ProductIDs = nil
		out = append(out, dr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func sortedCopy(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
