package store

import "context"

// Service provides business logic for store endpoints.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List(ctx context.Context) ([]Store, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int) (Store, error) {
	return s.repo.GetByID(ctx, id)
}
