package product

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalid wraps validation failures from Create and Update.
var ErrInvalid = errors.New("invalid product")

// ServiceInterface is the catalog surface other packages depend on.
type ServiceInterface interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (Product, error)
	ListByIDs(ctx context.Context, ids []int) ([]Product, error)
}

type Service struct {
	repo Repository
}

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByIDs(ctx context.Context, ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ctx, ids)
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	if errs := Validate(p); len(errs) > 0 {
		return Product{}, fmt.Errorf("%w: %v", ErrInvalid, errs)
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id int, p Product) (Product, error) {
	if errs := Validate(p); len(errs) > 0 {
		return Product{}, fmt.Errorf("%w: %v", ErrInvalid, errs)
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// ResetProducts replaces all products with the given list (used for dev / seeding).
func (s *Service) ResetProducts(ctx context.Context, products []Product) error {
	return s.repo.Reset(ctx, products)
}

// Validate returns field errors keyed by JSON field name.
func Validate(p Product) map[string]string {
	errs := map[string]string{}
	if p.Name == "" {
		errs["name"] = "name is required"
	}
	if len(p.Name) > 200 {
		errs["name"] = "name must be at most 200 characters"
	}
	if p.Price.IsNegative() {
		errs["price"] = "price must be >= 0"
	}
	if p.Price.Exponent() < -2 && !p.Price.Equal(p.Price.Round(2)) {
		errs["price"] = "price must have at most 2 decimal places"
	}
	return errs
}
