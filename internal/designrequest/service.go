package designrequest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/rior-backend/internal/metrics"
	"github.com/wichananm65/rior-backend/internal/normalize"
	"github.com/wichananm65/rior-backend/internal/product"
	"github.com/wichananm65/rior-backend/internal/recommendation"
	"github.com/wichananm65/rior-backend/internal/slug"
	"go.uber.org/zap"
)

// ErrInvalidInput wraps submissions rejected before any side effect.
var ErrInvalidInput = errors.New("invalid design request")

const defaultSlugRetries = 3

// FileStore persists uploaded images.
type FileStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(path string) error
}

// Submission is a validated creation request.
type Submission struct {
	Name          *string
	FloorPlan     *multipart.FileHeader
	InteriorPhoto *multipart.FileHeader
	DoorHeight    float64
	CeilingHeight float64
}

// Result is a stored request with its catalog view resolved.
type Result struct {
	Request    DesignRequest
	Products   []normalize.EnrichedProduct
	TotalPrice decimal.Decimal
}

type Service struct {
	repo        Repository
	products    product.ServiceInterface
	recommender recommendation.Recommender
	files       FileStore
	log         *zap.Logger

	newSlug     func() string
	slugRetries int
}

type Option func(*Service)

// WithSlugRetries sets how many times a colliding slug is regenerated.
func WithSlugRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.slugRetries = n
		}
	}
}

// WithSlugGenerator replaces slug.Generate.
func WithSlugGenerator(gen func() string) Option {
	return func(s *Service) { s.newSlug = gen }
}

func NewService(repo Repository, products product.ServiceInterface, rec recommendation.Recommender, files FileStore, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		products:    products,
		recommender: rec,
		files:       files,
		log:         log,
		newSlug:     slug.Generate,
		slugRetries: defaultSlugRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores the uploads, asks the recommender for a payload and persists
// the request with the catalog products the payload refers to.
func (s *Service) Create(ctx context.Context, sub Submission) (DesignRequest, error) {
	if errs := sub.Validate(); len(errs) > 0 {
		return DesignRequest{}, fmt.Errorf("%w: %v", ErrInvalidInput, errs)
	}

	var stored []string
	cleanup := func() {
		for _, p := range stored {
			if err := s.files.Remove(p); err != nil {
				s.log.Warn("remove orphaned upload", zap.String("path", p), zap.Error(err))
			}
		}
	}

	floorPlan, err := s.files.Save(sub.FloorPlan)
	if err != nil {
		return DesignRequest{}, fmt.Errorf("store floor plan: %w", err)
	}
	stored = append(stored, floorPlan)
	interior, err := s.files.Save(sub.InteriorPhoto)
	if err != nil {
		cleanup()
		return DesignRequest{}, fmt.Errorf("store interior photo: %w", err)
	}
	stored = append(stored, interior)

	dr, err := s.build(ctx, sub, floorPlan, interior)
	if err != nil {
		cleanup()
		return DesignRequest{}, err
	}

	created, err := s.persist(ctx, dr)
	if err != nil {
		cleanup()
		return DesignRequest{}, err
	}
	metrics.DesignRequestsCreated.Inc()
	s.log.Info("design request created",
		zap.String("slug", created.Slug),
		zap.Int("linked_products", len(created.ProductIDs)),
	)
	return created, nil
}

func (s *Service) build(ctx context.Context, sub Submission, floorPlan, interior string) (DesignRequest, error) {
	payload, err := s.recommender.Recommend(ctx, recommendation.Request{
		FloorPlan:     floorPlan,
		InteriorPhoto: interior,
		DoorHeight:    sub.DoorHeight,
		CeilingHeight: sub.CeilingHeight,
	})
	if err != nil {
		return DesignRequest{}, fmt.Errorf("recommend: %w", err)
	}
	raw, err := payload.Encode()
	if err != nil {
		return DesignRequest{}, fmt.Errorf("encode payload: %w", err)
	}

	ids := normalize.ExtractReferencedIDs(payload)
	linked, err := s.products.ListByIDs(ctx, ids.Sorted())
	if err != nil {
		return DesignRequest{}, fmt.Errorf("resolve payload products: %w", err)
	}
	if missing := normalize.Unresolved(ids, normalize.NewCatalog(linked)); len(missing) > 0 {
		metrics.UnresolvedProductIDs.Add(float64(len(missing)))
		s.log.Debug("payload references unknown products", zap.Ints("ids", missing))
	}
	productIDs := make([]int, 0, len(linked))
	for _, p := range linked {
		productIDs = append(productIDs, p.ID)
	}

	geo := normalize.DeriveGeometry(payload, sub.CeilingHeight)
	return DesignRequest{
		Name:          sub.Name,
		FloorPlan:     floorPlan,
		InteriorPhoto: interior,
		DoorHeight:    sub.DoorHeight,
		CeilingHeight: sub.CeilingHeight,
		Area:          &geo.Area,
		Perimeter:     &geo.Perimeter,
		WallArea:      &geo.WallArea,
		Payload:       raw,
		DesignImage:   payload.DesignImage,
		ProductIDs:    productIDs,
	}, nil
}

// persist tries a fresh slug on every unique-constraint collision, giving up
// after slugRetries regenerations.
func (s *Service) persist(ctx context.Context, dr DesignRequest) (DesignRequest, error) {
	for attempt := 0; attempt <= s.slugRetries; attempt++ {
		dr.Slug = s.newSlug()
		created, err := s.repo.Create(ctx, dr)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, ErrSlugTaken) {
			return DesignRequest{}, err
		}
		metrics.SlugCollisions.Inc()
		s.log.Warn("slug collision", zap.String("slug", dr.Slug), zap.Int("attempt", attempt+1))
	}
	return DesignRequest{}, fmt.Errorf("%w after %d attempts", ErrSlugTaken, s.slugRetries+1)
}

// Get loads a request and resolves its products against the live catalog.
func (s *Service) Get(ctx context.Context, slugValue string) (Result, error) {
	dr, err := s.repo.GetBySlug(ctx, slugValue)
	if err != nil {
		return Result{}, err
	}

	payload := recommendation.Payload{}
	if len(dr.Payload) > 0 {
		// stored payloads were encoded by us; a decode failure means no related products
		if p, err := recommendation.Decode(dr.Payload); err == nil {
			payload = p
		} else {
			s.log.Warn("stored payload unreadable", zap.String("slug", dr.Slug), zap.Error(err))
		}
	}

	want := normalize.ExtractReferencedIDs(payload)
	for _, id := range dr.ProductIDs {
		want.Add(id)
	}
	fetched, err := s.products.ListByIDs(ctx, want.Sorted())
	if err != nil {
		return Result{}, fmt.Errorf("load catalog for %q: %w", dr.Slug, err)
	}
	catalog := normalize.NewCatalog(fetched)

	linked := make([]product.Product, 0, len(dr.ProductIDs))
	for _, id := range dr.ProductIDs {
		if p, ok := catalog.Lookup(id); ok {
			linked = append(linked, p)
		}
	}

	return Result{
		Request:    dr,
		Products:   normalize.Enrich(payload, linked, catalog),
		TotalPrice: normalize.TotalPrice(linked),
	}, nil
}

func (s *Service) List(ctx context.Context) ([]DesignRequest, error) {
	return s.repo.List(ctx)
}

// Validate returns field errors keyed by form field name.
func (sub Submission) Validate() map[string]string {
	errs := map[string]string{}
	if sub.FloorPlan == nil {
		errs["floor_plan"] = "floor_plan is required"
	}
	if sub.InteriorPhoto == nil {
		errs["interior_photo"] = "interior_photo is required"
	}
	if !positiveFinite(sub.DoorHeight) {
		errs["door_height"] = "door_height must be greater than 0"
	}
	if !positiveFinite(sub.CeilingHeight) {
		errs["ceiling_height"] = "ceiling_height must be greater than 0"
	}
	if sub.Name != nil && len(*sub.Name) > 255 {
		errs["name"] = "name must be at most 255 characters"
	}
	return errs
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
