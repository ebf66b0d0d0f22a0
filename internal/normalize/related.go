package normalize

import (
	"github.com/shopspring/decimal"
	"github.com/wichananm65/rior-backend/internal/product"
	"github.com/wichananm65/rior-backend/internal/recommendation"
)

// Catalog is an id-indexed view of already fetched products.
type Catalog map[int]product.Product

func NewCatalog(products []product.Product) Catalog {
	c := make(Catalog, len(products))
	for _, p := range products {
		c[p.ID] = p
	}
	return c
}

func (c Catalog) Lookup(id int) (product.Product, bool) {
	p, ok := c[id]
	return p, ok
}

// RelatedProduct is a related entry resolved against the catalog. All display
// fields come from the catalog, never from the payload.
type RelatedProduct struct {
	ID    int
	Name  string
	Price decimal.Decimal
	Store *string
	Image *string
}

// Resolver answers related-product lookups for a single payload.
type Resolver struct {
	entries map[int]recommendation.Entry
	catalog Catalog
}

// NewResolver indexes the payload's top-level entries by id. When an id is
// repeated the first entry wins.
func NewResolver(p recommendation.Payload, catalog Catalog) *Resolver {
	entries := make(map[int]recommendation.Entry, len(p.Products))
	for _, e := range p.Products {
		if e.ID == nil {
			continue
		}
		if _, seen := entries[*e.ID]; !seen {
			entries[*e.ID] = e
		}
	}
	return &Resolver{entries: entries, catalog: catalog}
}

// Related returns the catalog records for the related products of productID,
// in payload order. Related ids missing from the catalog are dropped. An id
// with no top-level entry yields an empty slice.
func (r *Resolver) Related(productID int) []RelatedProduct {
	out := []RelatedProduct{}
	entry, ok := r.entries[productID]
	if !ok {
		return out
	}
	for _, rel := range entry.RelatedProducts {
		if rel.ID == nil {
			continue
		}
		p, ok := r.catalog.Lookup(*rel.ID)
		if !ok {
			continue
		}
		out = append(out, RelatedProduct{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Store: p.StoreName(),
			Image: p.Image,
		})
	}
	return out
}

// ResolveRelatedProducts is the one-shot form of NewResolver(...).Related.
func ResolveRelatedProducts(p recommendation.Payload, productID int, catalog Catalog) []RelatedProduct {
	return NewResolver(p, catalog).Related(productID)
}
