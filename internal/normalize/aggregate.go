package normalize

import (
	"github.com/shopspring/decimal"
	"github.com/wichananm65/rior-backend/internal/product"
	"github.com/wichananm65/rior-backend/internal/recommendation"
)

// TotalPrice sums catalog prices exactly. No products sum to zero.
func TotalPrice(products []product.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total
}

// Geometry holds the room measurements stored with a design request.
type Geometry struct {
	Area      float64
	Perimeter float64
	WallArea  float64
}

// DeriveGeometry fills in measurements the payload left out. Area and
// perimeter default to zero; wall area defaults to perimeter times ceiling
// height.
func DeriveGeometry(p recommendation.Payload, ceilingHeight float64) Geometry {
	var g Geometry
	if p.Area != nil {
		g.Area = *p.Area
	}
	if p.Perimeter != nil {
		g.Perimeter = *p.Perimeter
	}
	if p.WallArea != nil {
		g.WallArea = *p.WallArea
	} else {
		g.WallArea = g.Perimeter * ceilingHeight
	}
	return g
}

// EnrichedProduct is a linked product together with its related products.
type EnrichedProduct struct {
	product.Product
	Related []RelatedProduct
}

// Enrich annotates every linked product with the related products the payload
// lists for it. Linked order is preserved.
func Enrich(p recommendation.Payload, linked []product.Product, catalog Catalog) []EnrichedProduct {
	resolver := NewResolver(p, catalog)
	out := make([]EnrichedProduct, 0, len(linked))
	for _, lp := range linked {
		out = append(out, EnrichedProduct{Product: lp, Related: resolver.Related(lp.ID)})
	}
	return out
}
