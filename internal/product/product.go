package product

import (
	"github.com/shopspring/decimal"
	"github.com/wichananm65/rior-backend/internal/store"
)

// Product is a catalog entry. Prices are exact decimals with two places.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    *string         `json:"category,omitempty"`
	Brand       *string         `json:"brand,omitempty"`
	Dimensions  *string         `json:"dimensions,omitempty"`
	Image       *string         `json:"image,omitempty"`
	StoreID     *int            `json:"store_id,omitempty"`

	// Store is populated by repositories when StoreID resolves.
	Store *store.Store `json:"-"`
}

// StoreName returns the name of the product's store, or nil without one.
func (p Product) StoreName() *string {
	if p.Store == nil {
		return nil
	}
	name := p.Store.Name
	return &name
}

// Response is the client-facing product shape.
type Response struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Image       *string `json:"image"`
	Category    *string `json:"category,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	Dimensions  *string `json:"dimensions,omitempty"`
	StoreName   *string `json:"store_name"`
	StoreIcon   *string `json:"store_icon"`
}

func (p Product) ToResponse() Response {
	r := Response{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       FormatPrice(p.Price),
		Image:       p.Image,
		Category:    p.Category,
		Brand:       p.Brand,
		Dimensions:  p.Dimensions,
		StoreName:   p.StoreName(),
	}
	if p.Store != nil {
		r.StoreIcon = p.Store.Logo
	}
	return r
}

// FormatPrice renders a price with exactly two decimal places.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
