package designrequest

import (
	"strings"
	"time"

	"github.com/wichananm65/rior-backend/internal/media"
	"github.com/wichananm65/rior-backend/internal/normalize"
	"github.com/wichananm65/rior-backend/internal/product"
)

// Presenter shapes design requests for API responses.
type Presenter struct {
	baseURL string
}

func NewPresenter(publicBaseURL string) *Presenter {
	return &Presenter{baseURL: strings.TrimRight(publicBaseURL, "/")}
}

type RelatedProductResponse struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price string  `json:"price"`
	Store *string `json:"store"`
	Image *string `json:"image"`
}

type ProductResponse struct {
	product.Response
	RelatedProducts []RelatedProductResponse `json:"related_products"`
}

type ResultResponse struct {
	Name           *string           `json:"name"`
	Slug           string            `json:"slug"`
	CreatedAt      string            `json:"created_at"`
	DesignImageURL *string           `json:"design_image_url"`
	UniqueLink     string            `json:"unique_link"`
	Products       []ProductResponse `json:"products"`
	TotalPrice     string            `json:"total_price"`
	Area           *float64          `json:"area"`
	Perimeter      *float64          `json:"perimeter"`
	WallArea       *float64          `json:"wall_area"`
	DoorHeight     float64           `json:"door_height"`
	CeilingHeight  float64           `json:"ceiling_height"`
}

type ListItemResponse struct {
	Slug          string   `json:"slug"`
	Name          *string  `json:"name"`
	CreatedAt     string   `json:"created_at"`
	Area          *float64 `json:"area"`
	Perimeter     *float64 `json:"perimeter"`
	WallArea      *float64 `json:"wall_area"`
	DoorHeight    float64  `json:"door_height"`
	CeilingHeight float64  `json:"ceiling_height"`
}

func (p *Presenter) ToResult(r Result) ResultResponse {
	dr := r.Request
	products := make([]ProductResponse, 0, len(r.Products))
	for _, ep := range r.Products {
		products = append(products, toProductResponse(ep))
	}
	return ResultResponse{
		Name:           dr.Name,
		Slug:           dr.Slug,
		CreatedAt:      dr.CreatedAt.Format(time.RFC3339),
		DesignImageURL: designImageURL(dr.DesignImage),
		UniqueLink:     p.UniqueLink(dr.Slug),
		Products:       products,
		TotalPrice:     product.FormatPrice(r.TotalPrice),
		Area:           dr.Area,
		Perimeter:      dr.Perimeter,
		WallArea:       dr.WallArea,
		DoorHeight:     dr.DoorHeight,
		CeilingHeight:  dr.CeilingHeight,
	}
}

func (p *Presenter) ToList(items []DesignRequest) []ListItemResponse {
	out := make([]ListItemResponse, 0, len(items))
	for _, dr := range items {
		out = append(out, ListItemResponse{
			Slug:          dr.Slug,
			Name:          dr.Name,
			CreatedAt:     dr.CreatedAt.Format(time.RFC3339),
			Area:          dr.Area,
			Perimeter:     dr.Perimeter,
			WallArea:      dr.WallArea,
			DoorHeight:    dr.DoorHeight,
			CeilingHeight: dr.CeilingHeight,
		})
	}
	return out
}

// UniqueLink is the absolute URL of a request's result view.
func (p *Presenter) UniqueLink(slug string) string {
	return p.baseURL + "/api/design-requests/" + slug
}

func toProductResponse(ep normalize.EnrichedProduct) ProductResponse {
	related := make([]RelatedProductResponse, 0, len(ep.Related))
	for _, rp := range ep.Related {
		related = append(related, RelatedProductResponse{
			ID:    rp.ID,
			Name:  rp.Name,
			Price: product.FormatPrice(rp.Price),
			Store: rp.Store,
			Image: rp.Image,
		})
	}
	return ProductResponse{Response: ep.Product.ToResponse(), RelatedProducts: related}
}

// designImageURL leaves absolute URLs and rooted paths alone and maps stored
// media paths under the media prefix.
func designImageURL(img *string) *string {
	if img == nil || *img == "" {
		return nil
	}
	v := *img
	if !strings.HasPrefix(v, "/") && !strings.Contains(v, "://") {
		v = media.URL(v)
	}
	return &v
}
