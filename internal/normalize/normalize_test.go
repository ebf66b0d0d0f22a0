package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/rior-backend/internal/product"
	"github.com/wichananm65/rior-backend/internal/recommendation"
	"github.com/wichananm65/rior-backend/internal/store"
)

func decode(t *testing.T, s string) recommendation.Payload {
	t.Helper()
	p, err := recommendation.Decode([]byte(s))
	require.NoError(t, err)
	return p
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestExtractReferencedIDs_Deduplicates(t *testing.T) {
	p := decode(t, `{"products":[
		{"id":7,"related_products":[{"id":2}]},
		{"id":3,"related_products":[{"id":7},{"id":7},{"name":"no id"}]},
		{"name":"anonymous","related_products":[{"id":9}]}
	]}`)

	ids := ExtractReferencedIDs(p)
	assert.Equal(t, []int{2, 3, 7, 9}, ids.Sorted())
	assert.True(t, ids.Has(7))

	// extraction is a pure function of the payload
	assert.Equal(t, ids, ExtractReferencedIDs(p))
}

func TestExtractReferencedIDs_Empty(t *testing.T) {
	assert.Empty(t, ExtractReferencedIDs(recommendation.Payload{}).Sorted())
	assert.Empty(t, ExtractReferencedIDs(decode(t, `{"products":[{"related_products":"nope"}]}`)))
}

func TestUnresolved(t *testing.T) {
	ids := IDSet{1: {}, 2: {}, 999: {}}
	catalog := NewCatalog([]product.Product{{ID: 1}, {ID: 2}})
	assert.Equal(t, []int{999}, Unresolved(ids, catalog))
	assert.Empty(t, Unresolved(IDSet{1: {}}, catalog))
}

func TestResolveRelatedProducts_CatalogWins(t *testing.T) {
	p := decode(t, `{"products":[
		{"id":1,"related_products":[
			{"id":2,"name":"Old name","price":"20.00","image":"/stale.png"},
			{"id":404},
			{"id":3}
		]}
	]}`)
	img := "/media/p2.png"
	catalog := NewCatalog([]product.Product{
		{ID: 1, Name: "P1", Price: price("10.00")},
		{ID: 2, Name: "P2", Price: price("25.00"), Image: &img, Store: &store.Store{ID: 1, Name: "Casa Lumen"}},
		{ID: 3, Name: "P3", Price: price("5.00")},
	})

	related := ResolveRelatedProducts(p, 1, catalog)
	require.Len(t, related, 2)

	assert.Equal(t, 2, related[0].ID)
	assert.Equal(t, "P2", related[0].Name)
	assert.True(t, price("25.00").Equal(related[0].Price))
	assert.Equal(t, &img, related[0].Image)
	require.NotNil(t, related[0].Store)
	assert.Equal(t, "Casa Lumen", *related[0].Store)

	// payload order kept, unknown 404 dropped
	assert.Equal(t, 3, related[1].ID)
	assert.Nil(t, related[1].Store)
}

func TestResolveRelatedProducts_NoMatchOrNoRelated(t *testing.T) {
	p := decode(t, `{"products":[{"id":5,"quantity":2}]}`)
	catalog := NewCatalog([]product.Product{{ID: 5}})

	got := ResolveRelatedProducts(p, 5, catalog)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, ResolveRelatedProducts(p, 42, catalog))
}

func TestResolver_FirstDuplicateEntryWins(t *testing.T) {
	p := decode(t, `{"products":[
		{"id":1,"related_products":[{"id":2}]},
		{"id":1,"related_products":[{"id":3}]}
	]}`)
	catalog := NewCatalog([]product.Product{{ID: 2, Name: "two"}, {ID: 3, Name: "three"}})

	r := NewResolver(p, catalog)
	related := r.Related(1)
	require.Len(t, related, 1)
	assert.Equal(t, 2, related[0].ID)
}

func TestTotalPrice(t *testing.T) {
	a := product.Product{ID: 1, Price: price("10.00")}
	b := product.Product{ID: 2, Price: price("20.00")}

	assert.Equal(t, "30.00", product.FormatPrice(TotalPrice([]product.Product{a, b})))
	assert.Equal(t, "10.00", product.FormatPrice(TotalPrice([]product.Product{a})))
	assert.True(t, TotalPrice(nil).IsZero())

	// no float drift
	cents := []product.Product{{Price: price("0.10")}, {Price: price("0.20")}}
	assert.Equal(t, "0.3", TotalPrice(cents).String())
}

func TestDeriveGeometry(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		ceiling float64
		want    Geometry
	}{
		{"wall area from perimeter", `{"perimeter":40.0}`, 3.0, Geometry{Perimeter: 40, WallArea: 120}},
		{"wall area verbatim", `{"area":12.5,"perimeter":40,"wall_area":99}`, 3.0, Geometry{Area: 12.5, Perimeter: 40, WallArea: 99}},
		{"nothing supplied", `{}`, 2.7, Geometry{}},
		{"mistyped perimeter", `{"perimeter":"wide"}`, 3.0, Geometry{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveGeometry(decode(t, tt.payload), tt.ceiling))
		})
	}
}

func TestEnrich(t *testing.T) {
	p := decode(t, `{"products":[
		{"id":1,"related_products":[{"id":3},{"id":999}]},
		{"id":3,"related_products":[{"id":1}]},
		{"id":999}
	]}`)
	linked := []product.Product{
		{ID: 1, Name: "Sofa", Price: price("899.00")},
		{ID: 3, Name: "Table", Price: price("259.00")},
	}
	catalog := NewCatalog(linked)

	enriched := Enrich(p, linked, catalog)
	require.Len(t, enriched, 2)
	assert.Equal(t, "Sofa", enriched[0].Name)
	require.Len(t, enriched[0].Related, 1)
	assert.Equal(t, "Table", enriched[0].Related[0].Name)
	require.Len(t, enriched[1].Related, 1)
	assert.Equal(t, 1, enriched[1].Related[0].ID)

	assert.Empty(t, Enrich(p, nil, catalog))
}
