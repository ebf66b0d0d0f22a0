package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/rior-backend/internal/store"
)

func TestInMemoryRepository_AttachesStores(t *testing.T) {
	repo := NewInMemoryRepository(SampleCatalog(), store.SampleStores()...)
	ctx := context.Background()

	sofa, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, sofa.StoreName())
	assert.Equal(t, "Casa Lumen", *sofa.StoreName())
	assert.Equal(t, "/media/logos/casa-lumen.png", *sofa.ToResponse().StoreIcon)

	products, err := repo.ListByIDs(ctx, []int{3, 4})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Nordic Home", *products[0].StoreName())
	// the vase has no store
	assert.Nil(t, products[1].Store)

	created, err := repo.Create(ctx, Product{Name: "Stool", StoreID: ptrInt(2)})
	require.NoError(t, err)
	assert.Equal(t, "Nordic Home", *created.StoreName())
}

func TestInMemoryRepository_UnknownStoreLeftEmpty(t *testing.T) {
	repo := NewInMemoryRepository([]Product{{ID: 1, Name: "Orphan", StoreID: ptrInt(42)}}, store.SampleStores()...)

	p, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, p.Store)
	assert.Nil(t, p.ToResponse().StoreName)
}

func TestInMemoryRepository_ListByIDsDropsUnknown(t *testing.T) {
	repo := NewInMemoryRepository(SampleCatalog())

	products, err := repo.ListByIDs(context.Background(), []int{5, 3000000000, 1})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, 5, products[1].ID)
}
