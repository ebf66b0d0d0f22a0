package store

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptrString(s string) *string { return &s }

func newTestApp(seed []Store) *fiber.App {
	app := fiber.New()
	NewHandler(NewService(NewInMemoryRepository(seed)), zap.NewNop()).RegisterPublicRoutes(app)
	return app
}

func TestStoreRoutes(t *testing.T) {
	app := newTestApp([]Store{
		{ID: 2, Name: "Nordic Home", Logo: ptrString("/media/logos/nordic.png")},
		{ID: 1, Name: "Casa Lumen"},
	})

	res, err := app.Test(httptest.NewRequest("GET", "/api/stores", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var stores []Store
	require.NoError(t, json.NewDecoder(res.Body).Decode(&stores))
	require.Len(t, stores, 2)
	assert.Equal(t, "Casa Lumen", stores[0].Name)
	assert.Equal(t, "/media/logos/nordic.png", *stores[1].Logo)

	res, err = app.Test(httptest.NewRequest("GET", "/api/stores/2", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("GET", "/api/stores/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}
