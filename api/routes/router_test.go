package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexim39/marketspase-engine/internal/cart"
	"github.com/alexim39/marketspase-engine/internal/catalog"
	"github.com/alexim39/marketspase-engine/internal/wishlist"
	"github.com/alexim39/marketspase-engine/pkg/config"
	"github.com/alexim39/marketspase-engine/pkg/storage"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStore()
	ctx := context.Background()

	cartService, err := cart.NewService(ctx, cart.ServiceParams{Store: store})
	require.NoError(t, err)
	wishlistService, err := wishlist.NewService(ctx, wishlist.ServiceParams{Store: store, Cart: cartService})
	require.NoError(t, err)
	catalogEngine := catalog.NewEngine(catalog.EngineParams{})

	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.Storage.Backend = "memory"

	return NewRouter(cfg, nil, store, catalogEngine, cartService, wishlistService, nil)
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get("X-Marketspase-Env"))

	rec = do(t, router, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartFlowOverHTTP(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	item := `{"productId":"p1","name":"Lamp","price":10,"quantity":1,"maxQuantity":5,"storeId":"s1","isDigital":false,"requiresShipping":true}`
	rec := do(t, router, http.MethodPost, "/api/v1/cart/items", item)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/v1/cart/items", item)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/cart/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Items   []cart.Item  `json:"items"`
			Summary cart.Summary `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, 2, envelope.Data.Items[0].Quantity)
	assert.Equal(t, 27.59, envelope.Data.Summary.Total)

	rec = do(t, router, http.MethodPost, "/api/v1/cart/discount", `{"code":"WELCOME10"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "10% off your order")
}

func TestPolicyRejectionStatus(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/cart/discount", `{"code":"BOGUS"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "REJECTED_BY_POLICY")
	assert.Contains(t, rec.Body.String(), "invalid-code")
}

func TestMalformedBodyStatus(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/cart/items", `{"productId":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWishlistDuplicateOverHTTP(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	item := `{"productId":"p1","name":"Lamp","price":25,"storeId":"s1","category":"home"}`
	rec := do(t, router, http.MethodPost, "/api/v1/wishlist/items", item)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/v1/wishlist/items", item)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "already-present")
}

func TestCatalogFacetsOverHTTP(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	products := `{"products":[{"id":"p1","name":"Solar Lamp","description":"","category":"home","tags":[],"price":25,"quantity":3,"manageStock":true,"lowStockAlert":1,"averageRating":4.5,"purchaseCount":10,"createdAt":"2026-01-01T00:00:00Z","isFeatured":false}]}`
	rec := do(t, router, http.MethodPut, "/api/v1/catalog/products", products)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPatch, "/api/v1/catalog/facets", `{"search":"solar"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Solar Lamp")

	rec = do(t, router, http.MethodPatch, "/api/v1/catalog/facets", `{"search":"nothing matches"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalMatched":0`)
}
