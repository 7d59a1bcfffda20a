package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/shop-cart/internal/adapter/catalog"
	"github.com/rl1809/shop-cart/internal/core/domain"
	"github.com/rl1809/shop-cart/internal/core/service"
)

// Mock KeyValueStore
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, found := m.data[key]
	return value, found, nil
}

func (m *memStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Mock CatalogClient
type stubCatalog struct {
	products []domain.Product
	err      error
}

func (s *stubCatalog) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func newTestHandler(t *testing.T, cat *stubCatalog) *HTTPHandler {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	kv := &memStore{data: make(map[string][]byte)}
	ctx := context.Background()
	cartService := service.NewCartService(ctx, kv, log)
	orderService := service.NewOrderService(ctx, kv, cartService, log)

	return NewHTTPHandler(cartService, orderService, cat, log)
}

func postJSON(t *testing.T, fn http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	fn(w, req)
	return w
}

func addBackpack(t *testing.T, h *HTTPHandler) {
	t.Helper()

	w := postJSON(t, h.AddItem, "/api/cart/items", AddItemRequest{
		ID:    1,
		Title: "backpack",
		Price: decimal.RequireFromString("9.99"),
		Image: "https://example.com/1.png",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAddItem_ReturnsCartState(t *testing.T) {
	h := newTestHandler(t, &stubCatalog{})

	addBackpack(t, h)
	addBackpack(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := httptest.NewRecorder()
	h.GetCart(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, 2, resp.Count)
	require.True(t, resp.Total.Equal(decimal.RequireFromString("19.98")))
}

func TestAddItem_InvalidBody(t *testing.T) {
	h := newTestHandler(t, &stubCatalog{})

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader([]byte("{broken")))
	w := httptest.NewRecorder()
	h.AddItem(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItem_InvalidProduct(t *testing.T) {
	h := newTestHandler(t, &stubCatalog{})

	w := postJSON(t, h.AddItem, "/api/cart/items", AddItemRequest{ID: 0, Title: "x", Image: "y"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMutation_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, &stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/checkout", nil)
	w := httptest.NewRecorder()
	h.Checkout(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestChangeQuantity_RemovesLineAtZero(t *testing.T) {
	h := newTestHandler(t, &stubCatalog{})
	addBackpack(t, h)

	w := postJSON(t, h.ChangeQuantity, "/api/cart/quantity", ChangeQuantityRequest{ID: 1, Delta: -1})
	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.Count)
}

func TestRemoveItem(t *testing.T) {
	h := newTestHandler(t, &stubCatalog{})
	addBackpack(t, h)

	w := postJSON(t, h.RemoveItem, "/api/cart/remove", RemoveItemRequest{ID: 1})
	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestCheckout_EmptyCartConflict(t *testing.T) {
	h := newTestHandler(t, &stubCatalog{})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	w := httptest.NewRecorder()
	h.Checkout(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckout_ThenListOrders(t *testing.T) {
	h := newTestHandler(t, &stubCatalog{})
	addBackpack(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	w := httptest.NewRecorder()
	h.Checkout(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	require.True(t, order.Total.Equal(decimal.RequireFromString("9.99")))

	listReq := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	listW := httptest.NewRecorder()
	h.ListOrders(listW, listReq)
	require.Equal(t, http.StatusOK, listW.Code)

	var orders []domain.Order
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	// Cart is empty after checkout.
	cartReq := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	cartW := httptest.NewRecorder()
	h.GetCart(cartW, cartReq)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(cartW.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestProducts_Success(t *testing.T) {
	h := newTestHandler(t, &stubCatalog{products: []domain.Product{
		{ID: 1, Title: "backpack", Price: decimal.RequireFromString("9.99"), Image: "https://example.com/1.png"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	h.Products(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var products []domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
}

func TestProducts_CatalogUnavailable(t *testing.T) {
	h := newTestHandler(t, &stubCatalog{err: fmt.Errorf("%w: connection refused", catalog.ErrUnavailable)})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	h.Products(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
