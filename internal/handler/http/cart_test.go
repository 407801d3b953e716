package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animequeens/storefront/internal/cart"
	"github.com/animequeens/storefront/internal/catalog"
	"github.com/animequeens/storefront/internal/store/memory"
	"github.com/animequeens/storefront/pkg/health"
)

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter wires the production route layout against the in-memory
// store backend, so handler tests exercise the real hub, manager, and
// middleware stack end-to-end.
func newTestRouter() http.Handler {
	backend := memory.NewBackend()
	hub := cart.NewHub(func(sessionID string) cart.Store {
		return backend.Store(sessionID)
	}, testLogger())
	return NewRouter(hub, catalog.Default(), health.NewHandler(), testLogger())
}

func doRequest(router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Session-ID", "sess-test")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeData unwraps the response envelope into dst, failing on any error
// payload.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var resp struct {
		Data  json.RawMessage `json:"data"`
		Error *errorResponse  `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Nil(t, resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, dst))
}

// decodeError unwraps the response envelope and requires an error payload.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *errorResponse {
	t.Helper()
	var resp struct {
		Error *errorResponse `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func addItemJSON(productID int64, quantity int) []byte {
	b, _ := json.Marshal(AddItemRequest{ProductID: productID, Quantity: quantity})
	return b
}

func updateQuantityJSON(quantity int) []byte {
	b, _ := json.Marshal(UpdateQuantityRequest{Quantity: quantity})
	return b
}

// ============================================================================
// GET /api/v1/cart
// ============================================================================

func TestGetCart_Empty(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/api/v1/cart", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var view cartView
	decodeData(t, rec, &view)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.Summary.ItemCount)
	assert.Equal(t, float64(0), view.Summary.Total)
}

// ============================================================================
// POST /api/v1/cart/items
// ============================================================================

func TestAddItem_Success(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/api/v1/cart/items", addItemJSON(1, 2))

	assert.Equal(t, http.StatusOK, rec.Code)
	var view cartView
	decodeData(t, rec, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(1), view.Items[0].ID)
	assert.Equal(t, "Mai Sakurajima", view.Items[0].Name)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, float64(500), view.Summary.Subtotal)
}

func TestAddItem_DefaultQuantityIsOne(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/api/v1/cart/items", []byte(`{"product_id":1}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	var view cartView
	decodeData(t, rec, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)
}

func TestAddItem_MergesAndClampsQuantity(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/api/v1/cart/items", addItemJSON(1, 60))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/cart/items", addItemJSON(1, 60))

	assert.Equal(t, http.StatusOK, rec.Code)
	var view cartView
	decodeData(t, rec, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, cart.MaxQuantity, view.Items[0].Quantity)
}

func TestAddItem_UnknownProduct_Returns404(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/api/v1/cart/items", addItemJSON(9999, 1))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestAddItem_InvalidJSON(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/api/v1/cart/items", []byte(`{invalid`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "INVALID_INPUT", errResp.Code)
	assert.Contains(t, errResp.Message, "invalid request body")
}

func TestAddItem_ValidationError(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/api/v1/cart/items", []byte(`{"product_id":0,"quantity":1}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
}

// ============================================================================
// PUT /api/v1/cart/items/{productID}
// ============================================================================

func TestUpdateQuantity_Success(t *testing.T) {
	router := newTestRouter()
	doRequest(router, http.MethodPost, "/api/v1/cart/items", addItemJSON(3, 1))

	rec := doRequest(router, http.MethodPut, "/api/v1/cart/items/3", updateQuantityJSON(5))

	assert.Equal(t, http.StatusOK, rec.Code)
	var view cartView
	decodeData(t, rec, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesItem(t *testing.T) {
	router := newTestRouter()
	doRequest(router, http.MethodPost, "/api/v1/cart/items", addItemJSON(3, 2))

	rec := doRequest(router, http.MethodPut, "/api/v1/cart/items/3", updateQuantityJSON(0))

	assert.Equal(t, http.StatusOK, rec.Code)
	var view cartView
	decodeData(t, rec, &view)
	assert.Empty(t, view.Items)
}

func TestUpdateQuantity_ItemNotFound(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPut, "/api/v1/cart/items/3", updateQuantityJSON(2))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestUpdateQuantity_InvalidProductIDParam(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPut, "/api/v1/cart/items/abc", updateQuantityJSON(2))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "INVALID_INPUT", errResp.Code)
}

// ============================================================================
// DELETE /api/v1/cart/items/{productID}
// ============================================================================

func TestRemoveItem_Success(t *testing.T) {
	router := newTestRouter()
	doRequest(router, http.MethodPost, "/api/v1/cart/items", addItemJSON(2, 1))
	doRequest(router, http.MethodPost, "/api/v1/cart/items", addItemJSON(4, 1))

	rec := doRequest(router, http.MethodDelete, "/api/v1/cart/items/2", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var view cartView
	decodeData(t, rec, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(4), view.Items[0].ID)
}

func TestRemoveItem_NotFound(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodDelete, "/api/v1/cart/items/42", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

// ============================================================================
// DELETE /api/v1/cart
// ============================================================================

func TestClearCart(t *testing.T) {
	router := newTestRouter()
	doRequest(router, http.MethodPost, "/api/v1/cart/items", addItemJSON(1, 3))

	rec := doRequest(router, http.MethodDelete, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/cart", nil)
	var view cartView
	decodeData(t, rec, &view)
	assert.Empty(t, view.Items)
}

// ============================================================================
// GET /api/v1/cart/summary
// ============================================================================

func TestGetSummary_WithPricingOptions(t *testing.T) {
	router := newTestRouter()
	// Product 5 costs 300.
	doRequest(router, http.MethodPost, "/api/v1/cart/items", addItemJSON(5, 1))

	rec := doRequest(router, http.MethodGet,
		"/api/v1/cart/summary?coupon_discount=20&tax_rate=0.16&shipping_cost=50", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var summary cart.Summary
	decodeData(t, rec, &summary)
	assert.Equal(t, float64(300), summary.Subtotal)
	assert.Equal(t, float64(20), summary.Discount)
	assert.InDelta(t, 44.8, summary.Tax, 1e-9)
	assert.Equal(t, float64(50), summary.Shipping)
	assert.InDelta(t, 374.8, summary.Total, 1e-9)
}

func TestGetSummary_EmptyCartSuppressesShipping(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/api/v1/cart/summary?shipping_cost=50", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var summary cart.Summary
	decodeData(t, rec, &summary)
	assert.Equal(t, float64(0), summary.Shipping)
	assert.Equal(t, float64(0), summary.Total)
}

func TestGetSummary_RejectsNegativeParams(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/api/v1/cart/summary?tax_rate=-0.1", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "INVALID_INPUT", errResp.Code)
	assert.Contains(t, errResp.Message, "tax_rate")
}

// ============================================================================
// POST /api/v1/checkout/confirm
// ============================================================================

func TestCheckoutConfirm_EmptyCart_Returns400(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/api/v1/checkout/confirm", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "EMPTY_CART", errResp.Code)
}

func TestCheckoutConfirm_CreatesOrderAndClearsCart(t *testing.T) {
	router := newTestRouter()
	doRequest(router, http.MethodPost, "/api/v1/cart/items", addItemJSON(1, 2))

	body, _ := json.Marshal(ConfirmRequest{TaxRate: 0.1, ShippingCost: 30})
	rec := doRequest(router, http.MethodPost, "/api/v1/checkout/confirm", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var order Order
	decodeData(t, rec, &order)
	assert.NotEmpty(t, order.OrderID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, float64(500), order.Summary.Subtotal)
	assert.InDelta(t, 580, order.Summary.Total, 1e-9)

	rec = doRequest(router, http.MethodGet, "/api/v1/cart", nil)
	var view cartView
	decodeData(t, rec, &view)
	assert.Empty(t, view.Items)
}

// ============================================================================
// GET /api/v1/products
// ============================================================================

func TestListProducts(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/api/v1/products", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var products []catalog.Product
	decodeData(t, rec, &products)
	assert.Len(t, products, 20)
}

func TestGetProduct_Success(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/api/v1/products/6", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var product catalog.Product
	decodeData(t, rec, &product)
	assert.Equal(t, "Nezuko Kamado", product.Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/api/v1/products/9999", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestGetProduct_InvalidID(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/api/v1/products/abc", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "INVALID_INPUT", errResp.Code)
}

// ============================================================================
// Session middleware
// ============================================================================

func TestSession_MintsCookieForNewVisitors(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSession_CookieKeepsCartAcrossRequests(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON(1, 1)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var view cartView
	decodeData(t, rec, &view)
	assert.Len(t, view.Items, 1)
}

func TestSessions_IsolateCarts(t *testing.T) {
	router := newTestRouter()

	for _, sid := range []string{"sess-a", "sess-b"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON(1, 1)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Session-ID", sid)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/1", bytes.NewReader(updateQuantityJSON(7)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "sess-a")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-ID", "sess-b")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var view cartView
	decodeData(t, rec, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)
}

// ============================================================================
// ContentTypeJSON middleware
// ============================================================================

func TestContentTypeJSON_RejectsNonJSON(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte("data")))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Session-ID", "sess-test")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// ============================================================================
// Health endpoints
// ============================================================================

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := doRequest(router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, fmt.Sprintf("GET %s", path))
	}
}
