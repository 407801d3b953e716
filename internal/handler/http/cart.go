package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/animequeens/storefront/internal/cart"
	"github.com/animequeens/storefront/internal/catalog"
	apperrors "github.com/animequeens/storefront/pkg/errors"
	"github.com/animequeens/storefront/pkg/validator"
)

// CartHandler serves the cart endpoints. It is presentation glue: product
// lookups go to the catalog, everything stateful goes through the cart
// manager's public operations.
type CartHandler struct {
	hub     *cart.Hub
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCartHandler creates the cart HTTP handler.
func NewCartHandler(hub *cart.Hub, cat *catalog.Catalog, logger *slog.Logger) *CartHandler {
	return &CartHandler{hub: hub, catalog: cat, logger: logger}
}

// --- Request DTOs ---

// AddItemRequest is the body of POST /api/v1/cart/items. Quantity is
// optional and defaults to one.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"`
}

// UpdateQuantityRequest is the body of PUT /api/v1/cart/items/{productID}.
// Zero or negative removes the item.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// --- Response envelope ---

type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// cartView is the cart representation returned by the read endpoints.
type cartView struct {
	Items   []cart.LineItem `json:"items"`
	Summary cart.Summary    `json:"summary"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, response{Data: cartView{
		Items:   m.Items(),
		Summary: m.Summary(cart.PricingOptions{}),
	}})
}

// GetSummary handles GET /api/v1/cart/summary with optional pricing query
// parameters: coupon_discount, tax_rate, shipping_cost.
func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	opts, err := pricingFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Data: m.Summary(opts)})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if err := m.AddItem(r.Context(), product.CartProduct(), quantity); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: cartView{
		Items:   m.Items(),
		Summary: m.Summary(cart.PricingOptions{}),
	}})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{productID}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	productID, err := productIDParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if !m.UpdateQuantity(r.Context(), productID, req.Quantity) {
		writeError(w, r, h.logger, apperrors.NotFound("cart item", strconv.FormatInt(productID, 10)))
		return
	}

	writeJSON(w, http.StatusOK, response{Data: cartView{
		Items:   m.Items(),
		Summary: m.Summary(cart.PricingOptions{}),
	}})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	productID, err := productIDParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if !m.RemoveItem(r.Context(), productID) {
		writeError(w, r, h.logger, apperrors.NotFound("cart item", strconv.FormatInt(productID, 10)))
		return
	}

	writeJSON(w, http.StatusOK, response{Data: cartView{
		Items:   m.Items(),
		Summary: m.Summary(cart.PricingOptions{}),
	}})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}

	m.Clear(r.Context())
	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}

// --- Helpers ---

// manager resolves the session's cart manager, hydrating it on first use.
func (h *CartHandler) manager(w http.ResponseWriter, r *http.Request) (*cart.Manager, bool) {
	sid, ok := sessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "cart session is required"},
		})
		return nil, false
	}
	return h.hub.Get(r.Context(), sid), true
}

func productIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("productID must be a positive integer")
	}
	return id, nil
}

func pricingFromQuery(r *http.Request) (cart.PricingOptions, error) {
	var opts cart.PricingOptions

	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"coupon_discount", &opts.CouponDiscount},
		{"tax_rate", &opts.TaxRate},
		{"shipping_cost", &opts.ShippingCost},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return cart.PricingOptions{}, apperrors.InvalidInput(p.name + " must be a non-negative number")
		}
		*p.dst = v
	}
	return opts, nil
}

// writeError maps an application error to its HTTP representation. Internal
// errors are logged and masked; everything else surfaces its code and
// message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, response{
			Error: &errorResponse{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		writeJSON(w, status, response{
			Error: &errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"},
		})
		return
	}

	writeJSON(w, status, response{
		Error: &errorResponse{Code: "ERROR", Message: err.Error()},
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}
	writeJSON(w, http.StatusBadRequest, response{
		Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}
