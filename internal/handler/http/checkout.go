package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/animequeens/storefront/internal/cart"
	"github.com/animequeens/storefront/pkg/validator"
)

// CheckoutHandler confirms orders. Confirmation is terminal for the cart:
// the order snapshot is taken first, then the cart is cleared.
type CheckoutHandler struct {
	hub    *cart.Hub
	logger *slog.Logger
}

// NewCheckoutHandler creates the checkout HTTP handler.
func NewCheckoutHandler(hub *cart.Hub, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{hub: hub, logger: logger}
}

// ConfirmRequest is the body of POST /api/v1/checkout/confirm. The pricing
// fields mirror the summary query parameters; all are optional.
type ConfirmRequest struct {
	CouponDiscount float64 `json:"coupon_discount" validate:"gte=0"`
	TaxRate        float64 `json:"tax_rate" validate:"gte=0,lte=1"`
	ShippingCost   float64 `json:"shipping_cost" validate:"gte=0"`
}

// Order is the confirmation receipt returned to the client.
type Order struct {
	OrderID   string          `json:"order_id"`
	Items     []cart.LineItem `json:"items"`
	Summary   cart.Summary    `json:"summary"`
	CreatedAt time.Time       `json:"created_at"`
}

// Confirm handles POST /api/v1/checkout/confirm. An empty cart cannot be
// checked out.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "cart session is required"},
		})
		return
	}
	m := h.hub.Get(r.Context(), sid)

	var req ConfirmRequest
	if r.ContentLength > 0 {
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
	}

	if m.IsEmpty() {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "EMPTY_CART", Message: "cannot check out an empty cart"},
		})
		return
	}

	order := Order{
		OrderID: uuid.New().String(),
		Items:   m.Items(),
		Summary: m.Summary(cart.PricingOptions{
			CouponDiscount: req.CouponDiscount,
			TaxRate:        req.TaxRate,
			ShippingCost:   req.ShippingCost,
		}),
		CreatedAt: time.Now().UTC(),
	}

	m.Clear(r.Context())

	h.logger.InfoContext(r.Context(), "order confirmed",
		slog.String("order_id", order.OrderID),
		slog.Int("item_count", order.Summary.ItemCount),
		slog.Float64("total", order.Summary.Total),
	)

	writeJSON(w, http.StatusCreated, response{Data: order})
}
