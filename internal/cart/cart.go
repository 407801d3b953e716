package cart

import "math"

// MaxQuantity is the upper bound for a single line item's quantity.
// Quantities above it are clamped, never rejected.
const MaxQuantity = 99

// Product is the catalog-side view of a purchasable item, the input to
// AddItem. The cart copies the fields it needs and never aliases the value.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// LineItem is one distinct product in the cart together with the selected
// quantity. Items are unique by ID and kept in insertion order.
type LineItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// PricingOptions configures a single Summary computation. The zero value
// means no coupon, no tax, free shipping; options are never persisted.
type PricingOptions struct {
	CouponDiscount float64 `json:"coupon_discount"`
	TaxRate        float64 `json:"tax_rate"`
	ShippingCost   float64 `json:"shipping_cost"`
}

// Summary is a derived price breakdown for the current cart contents.
// It is recomputed on demand and never stored.
type Summary struct {
	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount"`
	Tax       float64 `json:"tax"`
	Shipping  float64 `json:"shipping"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// summarize derives the price breakdown from a subtotal and item count.
// The coupon discount is capped at the subtotal, tax applies to the
// discounted amount, and shipping is suppressed for an empty cart.
func summarize(subtotal float64, itemCount int, opts PricingOptions) Summary {
	discount := math.Min(opts.CouponDiscount, subtotal)
	taxable := subtotal - discount
	tax := roundCents(taxable * opts.TaxRate)

	var shipping float64
	if itemCount > 0 {
		shipping = opts.ShippingCost
	}

	return Summary{
		Subtotal:  subtotal,
		Discount:  discount,
		Tax:       tax,
		Shipping:  shipping,
		Total:     math.Max(0, taxable+tax+shipping),
		ItemCount: itemCount,
	}
}

// roundCents rounds to two decimal places, half away from zero on the
// scaled value. Totals in tests depend on this exact rule.
func roundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
