// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// Line is one (product, quantity) pairing in a customer's in-progress order.
// Invariants: Quantity >= 1, and at most one line per product per cart.
type Line struct {
	ID        string    `json:"id"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineView joins a stored line with its resolved product. Lines whose
// product no longer resolves are dropped from views, never from storage.
type LineView struct {
	Line
	Product   *catalog.Product `json:"product"`
	LineTotal int64            `json:"line_total"`
}

// Totals represents monetary figures derived from the current lines and live
// catalog prices. Computed on every read, never persisted.
type Totals struct {
	ItemCount    int   `json:"item_count"` // Sum of all quantities
	SubTotal     int64 `json:"sub_total"`
	TaxAmount    int64 `json:"tax_amount"`
	ShippingCost int64 `json:"shipping_cost"`
	TotalAmount  int64 `json:"total_amount"`
}

// Pricing holds the fixed rates used to derive totals. Amounts in cents,
// tax rate in basis points.
type Pricing struct {
	TaxRateBasisPoints    int
	FreeShippingThreshold int64
	ShippingFlatFee       int64
}
