package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product entry in the shopping cart. A cart holds at most one
// line per product; adding the same product again increments the quantity.
type Line struct {
	ID        uuid.UUID        `json:"id"`
	ProductID uuid.UUID        `json:"productId"`
	Name      string           `json:"name"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
	Image     string           `json:"image"`
	Quantity  int              `json:"quantity"`
}

// EffectivePrice is what the shopper pays per unit: sale price when present,
// list price otherwise.
func (l Line) EffectivePrice() decimal.Decimal {
	if l.SalePrice != nil {
		return *l.SalePrice
	}
	return l.UnitPrice
}

// Totals are derived from the lines plus shipping and the frozen discount.
// They are recomputed on every mutation, never set directly.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Snapshot is the full cart state persisted per user.
type Snapshot struct {
	Lines        []Line  `json:"lines"`
	Totals       Totals  `json:"totals"`
	DiscountCode *string `json:"discountCode,omitempty"`
}

// EmptySnapshot returns a cart with no lines and the provided flat shipping.
func EmptySnapshot(shipping decimal.Decimal) Snapshot {
	snap := Snapshot{Lines: []Line{}}
	snap.Totals = ComputeTotals(snap.Lines, shipping, decimal.Zero)
	return snap
}
