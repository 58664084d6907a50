package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeTotalsUsesEffectivePrice(t *testing.T) {
	sale := dec("8")
	lines := []Line{
		{ID: uuid.New(), ProductID: uuid.New(), UnitPrice: dec("10"), Quantity: 2},
		{ID: uuid.New(), ProductID: uuid.New(), UnitPrice: dec("12"), SalePrice: &sale, Quantity: 1},
	}

	totals := ComputeTotals(lines, dec("9.99"), decimal.Zero)

	if !totals.Subtotal.Equal(dec("28")) {
		t.Fatalf("subtotal = %s, want 28", totals.Subtotal)
	}
	if !totals.Tax.Equal(dec("2.24")) {
		t.Fatalf("tax = %s, want 2.24", totals.Tax)
	}
	if !totals.Total.Equal(dec("40.23")) {
		t.Fatalf("total = %s, want 40.23", totals.Total)
	}
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, dec("9.99"), decimal.Zero)
	if !totals.Subtotal.IsZero() || !totals.Tax.IsZero() {
		t.Fatalf("empty cart should have zero subtotal/tax, got %+v", totals)
	}
	if !totals.Total.Equal(dec("9.99")) {
		t.Fatalf("total = %s, want 9.99", totals.Total)
	}
}

func TestComputeTotalsDoesNotClampNegative(t *testing.T) {
	lines := []Line{{ID: uuid.New(), ProductID: uuid.New(), UnitPrice: dec("1"), Quantity: 1}}
	totals := ComputeTotals(lines, decimal.Zero, dec("100"))
	if totals.Total.Sign() >= 0 {
		t.Fatalf("oversized discount should drive total negative, got %s", totals.Total)
	}
}

func TestDiscountScenario(t *testing.T) {
	lines := []Line{{ID: uuid.New(), ProductID: uuid.New(), UnitPrice: dec("20"), Quantity: 2}}

	pct, ok := LookupDiscountCode("WELCOME15")
	if !ok {
		t.Fatal("WELCOME15 should be a known code")
	}

	subtotal := ComputeTotals(lines, dec("9.99"), decimal.Zero).Subtotal
	discount := DiscountAmount(subtotal, pct)
	totals := ComputeTotals(lines, dec("9.99"), discount)

	if !totals.Subtotal.Equal(dec("40")) {
		t.Fatalf("subtotal = %s, want 40", totals.Subtotal)
	}
	if !totals.Discount.Equal(dec("6")) {
		t.Fatalf("discount = %s, want 6", totals.Discount)
	}
	if !totals.Tax.Equal(dec("3.2")) {
		t.Fatalf("tax = %s, want 3.2", totals.Tax)
	}
	if !totals.Total.Equal(dec("47.19")) {
		t.Fatalf("total = %s, want 47.19", totals.Total)
	}
}

func TestLookupDiscountCode(t *testing.T) {
	if pct, ok := LookupDiscountCode("crystal10"); !ok || pct != 10 {
		t.Fatalf("lookup should be case-insensitive, got pct=%d ok=%v", pct, ok)
	}
	if pct, ok := LookupDiscountCode("  Crystal20 "); !ok || pct != 20 {
		t.Fatalf("lookup should trim whitespace, got pct=%d ok=%v", pct, ok)
	}
	if _, ok := LookupDiscountCode("BOGUS"); ok {
		t.Fatal("unknown code should not resolve")
	}
}

func TestAddLineMergesSameProduct(t *testing.T) {
	productID := uuid.New()
	lines := addLine(nil, Line{ProductID: productID, UnitPrice: dec("5"), Quantity: 1})
	lines = addLine(lines, Line{ProductID: productID, UnitPrice: dec("5"), Quantity: 2})

	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected summed quantity 3, got %d", lines[0].Quantity)
	}
	if lines[0].ID == uuid.Nil {
		t.Fatal("new lines should receive an id")
	}
}

func TestSetLineQuantityRemovesAtZeroOrBelow(t *testing.T) {
	line := Line{ID: uuid.New(), ProductID: uuid.New(), UnitPrice: dec("5"), Quantity: 2}

	if got := setLineQuantity([]Line{line}, line.ID, 0); len(got) != 0 {
		t.Fatalf("quantity 0 should remove the line, got %d lines", len(got))
	}
	if got := setLineQuantity([]Line{line}, line.ID, -1); len(got) != 0 {
		t.Fatalf("negative quantity should remove the line, got %d lines", len(got))
	}
	if got := setLineQuantity([]Line{line}, line.ID, 5); got[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", got[0].Quantity)
	}
}

func TestRemoveLineIsIdempotent(t *testing.T) {
	line := Line{ID: uuid.New(), ProductID: uuid.New(), UnitPrice: dec("5"), Quantity: 1}
	lines := removeLine([]Line{line}, line.ID)
	if len(lines) != 0 {
		t.Fatalf("expected empty lines, got %d", len(lines))
	}
	lines = removeLine(lines, line.ID)
	if len(lines) != 0 {
		t.Fatalf("second removal should be a no-op, got %d", len(lines))
	}
}
