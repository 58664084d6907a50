package cart

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat rate applied to the subtotal.
var TaxRate = decimal.NewFromFloat(0.08)

// discountCodes maps a code to its percentage off the subtotal.
var discountCodes = map[string]int64{
	"CRYSTAL10": 10,
	"CRYSTAL20": 20,
	"WELCOME15": 15,
}

// LookupDiscountCode resolves a code case-insensitively. The second return
// is false for unknown codes.
func LookupDiscountCode(code string) (int64, bool) {
	pct, ok := discountCodes[normalizeCode(code)]
	return pct, ok
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ComputeTotals derives cart totals from the lines plus the shipping charge
// and the frozen discount amount. The total is intentionally not floored at
// zero.
func ComputeTotals(lines []Line, shipping, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.EffectivePrice().Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal.Add(tax).Add(shipping).Sub(discount),
	}
}

// DiscountAmount computes the frozen amount for a percentage off the given
// subtotal.
func DiscountAmount(subtotal decimal.Decimal, pct int64) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(pct)).Div(decimal.NewFromInt(100))
}

// addLine merges the input into an existing line for the same product or
// appends a new one.
func addLine(lines []Line, input Line) []Line {
	for i := range lines {
		if lines[i].ProductID == input.ProductID {
			lines[i].Quantity += input.Quantity
			return lines
		}
	}
	if input.ID == uuid.Nil {
		input.ID = uuid.New()
	}
	return append(lines, input)
}

// setLineQuantity replaces a line's quantity; a quantity of zero or less
// removes the line. Unknown line IDs leave the slice untouched.
func setLineQuantity(lines []Line, lineID uuid.UUID, quantity int) []Line {
	if quantity <= 0 {
		return removeLine(lines, lineID)
	}
	for i := range lines {
		if lines[i].ID == lineID {
			lines[i].Quantity = quantity
			break
		}
	}
	return lines
}

// removeLine drops the line unconditionally; removing an absent line is a
// no-op.
func removeLine(lines []Line, lineID uuid.UUID) []Line {
	out := lines[:0]
	for _, line := range lines {
		if line.ID != lineID {
			out = append(out, line)
		}
	}
	return out
}
