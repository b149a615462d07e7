package invoice

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"backoffice/internal/domain/apperr"
	"backoffice/internal/domain/money"
)

// ComputeTotals prices every item and totals the invoice. Item amounts are
// always the exact product of unit price and quantity; only the tax is
// rounded to cents, so total is exactly subtotal plus tax.
func ComputeTotals(inputs []ItemInput, taxPercent decimal.Decimal) ([]Item, Totals, error) {
	if len(inputs) == 0 {
		return nil, Totals{}, ErrNoItems
	}
	if taxPercent.IsNegative() {
		return nil, Totals{}, ErrNegativeTax
	}
	fields := map[string]string{}
	items := make([]Item, 0, len(inputs))
	subtotal := decimal.Zero
	for i, in := range inputs {
		key := "items[" + strconv.Itoa(i) + "]"
		description := strings.TrimSpace(in.Description)
		if description == "" {
			fields[key+".description"] = "is required"
		}
		if !in.Quantity.IsPositive() {
			fields[key+".quantity"] = "must be greater than zero"
		}
		if in.UnitPrice.IsNegative() {
			fields[key+".unitPrice"] = "cannot be negative"
		}
		amount := in.UnitPrice.Mul(in.Quantity)
		items = append(items, Item{
			Description: description,
			UnitPrice:   in.UnitPrice,
			Quantity:    in.Quantity,
			Amount:      amount,
		})
		subtotal = subtotal.Add(amount)
	}
	if len(fields) > 0 {
		return nil, Totals{}, apperr.ValidationFields("invalid invoice items", fields)
	}
	tax := money.RoundCents(money.Percent(subtotal, taxPercent))
	return items, Totals{Subtotal: subtotal, TaxAmount: tax, Total: subtotal.Add(tax)}, nil
}
