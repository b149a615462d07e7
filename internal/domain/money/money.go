// Package money holds the rounding and formatting rules shared by payroll,
// invoicing and the ledger. Amounts are decimal.Decimal end to end; the
// currency of an invoice is a label and never drives conversion.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var hundred = decimal.NewFromInt(100)

// RoundUnit rounds to whole currency units, half away from zero.
func RoundUnit(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// RoundCents rounds to two decimal places, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns base * pct / 100 without rounding.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Scale returns the number of fraction digits conventionally printed for the
// ISO currency code. Unknown codes fall back to two.
func Scale(code string) int {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// FormatAmount renders value with digit grouping for English locales, prefixed
// by the upper-cased currency code, e.g. "INR 1,234.50" or "JPY 1,235".
func FormatAmount(code string, value decimal.Decimal) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	scale := Scale(code)
	rounded := value.Round(int32(scale))
	f, _ := rounded.Float64()
	p := message.NewPrinter(language.English)
	formatted := p.Sprint(number.Decimal(f, number.Scale(scale)))
	if code == "" {
		return formatted
	}
	return code + " " + formatted
}
