package payroll

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"backoffice/internal/domain/apperr"
	"backoffice/internal/domain/money"
)

// Rule resolves an earning or deduction against the period's base pay.
type Rule interface {
	Resolve(base decimal.Decimal) (decimal.Decimal, string)
}

type Fixed struct {
	Amount decimal.Decimal
}

func (f Fixed) Resolve(decimal.Decimal) (decimal.Decimal, string) {
	return f.Amount, CalculationAmount
}

type Percentage struct {
	Percent decimal.Decimal
}

func (p Percentage) Resolve(base decimal.Decimal) (decimal.Decimal, string) {
	return money.RoundUnit(money.Percent(base, p.Percent)), CalculationPercentage
}

// Rule picks the variant a stored line represents.
func (l Line) Rule() Rule {
	if l.Percentage.Valid && l.Percentage.Decimal.IsPositive() {
		return Percentage{Percent: l.Percentage.Decimal}
	}
	return Fixed{Amount: l.Amount}
}

type Inputs struct {
	BasicSalary     decimal.Decimal
	RemainingLeaves float64
	LeaveTaken      float64
	Earnings        []Line
	Deductions      []Line
}

type Computation struct {
	LOPDays         float64         `json:"lopDays"`
	PaidDays        float64         `json:"paidDays"`
	BasicPay        decimal.Decimal `json:"basicPay"`
	Earnings        []Line          `json:"earnings"`
	Deductions      []Line          `json:"deductions"`
	GrossEarnings   decimal.Decimal `json:"grossEarnings"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetPay          decimal.Decimal `json:"netPay"`
	CarriedLeaves   float64         `json:"carriedLeaves"`
}

// Compute derives a period's pay from its inputs. It is pure: the same inputs
// always give the same result and the input slices are not modified.
func Compute(in Inputs) (Computation, error) {
	if err := validateInputs(in); err != nil {
		return Computation{}, err
	}

	lop := math.Max(0, in.LeaveTaken-in.RemainingLeaves)
	if lop > DaysInPeriod {
		return Computation{}, ErrLOPExceedsPeriod
	}
	paid := DaysInPeriod - lop

	basicPay := in.BasicSalary
	if lop > 0 {
		basicPay = money.RoundUnit(in.BasicSalary.Mul(decimal.NewFromFloat(paid)).Div(decimal.NewFromInt(DaysInPeriod)))
	}

	base := basicPay
	if !base.IsPositive() {
		base = in.BasicSalary
	}
	earnings, earned := resolveLines(in.Earnings, base)
	deductions, deducted := resolveLines(in.Deductions, base)

	gross := money.RoundUnit(earned)
	totalDeductions := money.RoundUnit(deducted)

	return Computation{
		LOPDays:         lop,
		PaidDays:        paid,
		BasicPay:        basicPay,
		Earnings:        earnings,
		Deductions:      deductions,
		GrossEarnings:   gross,
		TotalDeductions: totalDeductions,
		NetPay:          gross.Sub(totalDeductions),
		CarriedLeaves:   math.Max(0, in.RemainingLeaves-in.LeaveTaken),
	}, nil
}

func resolveLines(lines []Line, base decimal.Decimal) ([]Line, decimal.Decimal) {
	out := make([]Line, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		amount, calcType := line.Rule().Resolve(base)
		resolved := Line{
			Type:            strings.TrimSpace(line.Type),
			Amount:          amount,
			Percentage:      line.Percentage,
			CalculationType: calcType,
		}
		if calcType == CalculationAmount {
			resolved.Percentage = decimal.NullDecimal{}
		}
		out = append(out, resolved)
		total = total.Add(amount)
	}
	return out, total
}

func validateInputs(in Inputs) error {
	if !in.BasicSalary.IsPositive() {
		return ErrInvalidBasicSalary
	}
	if in.RemainingLeaves < 0 || in.LeaveTaken < 0 || math.IsNaN(in.RemainingLeaves) || math.IsNaN(in.LeaveTaken) {
		return ErrNegativeLeaves
	}
	fields := map[string]string{}
	checkLines(fields, "earnings", in.Earnings)
	checkLines(fields, "deductions", in.Deductions)
	if len(fields) > 0 {
		return apperr.ValidationFields("invalid earning or deduction lines", fields)
	}
	return nil
}

func checkLines(fields map[string]string, name string, lines []Line) {
	for i, line := range lines {
		key := name + "[" + strconv.Itoa(i) + "]"
		if strings.TrimSpace(line.Type) == "" {
			fields[key+".type"] = "is required"
		}
		if line.Percentage.Valid && line.Percentage.Decimal.IsNegative() {
			fields[key+".percentage"] = "cannot be negative"
		}
		if _, fixed := line.Rule().(Fixed); fixed && line.Amount.IsNegative() {
			fields[key+".amount"] = "cannot be negative"
		}
	}
}
