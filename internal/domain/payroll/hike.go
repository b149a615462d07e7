package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/domain/money"
)

var one = decimal.NewFromInt(1)

// ComputeHike returns the rounded new basic salary and the difference from
// the previous one.
func ComputeHike(previous, percent decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	next := money.RoundUnit(previous.Mul(one.Add(percent.Div(decimal.NewFromInt(100)))))
	return next, next.Sub(previous)
}

// PeriodOf maps a date to its payroll month and year.
func PeriodOf(t time.Time) (int, int) {
	return int(t.Month()), t.Year()
}

// SelectHikes orders events newest first by start date, later insertions
// winning ties, then applies the query's latest-only or month/year filter.
func SelectHikes(events []HikeEvent, q HikeQuery) []HikeEvent {
	sorted := make([]HikeEvent, 0, len(events))
	for _, event := range events {
		if q.EmployeeID != "" && event.EmployeeID != q.EmployeeID {
			continue
		}
		sorted = append(sorted, event)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.HikeStartDate.Equal(b.HikeStartDate) {
			return a.HikeStartDate.After(b.HikeStartDate)
		}
		return a.Sequence > b.Sequence
	})

	if q.LatestOnly {
		if len(sorted) == 0 {
			return []HikeEvent{}
		}
		return sorted[:1]
	}

	out := make([]HikeEvent, 0, len(sorted))
	for _, event := range sorted {
		if q.Month != 0 && event.EffectiveMonth != q.Month {
			continue
		}
		if q.Year != 0 && event.EffectiveYear != q.Year {
			continue
		}
		out = append(out, event)
	}
	return out
}
