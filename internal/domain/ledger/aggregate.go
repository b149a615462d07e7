package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Summarize totals a set of transactions. An empty set yields zeros.
func Summarize(txs []Transaction) Summary {
	summary := Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		Categories:    []CategoryTotal{},
		Monthly:       []MonthlyTotal{},
	}
	categories := map[string]*CategoryTotal{}
	type period struct{ year, month int }
	months := map[period]*MonthlyTotal{}

	for _, tx := range txs {
		cat, ok := categories[tx.Category]
		if !ok {
			cat = &CategoryTotal{Category: tx.Category, Income: decimal.Zero, Expenses: decimal.Zero}
			categories[tx.Category] = cat
		}
		key := period{tx.Date.Year(), int(tx.Date.Month())}
		month, ok := months[key]
		if !ok {
			month = &MonthlyTotal{Year: key.year, Month: key.month, Income: decimal.Zero, Expenses: decimal.Zero}
			months[key] = month
		}
		cat.Count++

		switch tx.Type {
		case TypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
			summary.IncomeCount++
			cat.Income = cat.Income.Add(tx.Amount)
			month.Income = month.Income.Add(tx.Amount)
		case TypeExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(tx.Amount)
			summary.ExpenseCount++
			cat.Expenses = cat.Expenses.Add(tx.Amount)
			month.Expenses = month.Expenses.Add(tx.Amount)
		}
	}
	summary.NetIncome = summary.TotalIncome.Sub(summary.TotalExpenses)

	for _, cat := range categories {
		summary.Categories = append(summary.Categories, *cat)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Category < summary.Categories[j].Category
	})
	for _, month := range months {
		month.Net = month.Income.Sub(month.Expenses)
		summary.Monthly = append(summary.Monthly, *month)
	}
	sort.Slice(summary.Monthly, func(i, j int) bool {
		a, b := summary.Monthly[i], summary.Monthly[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	return summary
}

func Matches(tx Transaction, f Filter) bool {
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		if !strings.Contains(strings.ToLower(tx.Description), search) && !strings.Contains(strings.ToLower(tx.Remarks), search) {
			return false
		}
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Category != "" && tx.Category != f.Category {
		return false
	}
	day := dateOnly(tx.Date)
	if f.From != nil && day.Before(dateOnly(*f.From)) {
		return false
	}
	if f.To != nil && day.After(dateOnly(*f.To)) {
		return false
	}
	return true
}

// Apply keeps the transactions matching f, preserving order.
func Apply(txs []Transaction, f Filter) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if Matches(tx, f) {
			out = append(out, tx)
		}
	}
	return out
}

func paginate(txs []Transaction, limit, offset int) []Transaction {
	if offset >= len(txs) {
		return []Transaction{}
	}
	end := len(txs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return txs[offset:end]
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
