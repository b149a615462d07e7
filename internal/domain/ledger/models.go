package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Remarks     string          `json:"remarks"`
	Attachment  string          `json:"attachment"`
	InvoiceID   string          `json:"invoiceId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type TransactionInput struct {
	Description string          `json:"description" validate:"required,max=200"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type" validate:"required,oneof=Income Expense"`
	Category    string          `json:"category" validate:"required,max=80"`
	Date        *time.Time      `json:"date" validate:"required"`
	Remarks     string          `json:"remarks" validate:"max=500"`
	Attachment  string          `json:"attachment" validate:"max=500"`
	// InvoiceID is set only by payment verification.
	InvoiceID string `json:"-"`
}

// Filter selects transactions. Search is a case-insensitive substring match
// over description and remarks; From and To are inclusive calendar days.
type Filter struct {
	Search   string
	Type     string
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

type Summary struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	IncomeCount   int             `json:"incomeCount"`
	ExpenseCount  int             `json:"expenseCount"`
	Categories    []CategoryTotal `json:"categories"`
	Monthly       []MonthlyTotal  `json:"monthly"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Count    int             `json:"count"`
}

type MonthlyTotal struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

type Page struct {
	Items []Transaction `json:"items"`
	Total int           `json:"total"`
}
