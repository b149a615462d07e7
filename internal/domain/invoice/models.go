package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    decimal.Decimal `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

type PaymentDetails struct {
	TransactionNumber string    `json:"transactionNumber"`
	ProofFile         string    `json:"proofFile"`
	VerifiedAt        time.Time `json:"verifiedAt"`
	LedgerEntryID     string    `json:"ledgerEntryId"`
}

type Invoice struct {
	ID             string          `json:"id"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	CustomerID     string          `json:"customerId"`
	InvoiceDate    time.Time       `json:"invoiceDate"`
	DueDate        *time.Time      `json:"dueDate"`
	Currency       string          `json:"currency"`
	Items          []Item          `json:"items"`
	TaxPercent     decimal.Decimal `json:"taxPercent"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Notes          string          `json:"notes"`
	Status         string          `json:"status"`
	EmailSent      bool            `json:"emailSent"`
	IsDisabled     bool            `json:"isDisabled"`
	PaymentDetails *PaymentDetails `json:"paymentDetails,omitempty"`
	// DisplayStatus is derived on read and never stored.
	DisplayStatus string    `json:"displayStatus"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ItemInput struct {
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    decimal.Decimal `json:"quantity"`
}

type Input struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerID    string          `json:"customerId"`
	InvoiceDate   *time.Time      `json:"invoiceDate"`
	DueDate       *time.Time      `json:"dueDate"`
	Currency      string          `json:"currency"`
	Items         []ItemInput     `json:"items"`
	TaxPercent    decimal.Decimal `json:"taxPercent"`
	Notes         string          `json:"notes"`
	// ConfirmDueDate accepts a manual due date earlier than the customer's
	// payment terms allow.
	ConfirmDueDate bool `json:"confirmDueDate"`
}

type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"totalAmount"`
}

// DueDateWarning flags a manual due date that undercuts the payment terms.
type DueDateWarning struct {
	ManualDueDate  time.Time `json:"manualDueDate"`
	DerivedDueDate time.Time `json:"derivedDueDate"`
	PaymentTerms   int       `json:"paymentTerms"`
	Message        string    `json:"message"`
}

type PaymentInput struct {
	TransactionNumber string
	ProofName         string
	ProofContentType  string
	ProofData         []byte
}

type Filter struct {
	CustomerID string
	// Status matches the display status: draft, sent, paid, overdue or unpaid.
	Status string
	Search string
	Limit  int
	Offset int
}

// Result is what create and update return: the invoice and any due date
// warning the caller confirmed.
type Result struct {
	Invoice Invoice         `json:"invoice"`
	Warning *DueDateWarning `json:"warning,omitempty"`
}
