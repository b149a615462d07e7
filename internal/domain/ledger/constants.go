package ledger

const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"

	CategoryInvoicePayment = "Invoice Payment"
)
