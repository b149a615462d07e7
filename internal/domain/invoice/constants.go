package invoice

const (
	StatusDraft = "draft"
	StatusSent  = "sent"
	StatusPaid  = "paid"

	DisplayPaid    = "paid"
	DisplayOverdue = "overdue"
	DisplayUnpaid  = "unpaid"

	// OverdueAfterDays marks an unpaid invoice overdue regardless of its due
	// date.
	OverdueAfterDays = 30

	DefaultCurrency = "INR"

	MetricInvoicesSent = "invoices_sent"
	MetricInvoicesPaid = "invoices_paid"
)
