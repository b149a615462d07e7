package notifications

const (
	TypePayslipIssued = "payslip_issued"
	TypeInvoiceSent   = "invoice_sent"

	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
	DeliverySkipped = "skipped"
)
