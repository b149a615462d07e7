package invoice

import "context"

type StoreAPI interface {
	// RunInTx runs fn with a transaction carried in ctx, shared with any
	// other store that reads it from there.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error

	GetInvoice(ctx context.Context, id string) (Invoice, error)
	// ListInvoices returns enabled invoices, newest first.
	ListInvoices(ctx context.Context, customerID, search string) ([]Invoice, error)
	NextInvoiceNumber(ctx context.Context) (string, error)
	CreateInvoice(ctx context.Context, inv Invoice) error
	UpdateInvoice(ctx context.Context, inv Invoice) error
	MarkSent(ctx context.Context, id string) error
	// MarkPaid reports false without writing when the invoice is already paid.
	MarkPaid(ctx context.Context, id string, details PaymentDetails) (bool, error)
	SetPaymentLedgerEntry(ctx context.Context, id, ledgerEntryID string) error
	Disable(ctx context.Context, id string) error
}
