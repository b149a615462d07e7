package invoice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/platform/querier"
)

const invoiceColumns = `id, invoice_number, customer_id, invoice_date, due_date, currency, items, tax_percent,
           subtotal, tax_amount, total_amount, COALESCE(notes, ''), status, email_sent, is_disabled,
           payment_txn_number, payment_proof_file, payment_verified_at, payment_ledger_id,
           created_at, updated_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	var items []byte
	var txnNumber, proofFile, ledgerID *string
	var verifiedAt *time.Time
	if err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.InvoiceDate, &inv.DueDate, &inv.Currency, &items, &inv.TaxPercent,
		&inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount, &inv.Notes, &inv.Status, &inv.EmailSent, &inv.IsDisabled,
		&txnNumber, &proofFile, &verifiedAt, &ledgerID,
		&inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return Invoice{}, err
	}
	inv.Items = []Item{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return Invoice{}, err
		}
	}
	if txnNumber != nil && verifiedAt != nil {
		inv.PaymentDetails = &PaymentDetails{
			TransactionNumber: *txnNumber,
			ProofFile:         deref(proofFile),
			VerifiedAt:        *verifiedAt,
			LedgerEntryID:     deref(ledgerID),
		}
	}
	return inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, id string) (Invoice, error) {
	inv, err := scanInvoice(querier.Conn(ctx, s.DB).QueryRow(ctx, `
    SELECT `+invoiceColumns+`
    FROM invoices
    WHERE id = $1
  `, id))
	if querier.IsNoRows(err) {
		return Invoice{}, ErrInvoiceNotFound
	}
	return inv, err
}

func (s *Store) ListInvoices(ctx context.Context, customerID, search string) ([]Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE is_disabled = false`
	var args []any
	if customerID != "" {
		args = append(args, customerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if search = strings.TrimSpace(search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		query += fmt.Sprintf(" AND (invoice_number ILIKE $%d OR notes ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY invoice_date DESC, created_at DESC"

	rows, err := querier.Conn(ctx, s.DB).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *Store) NextInvoiceNumber(ctx context.Context) (string, error) {
	var seq int64
	if err := querier.Conn(ctx, s.DB).QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&seq); err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%05d", seq), nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return err
	}
	_, err = querier.Conn(ctx, s.DB).Exec(ctx, `
    INSERT INTO invoices (id, invoice_number, customer_id, invoice_date, due_date, currency, items, tax_percent,
                          subtotal, tax_amount, total_amount, notes, status, email_sent, is_disabled)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
  `, inv.ID, inv.InvoiceNumber, inv.CustomerID, inv.InvoiceDate, inv.DueDate, inv.Currency, items, inv.TaxPercent,
		inv.Subtotal, inv.TaxAmount, inv.TotalAmount, inv.Notes, inv.Status, inv.EmailSent, inv.IsDisabled)
	if querier.IsUniqueViolation(err) {
		return ErrInvoiceNumberTaken
	}
	return err
}

func (s *Store) UpdateInvoice(ctx context.Context, inv Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return err
	}
	tag, err := querier.Conn(ctx, s.DB).Exec(ctx, `
    UPDATE invoices
    SET invoice_number = $2, customer_id = $3, invoice_date = $4, due_date = $5, currency = $6, items = $7,
        tax_percent = $8, subtotal = $9, tax_amount = $10, total_amount = $11, notes = $12, updated_at = now()
    WHERE id = $1
  `, inv.ID, inv.InvoiceNumber, inv.CustomerID, inv.InvoiceDate, inv.DueDate, inv.Currency, items,
		inv.TaxPercent, inv.Subtotal, inv.TaxAmount, inv.TotalAmount, inv.Notes)
	if querier.IsUniqueViolation(err) {
		return ErrInvoiceNumberTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (s *Store) MarkSent(ctx context.Context, id string) error {
	return s.execOne(ctx, `
    UPDATE invoices SET status = 'sent', email_sent = true, updated_at = now() WHERE id = $1
  `, id)
}

// MarkPaid claims the invoice for payment. It reports false when another
// verification already marked it paid; the row lock serialises racing calls.
func (s *Store) MarkPaid(ctx context.Context, id string, details PaymentDetails) (bool, error) {
	tag, err := querier.Conn(ctx, s.DB).Exec(ctx, `
    UPDATE invoices
    SET status = 'paid', payment_txn_number = $2, payment_proof_file = $3, payment_verified_at = $4,
        updated_at = now()
    WHERE id = $1 AND status <> 'paid'
  `, id, details.TransactionNumber, nullIfEmpty(details.ProofFile), details.VerifiedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) SetPaymentLedgerEntry(ctx context.Context, id, ledgerEntryID string) error {
	return s.execOne(ctx, `
    UPDATE invoices SET payment_ledger_id = $2, updated_at = now() WHERE id = $1
  `, id, ledgerEntryID)
}

func (s *Store) Disable(ctx context.Context, id string) error {
	return s.execOne(ctx, `
    UPDATE invoices SET is_disabled = true, updated_at = now() WHERE id = $1
  `, id)
}

func (s *Store) execOne(ctx context.Context, sql string, args ...any) error {
	tag, err := querier.Conn(ctx, s.DB).Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
