package ledger

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/platform/querier"
)

const transactionColumns = `id, description, amount, type, category, date, COALESCE(remarks, ''),
           COALESCE(attachment, ''), COALESCE(invoice_id::text, ''), created_at, updated_at`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var tx Transaction
	err := row.Scan(&tx.ID, &tx.Description, &tx.Amount, &tx.Type, &tx.Category, &tx.Date, &tx.Remarks,
		&tx.Attachment, &tx.InvoiceID, &tx.CreatedAt, &tx.UpdatedAt)
	return tx, err
}

func (s *Store) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	tx, err := scanTransaction(querier.Conn(ctx, s.DB).QueryRow(ctx, `
    SELECT `+transactionColumns+`
    FROM transactions
    WHERE id = $1
  `, id))
	if querier.IsNoRows(err) {
		return Transaction{}, ErrTransactionNotFound
	}
	return tx, err
}

func (s *Store) ListTransactions(ctx context.Context, from, to *time.Time, txType string) ([]Transaction, error) {
	rows, err := querier.Conn(ctx, s.DB).Query(ctx, `
    SELECT `+transactionColumns+`
    FROM transactions
    WHERE ($1::date IS NULL OR date >= $1::date)
      AND ($2::date IS NULL OR date <= $2::date)
      AND ($3 = '' OR type = $3)
    ORDER BY date DESC, created_at DESC
  `, from, to, txType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (s *Store) CreateTransaction(ctx context.Context, tx Transaction) error {
	_, err := querier.Conn(ctx, s.DB).Exec(ctx, `
    INSERT INTO transactions (id, description, amount, type, category, date, remarks, attachment, invoice_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, tx.ID, tx.Description, tx.Amount, tx.Type, tx.Category, tx.Date, nullIfEmpty(tx.Remarks),
		nullIfEmpty(tx.Attachment), nullIfEmpty(tx.InvoiceID))
	return err
}

func (s *Store) UpdateTransaction(ctx context.Context, tx Transaction) error {
	tag, err := querier.Conn(ctx, s.DB).Exec(ctx, `
    UPDATE transactions
    SET description = $2, amount = $3, type = $4, category = $5, date = $6, remarks = $7,
        attachment = $8, updated_at = now()
    WHERE id = $1
  `, tx.ID, tx.Description, tx.Amount, tx.Type, tx.Category, tx.Date, nullIfEmpty(tx.Remarks), nullIfEmpty(tx.Attachment))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	tag, err := querier.Conn(ctx, s.DB).Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
