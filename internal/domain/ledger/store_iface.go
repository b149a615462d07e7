package ledger

import (
	"context"
	"time"
)

type StoreAPI interface {
	GetTransaction(ctx context.Context, id string) (Transaction, error)
	// ListTransactions returns transactions dated within [from, to], newest
	// first. Nil bounds are open.
	ListTransactions(ctx context.Context, from, to *time.Time, txType string) ([]Transaction, error)
	CreateTransaction(ctx context.Context, tx Transaction) error
	UpdateTransaction(ctx context.Context, tx Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}
