package invoice

import (
	"context"

	"backoffice/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return querier.RunInTx(ctx, s.DB, fn)
}
