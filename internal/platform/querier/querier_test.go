package querier

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type plainDB struct{ name string }

func (plainDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (plainDB) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (plainDB) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestInTxWithoutBeginnerRunsDirectly(t *testing.T) {
	db := plainDB{name: "pool"}
	var got Querier
	if err := InTx(context.Background(), db, func(q Querier) error {
		got = q
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != db {
		t.Fatalf("expected fn to receive db, got %v", got)
	}
}

func TestConnFallsBackToDB(t *testing.T) {
	db := plainDB{name: "pool"}
	if got := Conn(context.Background(), db); got != db {
		t.Fatalf("expected db, got %v", got)
	}
	tx := plainDB{name: "tx"}
	ctx := context.WithValue(context.Background(), txKey{}, Querier(tx))
	if got := Conn(ctx, db); got != tx {
		t.Fatalf("expected carried tx, got %v", got)
	}
}

func TestRunInTxReusesCarriedTx(t *testing.T) {
	tx := plainDB{name: "tx"}
	ctx := context.WithValue(context.Background(), txKey{}, Querier(tx))
	err := RunInTx(ctx, plainDB{name: "pool"}, func(inner context.Context) error {
		if Conn(inner, nil) != tx {
			return errors.New("nested call did not reuse tx")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestErrorClassifiers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if !IsUniqueViolation(unique) {
		t.Fatal("expected unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation is not a unique violation")
	}
	if !IsForeignKeyViolation(fmt.Errorf("delete: %w", &pgconn.PgError{Code: "23503"})) || IsForeignKeyViolation(unique) {
		t.Fatal("expected only 23503 to be a foreign key violation")
	}
	if !IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)) {
		t.Fatal("expected no rows")
	}
}
