package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice/internal/domain/directory"
	"backoffice/internal/domain/ledger"
)

type seedCategory struct {
	Kind string
	Name string
}

var defaultCategories = []seedCategory{
	{Kind: directory.CategoryTransaction, Name: ledger.CategoryInvoicePayment},
	{Kind: directory.CategoryTransaction, Name: "Salaries"},
	{Kind: directory.CategoryTransaction, Name: "Rent"},
	{Kind: directory.CategoryTransaction, Name: "Utilities"},
	{Kind: directory.CategoryTransaction, Name: "Office Supplies"},
	{Kind: directory.CategoryTransaction, Name: "Other Income"},
	{Kind: directory.CategoryDepartment, Name: "Engineering"},
	{Kind: directory.CategoryDepartment, Name: "Operations"},
	{Kind: directory.CategoryDesignation, Name: "Software Engineer"},
	{Kind: directory.CategoryDesignation, Name: "Accountant"},
}

// Seed inserts the default categories. It is safe to run on every start.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, c := range defaultCategories {
		if _, err := pool.Exec(ctx, `
    INSERT INTO categories (kind, name)
    VALUES ($1, $2)
    ON CONFLICT (kind, name) DO NOTHING
  `, c.Kind, c.Name); err != nil {
			return err
		}
	}
	return nil
}
