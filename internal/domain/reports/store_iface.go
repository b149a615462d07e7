package reports

import (
	"context"

	"github.com/shopspring/decimal"
)

type StoreAPI interface {
	ActiveEmployees(ctx context.Context) (int, error)
	ActiveCustomers(ctx context.Context) (int, error)
	DraftSalaries(ctx context.Context, month, year int) (int, error)
	PayslipTotals(ctx context.Context, month, year int) (int, decimal.Decimal, error)
	EmployeePayslipCount(ctx context.Context, employeeID string) (int, error)
	LatestPayslip(ctx context.Context, employeeID string) (*PayslipOverview, error)
}
