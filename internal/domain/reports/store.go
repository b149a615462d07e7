package reports

import (
	"context"

	"github.com/shopspring/decimal"

	"backoffice/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) ActiveEmployees(ctx context.Context) (int, error) {
	return s.count(ctx, "SELECT COUNT(1) FROM employees WHERE status = 'Active'")
}

func (s *Store) ActiveCustomers(ctx context.Context) (int, error) {
	return s.count(ctx, "SELECT COUNT(1) FROM customers WHERE status = 'Active'")
}

func (s *Store) DraftSalaries(ctx context.Context, month, year int) (int, error) {
	return s.count(ctx, `
    SELECT COUNT(1) FROM salary_records
    WHERE month = $1 AND year = $2 AND status = 'draft' AND active_status = 'enabled'
  `, month, year)
}

func (s *Store) PayslipTotals(ctx context.Context, month, year int) (int, decimal.Decimal, error) {
	var n int
	var net decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1), COALESCE(SUM(net_pay), 0) FROM payslips WHERE month = $1 AND year = $2
  `, month, year).Scan(&n, &net)
	return n, net, err
}

func (s *Store) EmployeePayslipCount(ctx context.Context, employeeID string) (int, error) {
	return s.count(ctx, "SELECT COUNT(1) FROM payslips WHERE employee_id = $1", employeeID)
}

func (s *Store) LatestPayslip(ctx context.Context, employeeID string) (*PayslipOverview, error) {
	var p PayslipOverview
	err := s.DB.QueryRow(ctx, `
    SELECT id, month, year, net_pay, pay_date
    FROM payslips
    WHERE employee_id = $1
    ORDER BY year DESC, month DESC
    LIMIT 1
  `, employeeID).Scan(&p.ID, &p.Month, &p.Year, &p.NetPay, &p.PayDate)
	if querier.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
