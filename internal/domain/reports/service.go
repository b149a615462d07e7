package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/domain/invoice"
	"backoffice/internal/domain/ledger"
)

// invoiceScanLimit bounds how many open invoices feed the receivables figures.
const invoiceScanLimit = 5000

type InvoiceLister interface {
	List(ctx context.Context, filter invoice.Filter) ([]invoice.Invoice, int, error)
}

type LedgerSummarizer interface {
	Summary(ctx context.Context, filter ledger.Filter) (ledger.Summary, error)
}

type Service struct {
	Store    StoreAPI
	Invoices InvoiceLister
	Ledger   LedgerSummarizer
	Now      func() time.Time
}

func NewService(store StoreAPI, invoices InvoiceLister, ledgerSvc LedgerSummarizer) *Service {
	return &Service{Store: store, Invoices: invoices, Ledger: ledgerSvc, Now: time.Now}
}

// AdminDashboard reports the given month. Month and year default to the
// current month when zero. The ledger section covers the year to date.
func (s *Service) AdminDashboard(ctx context.Context, month, year int) (AdminDashboard, error) {
	now := s.Now().UTC()
	if month == 0 || year == 0 {
		month, year = int(now.Month()), now.Year()
	}
	out := AdminDashboard{Month: month, Year: year}

	var err error
	if out.ActiveEmployees, err = s.Store.ActiveEmployees(ctx); err != nil {
		return AdminDashboard{}, err
	}
	if out.ActiveCustomers, err = s.Store.ActiveCustomers(ctx); err != nil {
		return AdminDashboard{}, err
	}
	if out.DraftSalaries, err = s.Store.DraftSalaries(ctx, month, year); err != nil {
		return AdminDashboard{}, err
	}
	if out.PayslipsIssued, out.PayrollNet, err = s.Store.PayslipTotals(ctx, month, year); err != nil {
		return AdminDashboard{}, err
	}

	if err := s.receivables(ctx, &out); err != nil {
		return AdminDashboard{}, err
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	if out.Ledger, err = s.Ledger.Summary(ctx, ledger.Filter{From: &from, To: &to}); err != nil {
		return AdminDashboard{}, err
	}
	return out, nil
}

// receivables sums unpaid invoices, splitting out the overdue ones.
func (s *Service) receivables(ctx context.Context, out *AdminDashboard) error {
	open, _, err := s.Invoices.List(ctx, invoice.Filter{Status: invoice.DisplayUnpaid, Limit: invoiceScanLimit})
	if err != nil {
		return err
	}
	overdue, _, err := s.Invoices.List(ctx, invoice.Filter{Status: invoice.DisplayOverdue, Limit: invoiceScanLimit})
	if err != nil {
		return err
	}
	out.UnpaidInvoices = len(open)
	out.OverdueInvoices = len(overdue)
	out.OutstandingAmount = decimal.Zero
	out.OverdueAmount = decimal.Zero
	for _, inv := range open {
		out.OutstandingAmount = out.OutstandingAmount.Add(inv.TotalAmount)
	}
	for _, inv := range overdue {
		out.OverdueAmount = out.OverdueAmount.Add(inv.TotalAmount)
	}
	out.OutstandingAmount = out.OutstandingAmount.Add(out.OverdueAmount)
	return nil
}

func (s *Service) EmployeeDashboard(ctx context.Context, employeeID string) (EmployeeDashboard, error) {
	out := EmployeeDashboard{EmployeeID: employeeID}
	var err error
	if out.PayslipCount, err = s.Store.EmployeePayslipCount(ctx, employeeID); err != nil {
		return EmployeeDashboard{}, err
	}
	if out.LatestPayslip, err = s.Store.LatestPayslip(ctx, employeeID); err != nil {
		return EmployeeDashboard{}, err
	}
	return out, nil
}
