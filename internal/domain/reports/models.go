package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/domain/ledger"
)

// AdminDashboard is the back office overview for one calendar month.
type AdminDashboard struct {
	Month             int             `json:"month"`
	Year              int             `json:"year"`
	ActiveEmployees   int             `json:"activeEmployees"`
	ActiveCustomers   int             `json:"activeCustomers"`
	DraftSalaries     int             `json:"draftSalaries"`
	PayslipsIssued    int             `json:"payslipsIssued"`
	PayrollNet        decimal.Decimal `json:"payrollNet"`
	// UnpaidInvoices counts open invoices that are not yet overdue.
	UnpaidInvoices    int             `json:"unpaidInvoices"`
	OverdueInvoices   int             `json:"overdueInvoices"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
	OverdueAmount     decimal.Decimal `json:"overdueAmount"`
	Ledger            ledger.Summary  `json:"ledger"`
}

type EmployeeDashboard struct {
	EmployeeID    string           `json:"employeeId"`
	PayslipCount  int              `json:"payslipCount"`
	LatestPayslip *PayslipOverview `json:"latestPayslip,omitempty"`
}

type PayslipOverview struct {
	ID      string          `json:"id"`
	Month   int             `json:"month"`
	Year    int             `json:"year"`
	NetPay  decimal.Decimal `json:"netPay"`
	PayDate time.Time       `json:"payDate"`
}
