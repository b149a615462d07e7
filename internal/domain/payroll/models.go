package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is a stored earning or deduction. Percentage takes precedence over
// Amount when it is present and positive; after computation Amount holds the
// resolved value and CalculationType records which rule produced it.
type Line struct {
	Type            string              `json:"type"`
	Amount          decimal.Decimal     `json:"amount"`
	Percentage      decimal.NullDecimal `json:"percentage"`
	CalculationType string              `json:"calculationType,omitempty"`
}

type SalaryRecord struct {
	ID              string              `json:"id"`
	EmployeeID      string              `json:"employeeId"`
	Month           int                 `json:"month"`
	Year            int                 `json:"year"`
	BasicSalary     decimal.Decimal     `json:"basicSalary"`
	BasicPay        decimal.Decimal     `json:"basicPay"`
	PaidDays        float64             `json:"paidDays"`
	LOPDays         float64             `json:"lopDays"`
	RemainingLeaves float64             `json:"remainingLeaves"`
	LeaveTaken      float64             `json:"leaveTaken"`
	CarriedLeaves   float64             `json:"carriedLeaves"`
	Earnings        []Line              `json:"earnings"`
	Deductions      []Line              `json:"deductions"`
	GrossEarnings   decimal.Decimal     `json:"grossEarnings"`
	TotalDeductions decimal.Decimal     `json:"totalDeductions"`
	NetPay          decimal.Decimal     `json:"netPay"`
	Status          string              `json:"status"`
	ActiveStatus    string              `json:"activeStatus"`
	HikeApplied     bool                `json:"hikeApplied"`
	HikePercentage  decimal.NullDecimal `json:"hikePercentage"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type SalaryInput struct {
	EmployeeID      string          `json:"employeeId"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	BasicSalary     decimal.Decimal `json:"basicSalary"`
	RemainingLeaves float64         `json:"remainingLeaves"`
	LeaveTaken      float64         `json:"leaveTaken"`
	Earnings        []Line          `json:"earnings"`
	Deductions      []Line          `json:"deductions"`
}

type RecordFilter struct {
	EmployeeID   string
	Month        int
	Year         int
	Status       string
	ActiveStatus string
	Limit        int
	Offset       int
}

type HikeEvent struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employeeId"`
	SalaryRecordID      string          `json:"salaryRecordId"`
	PreviousRecordID    string          `json:"previousRecordId"`
	EffectiveMonth      int             `json:"effectiveMonth"`
	EffectiveYear       int             `json:"effectiveYear"`
	HikeStartDate       time.Time       `json:"hikeStartDate"`
	HikePercentage      decimal.Decimal `json:"hikePercentage"`
	PreviousBasicSalary decimal.Decimal `json:"previousBasicSalary"`
	NewBasicSalary      decimal.Decimal `json:"newBasicSalary"`
	HikeAmount          decimal.Decimal `json:"hikeAmount"`
	Sequence            int64           `json:"sequence"`
	CreatedAt           time.Time       `json:"createdAt"`
}

type HikeInput struct {
	HikePercentage decimal.Decimal `json:"hikePercentage"`
	EffectiveDate  *time.Time      `json:"effectiveDate"`
}

type HikeQuery struct {
	EmployeeID string
	LatestOnly bool
	Month      int
	Year       int
}

type HikeResult struct {
	Previous SalaryRecord `json:"previous"`
	Record   SalaryRecord `json:"record"`
	Event    HikeEvent    `json:"event"`
}

type Payslip struct {
	ID                  string          `json:"id"`
	SalaryRecordID      string          `json:"salaryRecordId"`
	EmployeeID          string          `json:"employeeId"`
	Month               int             `json:"month"`
	Year                int             `json:"year"`
	EmployeeName        string          `json:"employeeName"`
	EmployeeEmail       string          `json:"employeeEmail"`
	EmployeeDesignation string          `json:"designation"`
	EmployeePAN         string          `json:"panNumber"`
	BasicSalary         decimal.Decimal `json:"basicSalary"`
	BasicPay            decimal.Decimal `json:"basicPay"`
	PaidDays            float64         `json:"paidDays"`
	LOPDays             float64         `json:"lopDays"`
	Earnings            []Line          `json:"earnings"`
	Deductions          []Line          `json:"deductions"`
	GrossEarnings       decimal.Decimal `json:"grossEarnings"`
	TotalDeductions     decimal.Decimal `json:"totalDeductions"`
	NetPay              decimal.Decimal `json:"netPay"`
	PayDate             time.Time       `json:"payDate"`
	FileRef             string          `json:"fileRef"`
	CreatedAt           time.Time       `json:"createdAt"`
}

type PayslipInput struct {
	PayDate   *time.Time `json:"payDate"`
	SendEmail bool       `json:"sendEmail"`
}

type PayslipFilter struct {
	EmployeeID string
	Month      int
	Year       int
	Limit      int
	Offset     int
}

type SalaryTemplate struct {
	ID              string          `json:"id"`
	Designation     string          `json:"designation"`
	BasicSalary     decimal.Decimal `json:"basicSalary"`
	RemainingLeaves float64         `json:"remainingLeaves"`
	Earnings        []Line          `json:"earnings"`
	Deductions      []Line          `json:"deductions"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type TemplateInput struct {
	Designation     string          `json:"designation"`
	BasicSalary     decimal.Decimal `json:"basicSalary"`
	RemainingLeaves float64         `json:"remainingLeaves"`
	Earnings        []Line          `json:"earnings"`
	Deductions      []Line          `json:"deductions"`
}

type ApplyTemplateInput struct {
	EmployeeID      string   `json:"employeeId"`
	Month           int      `json:"month"`
	Year            int      `json:"year"`
	LeaveTaken      float64  `json:"leaveTaken"`
	RemainingLeaves *float64 `json:"remainingLeaves"`
}

type LeaveBalance struct {
	EmployeeID      string  `json:"employeeId"`
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	RemainingLeaves float64 `json:"remainingLeaves"`
	LeaveTaken      float64 `json:"leaveTaken"`
	LOPDays         float64 `json:"lopDays"`
	CarriedLeaves   float64 `json:"carriedLeaves"`
}
