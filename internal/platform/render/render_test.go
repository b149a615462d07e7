package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/domain/directory"
	"backoffice/internal/domain/invoice"
	"backoffice/internal/domain/payroll"
)

func TestRenderPayslipProducesPDF(t *testing.T) {
	r := New(Company{Name: "Acme Pvt Ltd", Address: "1 Main Road"}, "INR")
	slip := payroll.Payslip{
		ID: "p1", Month: 1, Year: 2024,
		EmployeeName: "Asha", EmployeeDesignation: "Engineer", EmployeePAN: "ABCDE1234F",
		BasicSalary: decimal.NewFromInt(30000), BasicPay: decimal.NewFromInt(27000),
		PaidDays: 27, LOPDays: 3,
		Earnings: []payroll.Line{
			{Type: "HRA", Amount: decimal.NewFromInt(10800), Percentage: decimal.NewNullDecimal(decimal.NewFromInt(40))},
			{Type: "Conveyance", Amount: decimal.NewFromInt(1600)},
		},
		Deductions:      []payroll.Line{{Type: "PF", Amount: decimal.NewFromInt(1800)}},
		GrossEarnings:   decimal.NewFromInt(39400),
		TotalDeductions: decimal.NewFromInt(1800),
		NetPay:          decimal.NewFromInt(37600),
		PayDate:         time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	out, err := r.RenderPayslip(slip)
	if err != nil {
		t.Fatalf("render payslip: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF header")
	}
}

func TestRenderInvoiceProducesPDF(t *testing.T) {
	r := New(Company{Name: "Acme"}, "")
	due := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	inv := invoice.Invoice{
		InvoiceNumber: "INV-00001",
		InvoiceDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       &due,
		Currency:      "USD",
		Items: []invoice.Item{{
			Description: "Café consulting",
			UnitPrice:   decimal.NewFromInt(100),
			Quantity:    decimal.NewFromInt(2),
			Amount:      decimal.NewFromInt(200),
		}},
		TaxPercent:  decimal.NewFromInt(18),
		Subtotal:    decimal.NewFromInt(200),
		TaxAmount:   decimal.NewFromInt(36),
		TotalAmount: decimal.NewFromInt(236),
		Notes:       "Thank you",
	}
	out, err := r.RenderInvoice(inv, directory.Customer{Name: "Globex", Email: "ap@globex.test"})
	if err != nil {
		t.Fatalf("render invoice: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF header")
	}
}

func TestFormatDays(t *testing.T) {
	if formatDays(27) != "27" || formatDays(2.5) != "2.5" {
		t.Fatalf("unexpected day formatting: %s %s", formatDays(27), formatDays(2.5))
	}
}
