// Package render produces the PDF documents attached to payslip and invoice
// emails.
package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"backoffice/internal/domain/directory"
	"backoffice/internal/domain/invoice"
	"backoffice/internal/domain/money"
	"backoffice/internal/domain/payroll"
)

type Company struct {
	Name    string
	Address string
}

type PDF struct {
	company  Company
	currency string
}

// New returns a renderer. currency is used for payslips, which carry no
// currency of their own.
func New(company Company, currency string) *PDF {
	if currency == "" {
		currency = "INR"
	}
	return &PDF{company: company, currency: currency}
}

type document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newDocument(title string) *document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	return &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *document) heading(company Company, title string) {
	d.pdf.SetFont("Helvetica", "B", 16)
	d.pdf.Cell(0, 10, d.tr(company.Name))
	d.pdf.Ln(8)
	if company.Address != "" {
		d.pdf.SetFont("Helvetica", "", 9)
		d.pdf.MultiCell(0, 5, d.tr(company.Address), "", "L", false)
	}
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.Cell(0, 8, d.tr(title))
	d.pdf.Ln(10)
	d.pdf.SetFont("Helvetica", "", 10)
}

func (d *document) field(label, value string) {
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.Cell(45, 6, d.tr(label))
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.Cell(0, 6, d.tr(value))
	d.pdf.Ln(6)
}

func (d *document) row(widths []float64, cells []string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont("Helvetica", style, 10)
	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		d.pdf.CellFormat(widths[i], 7, d.tr(cell), "1", 0, align, false, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *PDF) RenderPayslip(p payroll.Payslip) ([]byte, error) {
	period := fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
	doc := newDocument("Payslip " + period)
	doc.heading(r.company, "Payslip for "+period)

	doc.field("Employee", p.EmployeeName)
	doc.field("Designation", p.EmployeeDesignation)
	if p.EmployeePAN != "" {
		doc.field("PAN", p.EmployeePAN)
	}
	doc.field("Pay date", p.PayDate.Format("02 Jan 2006"))
	doc.field("Paid days", formatDays(p.PaidDays))
	doc.field("LOP days", formatDays(p.LOPDays))
	doc.field("Basic salary", money.FormatAmount(r.currency, p.BasicSalary))
	doc.pdf.Ln(4)

	widths := []float64{110, 70}
	doc.row(widths, []string{"Earnings", "Amount"}, true)
	doc.row(widths, []string{"Basic pay", money.FormatAmount(r.currency, p.BasicPay)}, false)
	for _, line := range p.Earnings {
		doc.row(widths, []string{lineLabel(line), money.FormatAmount(r.currency, line.Amount)}, false)
	}
	doc.row(widths, []string{"Gross earnings", money.FormatAmount(r.currency, p.GrossEarnings)}, true)
	doc.pdf.Ln(4)

	doc.row(widths, []string{"Deductions", "Amount"}, true)
	for _, line := range p.Deductions {
		doc.row(widths, []string{lineLabel(line), money.FormatAmount(r.currency, line.Amount)}, false)
	}
	doc.row(widths, []string{"Total deductions", money.FormatAmount(r.currency, p.TotalDeductions)}, true)
	doc.pdf.Ln(4)

	doc.row(widths, []string{"Net pay", money.FormatAmount(r.currency, p.NetPay)}, true)
	return doc.bytes()
}

func (r *PDF) RenderInvoice(inv invoice.Invoice, customer directory.Customer) ([]byte, error) {
	doc := newDocument("Invoice " + inv.InvoiceNumber)
	doc.heading(r.company, "Invoice "+inv.InvoiceNumber)

	doc.field("Bill to", customer.Name)
	if customer.Address != "" {
		doc.field("Address", customer.Address)
	}
	doc.field("Email", customer.Email)
	doc.field("Invoice date", inv.InvoiceDate.Format("02 Jan 2006"))
	if inv.DueDate != nil {
		doc.field("Due date", inv.DueDate.Format("02 Jan 2006"))
	}
	doc.pdf.Ln(4)

	widths := []float64{85, 30, 30, 35}
	doc.row(widths, []string{"Description", "Unit price", "Qty", "Amount"}, true)
	for _, item := range inv.Items {
		doc.row(widths, []string{
			item.Description,
			money.FormatAmount(inv.Currency, item.UnitPrice),
			item.Quantity.String(),
			money.FormatAmount(inv.Currency, item.Amount),
		}, false)
	}

	totals := []float64{145, 35}
	doc.row(totals, []string{"Subtotal", money.FormatAmount(inv.Currency, inv.Subtotal)}, false)
	doc.row(totals, []string{fmt.Sprintf("Tax (%s%%)", inv.TaxPercent.String()), money.FormatAmount(inv.Currency, inv.TaxAmount)}, false)
	doc.row(totals, []string{"Total", money.FormatAmount(inv.Currency, inv.TotalAmount)}, true)

	if inv.Notes != "" {
		doc.pdf.Ln(6)
		doc.pdf.SetFont("Helvetica", "", 9)
		doc.pdf.MultiCell(0, 5, doc.tr(inv.Notes), "", "L", false)
	}
	return doc.bytes()
}

func lineLabel(line payroll.Line) string {
	if line.Percentage.Valid {
		return fmt.Sprintf("%s (%s%%)", line.Type, line.Percentage.Decimal.String())
	}
	return line.Type
}

func formatDays(days float64) string {
	return decimal.NewFromFloat(days).String()
}
