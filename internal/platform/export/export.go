// Package export writes the ledger workbook served by the transactions
// export endpoint.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"backoffice/internal/domain/ledger"
)

const (
	sheetTransactions = "Transactions"
	sheetSummary      = "Summary"
	ContentType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Excel struct{}

func NewExcel() *Excel {
	return &Excel{}
}

func (Excel) ExportLedger(txs []ledger.Transaction, summary ledger.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTransactions); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, err
	}

	headers := []any{"Date", "Description", "Type", "Category", "Amount", "Remarks"}
	if err := f.SetSheetRow(sheetTransactions, "A1", &headers); err != nil {
		return nil, err
	}
	for i, tx := range txs {
		row := []any{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.Type,
			tx.Category,
			amount(tx.Amount),
			tx.Remarks,
		}
		if err := f.SetSheetRow(sheetTransactions, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	if err := writeSummary(f, summary); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, summary ledger.Summary) error {
	rows := [][]any{
		{"Total income", amount(summary.TotalIncome)},
		{"Total expenses", amount(summary.TotalExpenses)},
		{"Net income", amount(summary.NetIncome)},
		{"Income entries", summary.IncomeCount},
		{"Expense entries", summary.ExpenseCount},
		{},
		{"Category", "Income", "Expenses", "Entries"},
	}
	for _, c := range summary.Categories {
		rows = append(rows, []any{c.Category, amount(c.Income), amount(c.Expenses), c.Count})
	}
	rows = append(rows, []any{}, []any{"Month", "Income", "Expenses", "Net"})
	for _, m := range summary.Monthly {
		rows = append(rows, []any{fmt.Sprintf("%04d-%02d", m.Year, m.Month), amount(m.Income), amount(m.Expenses), amount(m.Net)})
	}
	for i := range rows {
		if len(rows[i]) == 0 {
			continue
		}
		if err := f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", i+1), &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

// amount is the numeric cell value, rounded to cents.
func amount(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}
