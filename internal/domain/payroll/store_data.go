package payroll

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/platform/querier"
)

const salaryColumns = `id, employee_id, month, year, basic_salary, basic_pay, paid_days, lop_days,
           remaining_leaves, leave_taken, carried_leaves, earnings, deductions,
           gross_earnings, total_deductions, net_pay, status, active_status,
           hike_applied, hike_percentage, created_at, updated_at`

func scanSalaryRecord(row pgx.Row) (SalaryRecord, error) {
	var r SalaryRecord
	var earnings, deductions []byte
	if err := row.Scan(&r.ID, &r.EmployeeID, &r.Month, &r.Year, &r.BasicSalary, &r.BasicPay, &r.PaidDays, &r.LOPDays,
		&r.RemainingLeaves, &r.LeaveTaken, &r.CarriedLeaves, &earnings, &deductions,
		&r.GrossEarnings, &r.TotalDeductions, &r.NetPay, &r.Status, &r.ActiveStatus,
		&r.HikeApplied, &r.HikePercentage, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return SalaryRecord{}, err
	}
	var err error
	if r.Earnings, err = decodeLines(earnings); err != nil {
		return SalaryRecord{}, err
	}
	if r.Deductions, err = decodeLines(deductions); err != nil {
		return SalaryRecord{}, err
	}
	return r, nil
}

func (s *Store) GetSalaryRecord(ctx context.Context, id string) (SalaryRecord, error) {
	r, err := scanSalaryRecord(s.DB.QueryRow(ctx, `
    SELECT `+salaryColumns+`
    FROM salary_records
    WHERE id = $1
  `, id))
	if querier.IsNoRows(err) {
		return SalaryRecord{}, ErrRecordNotFound
	}
	return r, err
}

func (s *Store) FindEnabledRecord(ctx context.Context, employeeID string, month, year int) (SalaryRecord, error) {
	r, err := scanSalaryRecord(s.DB.QueryRow(ctx, `
    SELECT `+salaryColumns+`
    FROM salary_records
    WHERE employee_id = $1 AND month = $2 AND year = $3 AND active_status = 'enabled'
  `, employeeID, month, year))
	if querier.IsNoRows(err) {
		return SalaryRecord{}, ErrRecordNotFound
	}
	return r, err
}

func (s *Store) ListSalaryRecords(ctx context.Context, filter RecordFilter) ([]SalaryRecord, error) {
	query := `SELECT ` + salaryColumns + ` FROM salary_records WHERE 1=1`
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Month != 0 {
		args = append(args, filter.Month)
		query += fmt.Sprintf(" AND month = $%d", len(args))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		query += fmt.Sprintf(" AND year = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.ActiveStatus != "" {
		args = append(args, filter.ActiveStatus)
		query += fmt.Sprintf(" AND active_status = $%d", len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY year DESC, month DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SalaryRecord
	for rows.Next() {
		r, err := scanSalaryRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) EnabledRecordExists(ctx context.Context, employeeID string, month, year int, excludeID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM salary_records
      WHERE employee_id = $1 AND month = $2 AND year = $3
        AND active_status = 'enabled'
        AND ($4 = '' OR id::text <> $4)
    )
  `, employeeID, month, year, excludeID).Scan(&exists)
	return exists, err
}

func (s *Store) CreateSalaryRecord(ctx context.Context, r SalaryRecord) error {
	earnings, deductions, err := encodeLinePair(r.Earnings, r.Deductions)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO salary_records (id, employee_id, month, year, basic_salary, basic_pay, paid_days, lop_days,
                                remaining_leaves, leave_taken, carried_leaves, earnings, deductions,
                                gross_earnings, total_deductions, net_pay, status, active_status,
                                hike_applied, hike_percentage)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
  `, r.ID, r.EmployeeID, r.Month, r.Year, r.BasicSalary, r.BasicPay, r.PaidDays, r.LOPDays,
		r.RemainingLeaves, r.LeaveTaken, r.CarriedLeaves, earnings, deductions,
		r.GrossEarnings, r.TotalDeductions, r.NetPay, r.Status, r.ActiveStatus,
		r.HikeApplied, r.HikePercentage)
	if querier.IsUniqueViolation(err) {
		return ErrDuplicatePeriod
	}
	return err
}

func (s *Store) UpdateSalaryRecord(ctx context.Context, r SalaryRecord) error {
	earnings, deductions, err := encodeLinePair(r.Earnings, r.Deductions)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE salary_records
    SET employee_id = $2, month = $3, year = $4, basic_salary = $5, basic_pay = $6, paid_days = $7,
        lop_days = $8, remaining_leaves = $9, leave_taken = $10, carried_leaves = $11,
        earnings = $12, deductions = $13, gross_earnings = $14, total_deductions = $15,
        net_pay = $16, status = $17, updated_at = now()
    WHERE id = $1
  `, r.ID, r.EmployeeID, r.Month, r.Year, r.BasicSalary, r.BasicPay, r.PaidDays,
		r.LOPDays, r.RemainingLeaves, r.LeaveTaken, r.CarriedLeaves,
		earnings, deductions, r.GrossEarnings, r.TotalDeductions,
		r.NetPay, r.Status)
	if querier.IsUniqueViolation(err) {
		return ErrDuplicatePeriod
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *Store) UpdateSalaryStatus(ctx context.Context, id, status string) error {
	return s.execOne(ctx, ErrRecordNotFound, `
    UPDATE salary_records SET status = $2, updated_at = now() WHERE id = $1
  `, id, status)
}

func (s *Store) UpdateActiveStatus(ctx context.Context, id, activeStatus string) error {
	return s.execOne(ctx, ErrRecordNotFound, `
    UPDATE salary_records SET active_status = $2, updated_at = now() WHERE id = $1
  `, id, activeStatus)
}

// DeleteSalaryRecord keeps hike history: events lose the link, not the row.
// A record referenced by a payslip is refused by the schema.
func (s *Store) DeleteSalaryRecord(ctx context.Context, id string) error {
	err := s.execOne(ctx, ErrRecordNotFound, `DELETE FROM salary_records WHERE id = $1`, id)
	if querier.IsForeignKeyViolation(err) {
		return ErrDeleteIssuedRecord
	}
	return err
}

func (s *Store) CreateHikeEvent(ctx context.Context, e HikeEvent) (HikeEvent, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO hike_events (id, employee_id, salary_record_id, previous_record_id, effective_month,
                             effective_year, hike_start_date, hike_percentage, previous_basic_salary,
                             new_basic_salary, hike_amount)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING seq, created_at
  `, e.ID, e.EmployeeID, e.SalaryRecordID, e.PreviousRecordID, e.EffectiveMonth,
		e.EffectiveYear, e.HikeStartDate, e.HikePercentage, e.PreviousBasicSalary,
		e.NewBasicSalary, e.HikeAmount).Scan(&e.Sequence, &e.CreatedAt)
	return e, err
}

func (s *Store) ListHikeEvents(ctx context.Context, employeeID string) ([]HikeEvent, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, COALESCE(salary_record_id::text, ''), COALESCE(previous_record_id::text, ''),
           effective_month, effective_year, hike_start_date, hike_percentage, previous_basic_salary, new_basic_salary, hike_amount,
           seq, created_at
    FROM hike_events
    WHERE ($1 = '' OR employee_id::text = $1)
    ORDER BY hike_start_date DESC, seq DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HikeEvent
	for rows.Next() {
		var e HikeEvent
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.SalaryRecordID, &e.PreviousRecordID, &e.EffectiveMonth, &e.EffectiveYear,
			&e.HikeStartDate, &e.HikePercentage, &e.PreviousBasicSalary, &e.NewBasicSalary, &e.HikeAmount,
			&e.Sequence, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const payslipColumns = `id, salary_record_id, employee_id, month, year, employee_name, employee_email,
           designation, pan_number, basic_salary, basic_pay, paid_days, lop_days, earnings,
           deductions, gross_earnings, total_deductions, net_pay, pay_date, file_ref, created_at`

func scanPayslip(row pgx.Row) (Payslip, error) {
	var p Payslip
	var earnings, deductions []byte
	if err := row.Scan(&p.ID, &p.SalaryRecordID, &p.EmployeeID, &p.Month, &p.Year, &p.EmployeeName, &p.EmployeeEmail,
		&p.EmployeeDesignation, &p.EmployeePAN, &p.BasicSalary, &p.BasicPay, &p.PaidDays, &p.LOPDays, &earnings,
		&deductions, &p.GrossEarnings, &p.TotalDeductions, &p.NetPay, &p.PayDate, &p.FileRef, &p.CreatedAt); err != nil {
		return Payslip{}, err
	}
	var err error
	if p.Earnings, err = decodeLines(earnings); err != nil {
		return Payslip{}, err
	}
	if p.Deductions, err = decodeLines(deductions); err != nil {
		return Payslip{}, err
	}
	return p, nil
}

func (s *Store) GetPayslip(ctx context.Context, id string) (Payslip, error) {
	p, err := scanPayslip(s.DB.QueryRow(ctx, `
    SELECT `+payslipColumns+`
    FROM payslips
    WHERE id = $1
  `, id))
	if querier.IsNoRows(err) {
		return Payslip{}, ErrPayslipNotFound
	}
	return p, err
}

func (s *Store) PayslipExists(ctx context.Context, employeeID string, month, year int) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM payslips WHERE employee_id = $1 AND month = $2 AND year = $3)
  `, employeeID, month, year).Scan(&exists)
	return exists, err
}

func (s *Store) RecordHasPayslip(ctx context.Context, recordID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM payslips WHERE salary_record_id = $1)
  `, recordID).Scan(&exists)
	return exists, err
}

func (s *Store) CreatePayslip(ctx context.Context, p Payslip) error {
	earnings, deductions, err := encodeLinePair(p.Earnings, p.Deductions)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO payslips (id, salary_record_id, employee_id, month, year, employee_name, employee_email,
                          designation, pan_number, basic_salary, basic_pay, paid_days, lop_days, earnings,
                          deductions, gross_earnings, total_deductions, net_pay, pay_date, file_ref)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
  `, p.ID, p.SalaryRecordID, p.EmployeeID, p.Month, p.Year, p.EmployeeName, p.EmployeeEmail,
		p.EmployeeDesignation, p.EmployeePAN, p.BasicSalary, p.BasicPay, p.PaidDays, p.LOPDays, earnings,
		deductions, p.GrossEarnings, p.TotalDeductions, p.NetPay, p.PayDate, p.FileRef)
	if querier.IsUniqueViolation(err) {
		return ErrPayslipExists
	}
	return err
}

func (s *Store) DeletePayslip(ctx context.Context, id string) error {
	return s.execOne(ctx, ErrPayslipNotFound, `DELETE FROM payslips WHERE id = $1`, id)
}

func (s *Store) ListPayslips(ctx context.Context, filter PayslipFilter) ([]Payslip, error) {
	query := `SELECT ` + payslipColumns + ` FROM payslips WHERE 1=1`
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Month != 0 {
		args = append(args, filter.Month)
		query += fmt.Sprintf(" AND month = $%d", len(args))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		query += fmt.Sprintf(" AND year = $%d", len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY year DESC, month DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanTemplate(row pgx.Row) (SalaryTemplate, error) {
	var t SalaryTemplate
	var earnings, deductions []byte
	if err := row.Scan(&t.ID, &t.Designation, &t.BasicSalary, &t.RemainingLeaves, &earnings, &deductions,
		&t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return SalaryTemplate{}, err
	}
	var err error
	if t.Earnings, err = decodeLines(earnings); err != nil {
		return SalaryTemplate{}, err
	}
	if t.Deductions, err = decodeLines(deductions); err != nil {
		return SalaryTemplate{}, err
	}
	return t, nil
}

func (s *Store) GetTemplate(ctx context.Context, id string) (SalaryTemplate, error) {
	t, err := scanTemplate(s.DB.QueryRow(ctx, `
    SELECT id, designation, basic_salary, remaining_leaves, earnings, deductions, status, created_at, updated_at
    FROM salary_templates
    WHERE id = $1
  `, id))
	if querier.IsNoRows(err) {
		return SalaryTemplate{}, ErrTemplateNotFound
	}
	return t, err
}

func (s *Store) ListTemplates(ctx context.Context, status string) ([]SalaryTemplate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, designation, basic_salary, remaining_leaves, earnings, deductions, status, created_at, updated_at
    FROM salary_templates
    WHERE ($1 = '' OR status = $1)
    ORDER BY designation
  `, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SalaryTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) CreateTemplate(ctx context.Context, t SalaryTemplate) error {
	earnings, deductions, err := encodeLinePair(t.Earnings, t.Deductions)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO salary_templates (id, designation, basic_salary, remaining_leaves, earnings, deductions, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, t.ID, t.Designation, t.BasicSalary, t.RemainingLeaves, earnings, deductions, t.Status)
	return err
}

func (s *Store) UpdateTemplate(ctx context.Context, t SalaryTemplate) error {
	earnings, deductions, err := encodeLinePair(t.Earnings, t.Deductions)
	if err != nil {
		return err
	}
	return s.execOne(ctx, ErrTemplateNotFound, `
    UPDATE salary_templates
    SET designation = $2, basic_salary = $3, remaining_leaves = $4, earnings = $5, deductions = $6, updated_at = now()
    WHERE id = $1
  `, t.ID, t.Designation, t.BasicSalary, t.RemainingLeaves, earnings, deductions)
}

func (s *Store) UpdateTemplateStatus(ctx context.Context, id, status string) error {
	return s.execOne(ctx, ErrTemplateNotFound, `
    UPDATE salary_templates SET status = $2, updated_at = now() WHERE id = $1
  `, id, status)
}

func (s *Store) execOne(ctx context.Context, notFound error, sql string, args ...any) error {
	tag, err := s.DB.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func encodeLinePair(earnings, deductions []Line) ([]byte, []byte, error) {
	e, err := encodeLines(earnings)
	if err != nil {
		return nil, nil, err
	}
	d, err := encodeLines(deductions)
	if err != nil {
		return nil, nil, err
	}
	return e, d, nil
}

func encodeLines(lines []Line) ([]byte, error) {
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}

func decodeLines(raw []byte) ([]Line, error) {
	lines := []Line{}
	if len(raw) == 0 {
		return lines, nil
	}
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
