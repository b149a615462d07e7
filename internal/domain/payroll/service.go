package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"backoffice/internal/domain/directory"
	"backoffice/internal/domain/notifications"
	"backoffice/internal/platform/logging"
)

type Employees interface {
	GetEmployee(ctx context.Context, id string) (directory.Employee, error)
}

// Locker serializes the read-then-write duplicate check for one key.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

type Renderer interface {
	RenderPayslip(p Payslip) ([]byte, error)
}

type Files interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, msg notifications.Message) error
}

type Auditor interface {
	Record(ctx context.Context, action, entityType, entityID string, before, after any) error
}

type Counter interface {
	Inc(name string)
}

type Deps struct {
	Employees Employees
	Locker    Locker
	Renderer  Renderer
	Files     Files
	Notifier  Notifier
	Audit     Auditor
	Metrics   Counter
	Now       func() time.Time
}

type Service struct {
	store StoreAPI
	deps  Deps
	log   *logrus.Entry
}

func NewService(store StoreAPI, deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{store: store, deps: deps, log: logging.For("payroll")}
}

// Preview runs the engine without persisting anything.
func (s *Service) Preview(input SalaryInput) (Computation, error) {
	return Compute(input.inputs())
}

func (s *Service) GetSalaryRecord(ctx context.Context, id string) (SalaryRecord, error) {
	return s.store.GetSalaryRecord(ctx, id)
}

func (s *Service) ListSalaryRecords(ctx context.Context, filter RecordFilter) ([]SalaryRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.store.ListSalaryRecords(ctx, filter)
}

func (s *Service) CreateSalaryRecord(ctx context.Context, input SalaryInput) (SalaryRecord, error) {
	if err := s.checkInput(ctx, input); err != nil {
		return SalaryRecord{}, err
	}
	comp, err := Compute(input.inputs())
	if err != nil {
		return SalaryRecord{}, err
	}

	release, err := s.lockPeriod(ctx, input.EmployeeID, input.Month, input.Year)
	if err != nil {
		return SalaryRecord{}, err
	}
	defer release()

	exists, err := s.store.EnabledRecordExists(ctx, input.EmployeeID, input.Month, input.Year, "")
	if err != nil {
		return SalaryRecord{}, err
	}
	if exists {
		return SalaryRecord{}, ErrDuplicatePeriod
	}

	record := SalaryRecord{
		ID:           uuid.NewString(),
		Status:       StatusDraft,
		ActiveStatus: ActiveEnabled,
	}
	applyInput(&record, input, comp)
	if err := s.store.CreateSalaryRecord(ctx, record); err != nil {
		return SalaryRecord{}, err
	}
	s.audit(ctx, "salary.create", "salary_record", record.ID, nil, record)
	return record, nil
}

// UpdateSalaryRecord recomputes the record from input. Editing a paid record
// puts it back to draft.
func (s *Service) UpdateSalaryRecord(ctx context.Context, id string, input SalaryInput) (SalaryRecord, error) {
	current, err := s.store.GetSalaryRecord(ctx, id)
	if err != nil {
		return SalaryRecord{}, err
	}
	if !Enabled(current) {
		return SalaryRecord{}, ErrRecordDisabled
	}
	if err := s.checkInput(ctx, input); err != nil {
		return SalaryRecord{}, err
	}
	comp, err := Compute(input.inputs())
	if err != nil {
		return SalaryRecord{}, err
	}

	release, err := s.lockPeriod(ctx, input.EmployeeID, input.Month, input.Year)
	if err != nil {
		return SalaryRecord{}, err
	}
	defer release()

	exists, err := s.store.EnabledRecordExists(ctx, input.EmployeeID, input.Month, input.Year, id)
	if err != nil {
		return SalaryRecord{}, err
	}
	if exists {
		return SalaryRecord{}, ErrDuplicatePeriod
	}

	updated := current
	applyInput(&updated, input, comp)
	ResetToDraft(&updated)
	if err := s.store.UpdateSalaryRecord(ctx, updated); err != nil {
		return SalaryRecord{}, err
	}
	s.audit(ctx, "salary.update", "salary_record", id, current, updated)
	return updated, nil
}

// PermanentlyDelete purges a disabled record that never had a payslip. Hike
// events that reference it survive with the link cleared.
func (s *Service) PermanentlyDelete(ctx context.Context, id string) error {
	record, err := s.store.GetSalaryRecord(ctx, id)
	if err != nil {
		return err
	}
	if err := CanPermanentlyDelete(record); err != nil {
		return err
	}
	issued, err := s.store.RecordHasPayslip(ctx, id)
	if err != nil {
		return err
	}
	if issued {
		return ErrDeleteIssuedRecord
	}
	if err := s.store.DeleteSalaryRecord(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, "salary.delete", "salary_record", id, record, nil)
	return nil
}

// ApplyHike disables the source record and creates its successor for the
// effective period, appending one HikeEvent. All three writes share one
// transaction.
func (s *Service) ApplyHike(ctx context.Context, recordID string, input HikeInput) (HikeResult, error) {
	if !input.HikePercentage.IsPositive() {
		return HikeResult{}, ErrInvalidHikePercentage
	}
	if input.EffectiveDate == nil || input.EffectiveDate.IsZero() {
		return HikeResult{}, ErrMissingEffectiveDate
	}
	source, err := s.store.GetSalaryRecord(ctx, recordID)
	if err != nil {
		return HikeResult{}, err
	}
	if !Enabled(source) {
		return HikeResult{}, ErrRecordNotFound
	}

	month, year := PeriodOf(*input.EffectiveDate)
	newBasic, hikeAmount := ComputeHike(source.BasicSalary, input.HikePercentage)
	comp, err := Compute(Inputs{
		BasicSalary:     newBasic,
		RemainingLeaves: source.RemainingLeaves,
		LeaveTaken:      source.LeaveTaken,
		Earnings:        source.Earnings,
		Deductions:      source.Deductions,
	})
	if err != nil {
		return HikeResult{}, err
	}

	release, err := s.lockPeriod(ctx, source.EmployeeID, month, year)
	if err != nil {
		return HikeResult{}, err
	}
	defer release()

	next := SalaryRecord{
		ID:             uuid.NewString(),
		Status:         StatusDraft,
		ActiveStatus:   ActiveEnabled,
		HikeApplied:    true,
		HikePercentage: decimal.NewNullDecimal(input.HikePercentage),
	}
	applyInput(&next, SalaryInput{
		EmployeeID:      source.EmployeeID,
		Month:           month,
		Year:            year,
		BasicSalary:     newBasic,
		RemainingLeaves: source.RemainingLeaves,
		LeaveTaken:      source.LeaveTaken,
	}, comp)

	event := HikeEvent{
		ID:                  uuid.NewString(),
		EmployeeID:          source.EmployeeID,
		SalaryRecordID:      next.ID,
		PreviousRecordID:    source.ID,
		EffectiveMonth:      month,
		EffectiveYear:       year,
		HikeStartDate:       *input.EffectiveDate,
		HikePercentage:      input.HikePercentage,
		PreviousBasicSalary: source.BasicSalary,
		NewBasicSalary:      newBasic,
		HikeAmount:          hikeAmount,
	}

	err = s.store.WithTx(ctx, func(tx StoreAPI) error {
		exists, err := tx.EnabledRecordExists(ctx, source.EmployeeID, month, year, source.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicatePeriod
		}
		if err := tx.UpdateActiveStatus(ctx, source.ID, ActiveDisabled); err != nil {
			return err
		}
		if err := tx.CreateSalaryRecord(ctx, next); err != nil {
			return err
		}
		event, err = tx.CreateHikeEvent(ctx, event)
		return err
	})
	if err != nil {
		return HikeResult{}, err
	}

	previous := source
	Disable(&previous)
	s.count(MetricHikesApplied)
	s.audit(ctx, "salary.hike", "salary_record", next.ID, source, event)
	return HikeResult{Previous: previous, Record: next, Event: event}, nil
}

func (s *Service) ListHikes(ctx context.Context, q HikeQuery) ([]HikeEvent, error) {
	if q.Month < 0 || q.Month > 12 {
		return nil, ErrInvalidPeriod
	}
	events, err := s.store.ListHikeEvents(ctx, q.EmployeeID)
	if err != nil {
		return nil, err
	}
	return SelectHikes(events, q), nil
}

func (s *Service) CanGenerate(ctx context.Context, recordID string) (bool, error) {
	record, err := s.store.GetSalaryRecord(ctx, recordID)
	if err != nil {
		return false, err
	}
	exists, err := s.store.PayslipExists(ctx, record.EmployeeID, record.Month, record.Year)
	if err != nil {
		return false, err
	}
	return CanGenerate(record, exists), nil
}

// GeneratePayslip freezes the record into a payslip, renders it and marks
// the record paid. Email delivery is best effort.
func (s *Service) GeneratePayslip(ctx context.Context, recordID string, input PayslipInput) (Payslip, error) {
	record, err := s.store.GetSalaryRecord(ctx, recordID)
	if err != nil {
		return Payslip{}, err
	}
	if !Enabled(record) {
		return Payslip{}, ErrRecordDisabled
	}
	exists, err := s.store.PayslipExists(ctx, record.EmployeeID, record.Month, record.Year)
	if err != nil {
		return Payslip{}, err
	}
	if exists {
		return Payslip{}, ErrPayslipExists
	}

	var employee directory.Employee
	if s.deps.Employees != nil {
		if employee, err = s.deps.Employees.GetEmployee(ctx, record.EmployeeID); err != nil {
			return Payslip{}, err
		}
	}

	payDate := s.deps.Now()
	if input.PayDate != nil && !input.PayDate.IsZero() {
		payDate = *input.PayDate
	}
	slip := snapshot(record, employee, payDate)

	var document []byte
	if s.deps.Renderer != nil {
		if document, err = s.deps.Renderer.RenderPayslip(slip); err != nil {
			return Payslip{}, fmt.Errorf("render payslip: %w", err)
		}
		if s.deps.Files != nil {
			ref, err := s.deps.Files.Save(ctx, payslipFileName(slip), "application/pdf", document)
			if err != nil {
				return Payslip{}, fmt.Errorf("store payslip: %w", err)
			}
			slip.FileRef = ref
		}
	}

	err = s.store.WithTx(ctx, func(tx StoreAPI) error {
		if err := tx.CreatePayslip(ctx, slip); err != nil {
			return err
		}
		if MarkPaid(&record) {
			return tx.UpdateSalaryStatus(ctx, record.ID, StatusPaid)
		}
		return nil
	})
	if err != nil {
		return Payslip{}, err
	}
	slip.CreatedAt = s.deps.Now()

	s.count(MetricPayslipsGenerated)
	s.audit(ctx, "payslip.generate", "payslip", slip.ID, nil, slip)
	if input.SendEmail {
		s.emailPayslip(ctx, slip, document)
	}
	return slip, nil
}

// DeletePayslip removes the payslip and returns its source record to draft.
func (s *Service) DeletePayslip(ctx context.Context, id string) error {
	slip, err := s.store.GetPayslip(ctx, id)
	if err != nil {
		return err
	}
	err = s.store.WithTx(ctx, func(tx StoreAPI) error {
		if err := tx.DeletePayslip(ctx, id); err != nil {
			return err
		}
		record, err := tx.GetSalaryRecord(ctx, slip.SalaryRecordID)
		if errors.Is(err, ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if ResetToDraft(&record) {
			return tx.UpdateSalaryStatus(ctx, record.ID, StatusDraft)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.audit(ctx, "payslip.delete", "payslip", id, slip, nil)
	return nil
}

func (s *Service) GetPayslip(ctx context.Context, id string) (Payslip, error) {
	return s.store.GetPayslip(ctx, id)
}

func (s *Service) ListPayslips(ctx context.Context, filter PayslipFilter) ([]Payslip, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.store.ListPayslips(ctx, filter)
}

// LeaveBalance reports the leave position of the enabled record for a
// period, including the balance carried into the next one.
func (s *Service) LeaveBalance(ctx context.Context, employeeID string, month, year int) (LeaveBalance, error) {
	if !validPeriod(month, year) {
		return LeaveBalance{}, ErrInvalidPeriod
	}
	record, err := s.store.FindEnabledRecord(ctx, employeeID, month, year)
	if err != nil {
		return LeaveBalance{}, err
	}
	return LeaveBalance{
		EmployeeID:      employeeID,
		Month:           month,
		Year:            year,
		RemainingLeaves: record.RemainingLeaves,
		LeaveTaken:      record.LeaveTaken,
		LOPDays:         record.LOPDays,
		CarriedLeaves:   record.CarriedLeaves,
	}, nil
}

func (s *Service) checkInput(ctx context.Context, input SalaryInput) error {
	if strings.TrimSpace(input.EmployeeID) == "" {
		return ErrMissingEmployee
	}
	if !validPeriod(input.Month, input.Year) {
		return ErrInvalidPeriod
	}
	if s.deps.Employees != nil {
		if _, err := s.deps.Employees.GetEmployee(ctx, input.EmployeeID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) lockPeriod(ctx context.Context, employeeID string, month, year int) (func(), error) {
	if s.deps.Locker == nil {
		return func() {}, nil
	}
	return s.deps.Locker.Lock(ctx, fmt.Sprintf("salary:%s:%04d-%02d", employeeID, year, month))
}

func (s *Service) emailPayslip(ctx context.Context, slip Payslip, document []byte) {
	if s.deps.Notifier == nil {
		return
	}
	msg := notifications.Message{
		Type:     notifications.TypePayslipIssued,
		EntityID: slip.ID,
		To:       slip.EmployeeEmail,
		Subject:  fmt.Sprintf("Payslip for %s %d", time.Month(slip.Month), slip.Year),
		Body:     fmt.Sprintf("Hello %s,\n\nYour payslip for %s %d is attached.\n", slip.EmployeeName, time.Month(slip.Month), slip.Year),
	}
	if len(document) > 0 {
		msg.Attachments = []notifications.Attachment{{Name: payslipFileName(slip), ContentType: "application/pdf", Data: document}}
	}
	if err := s.deps.Notifier.Notify(ctx, msg); err != nil {
		logging.LogError(s.log, "GeneratePayslip", "email payslip", slip.ID, err)
	}
}

func (s *Service) audit(ctx context.Context, action, entityType, entityID string, before, after any) {
	if s.deps.Audit == nil {
		return
	}
	if err := s.deps.Audit.Record(ctx, action, entityType, entityID, before, after); err != nil {
		logging.LogError(s.log, action, "audit", entityID, err)
	}
}

func (s *Service) count(name string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.Inc(name)
	}
}

func (in SalaryInput) inputs() Inputs {
	return Inputs{
		BasicSalary:     in.BasicSalary,
		RemainingLeaves: in.RemainingLeaves,
		LeaveTaken:      in.LeaveTaken,
		Earnings:        in.Earnings,
		Deductions:      in.Deductions,
	}
}

func applyInput(r *SalaryRecord, in SalaryInput, comp Computation) {
	r.EmployeeID = strings.TrimSpace(in.EmployeeID)
	r.Month = in.Month
	r.Year = in.Year
	r.BasicSalary = in.BasicSalary
	r.RemainingLeaves = in.RemainingLeaves
	r.LeaveTaken = in.LeaveTaken
	r.BasicPay = comp.BasicPay
	r.PaidDays = comp.PaidDays
	r.LOPDays = comp.LOPDays
	r.CarriedLeaves = comp.CarriedLeaves
	r.Earnings = comp.Earnings
	r.Deductions = comp.Deductions
	r.GrossEarnings = comp.GrossEarnings
	r.TotalDeductions = comp.TotalDeductions
	r.NetPay = comp.NetPay
}

func snapshot(r SalaryRecord, e directory.Employee, payDate time.Time) Payslip {
	return Payslip{
		ID:                  uuid.NewString(),
		SalaryRecordID:      r.ID,
		EmployeeID:          r.EmployeeID,
		Month:               r.Month,
		Year:                r.Year,
		EmployeeName:        e.Name,
		EmployeeEmail:       e.Email,
		EmployeeDesignation: e.Designation,
		EmployeePAN:         e.PAN,
		BasicSalary:         r.BasicSalary,
		BasicPay:            r.BasicPay,
		PaidDays:            r.PaidDays,
		LOPDays:             r.LOPDays,
		Earnings:            append([]Line(nil), r.Earnings...),
		Deductions:          append([]Line(nil), r.Deductions...),
		GrossEarnings:       r.GrossEarnings,
		TotalDeductions:     r.TotalDeductions,
		NetPay:              r.NetPay,
		PayDate:             payDate,
	}
}

func payslipFileName(p Payslip) string {
	return fmt.Sprintf("payslips/%d-%02d/%s.pdf", p.Year, p.Month, p.ID)
}
