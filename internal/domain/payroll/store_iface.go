package payroll

import "context"

type StoreAPI interface {
	// WithTx runs fn against a store bound to a single transaction.
	WithTx(ctx context.Context, fn func(StoreAPI) error) error

	GetSalaryRecord(ctx context.Context, id string) (SalaryRecord, error)
	ListSalaryRecords(ctx context.Context, filter RecordFilter) ([]SalaryRecord, error)
	EnabledRecordExists(ctx context.Context, employeeID string, month, year int, excludeID string) (bool, error)
	FindEnabledRecord(ctx context.Context, employeeID string, month, year int) (SalaryRecord, error)
	CreateSalaryRecord(ctx context.Context, record SalaryRecord) error
	UpdateSalaryRecord(ctx context.Context, record SalaryRecord) error
	UpdateSalaryStatus(ctx context.Context, id, status string) error
	UpdateActiveStatus(ctx context.Context, id, activeStatus string) error
	DeleteSalaryRecord(ctx context.Context, id string) error

	CreateHikeEvent(ctx context.Context, event HikeEvent) (HikeEvent, error)
	ListHikeEvents(ctx context.Context, employeeID string) ([]HikeEvent, error)

	GetPayslip(ctx context.Context, id string) (Payslip, error)
	PayslipExists(ctx context.Context, employeeID string, month, year int) (bool, error)
	RecordHasPayslip(ctx context.Context, recordID string) (bool, error)
	CreatePayslip(ctx context.Context, payslip Payslip) error
	DeletePayslip(ctx context.Context, id string) error
	ListPayslips(ctx context.Context, filter PayslipFilter) ([]Payslip, error)

	GetTemplate(ctx context.Context, id string) (SalaryTemplate, error)
	ListTemplates(ctx context.Context, status string) ([]SalaryTemplate, error)
	CreateTemplate(ctx context.Context, template SalaryTemplate) error
	UpdateTemplate(ctx context.Context, template SalaryTemplate) error
	UpdateTemplateStatus(ctx context.Context, id, status string) error
}
