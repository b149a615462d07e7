package payroll

import "backoffice/internal/domain/apperr"

var (
	ErrRecordNotFound        = apperr.NotFound("salary record not found")
	ErrPayslipNotFound       = apperr.NotFound("payslip not found")
	ErrTemplateNotFound      = apperr.NotFound("salary template not found")
	ErrDuplicatePeriod       = apperr.Duplicate("an enabled salary record already exists for this employee and period")
	ErrPayslipExists         = apperr.Duplicate("a payslip already exists for this employee and period")
	ErrRecordDisabled        = apperr.StateConflict("salary record is disabled")
	ErrDeleteEnabledRecord   = apperr.StateConflict("only disabled salary records can be permanently deleted")
	ErrDeleteIssuedRecord    = apperr.StateConflict("salary record has an issued payslip and cannot be permanently deleted")
	ErrTemplateInactive      = apperr.StateConflict("salary template is inactive")
	ErrInvalidBasicSalary    = apperr.Validation("basic salary must be greater than zero")
	ErrNegativeLeaves        = apperr.Validation("leave balances cannot be negative")
	ErrLOPExceedsPeriod      = apperr.Validationf("loss of pay days cannot exceed %d", DaysInPeriod)
	ErrInvalidHikePercentage = apperr.Validation("hike percentage must be greater than zero")
	ErrMissingEffectiveDate  = apperr.Validation("hike effective date is required")
	ErrInvalidPeriod         = apperr.Validation("month must be 1-12 and year must be a valid calendar year")
	ErrMissingEmployee       = apperr.Validation("employee id is required")
	ErrMissingDesignation    = apperr.Validation("designation is required")
	ErrInvalidTemplateStatus = apperr.Validation("template status must be active or inactive")
)
