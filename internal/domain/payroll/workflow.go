package payroll

// Status helpers report whether they changed the record so callers can skip
// writes when a transition is re-applied.

func MarkPaid(r *SalaryRecord) bool {
	if r.Status == StatusPaid {
		return false
	}
	r.Status = StatusPaid
	return true
}

func ResetToDraft(r *SalaryRecord) bool {
	if r.Status == StatusDraft {
		return false
	}
	r.Status = StatusDraft
	return true
}

func Disable(r *SalaryRecord) bool {
	if r.ActiveStatus == ActiveDisabled {
		return false
	}
	r.ActiveStatus = ActiveDisabled
	return true
}

func Enabled(r SalaryRecord) bool {
	return r.ActiveStatus == ActiveEnabled
}

func CanPermanentlyDelete(r SalaryRecord) error {
	if Enabled(r) {
		return ErrDeleteEnabledRecord
	}
	return nil
}

// CanGenerate is true exactly when the record is enabled and its period has
// no payslip yet.
func CanGenerate(r SalaryRecord, payslipExists bool) bool {
	return Enabled(r) && !payslipExists
}

func validPeriod(month, year int) bool {
	return month >= 1 && month <= 12 && year >= MinYear && year <= MaxYear
}
