package payroll

const (
	StatusDraft = "draft"
	StatusPaid  = "paid"

	ActiveEnabled  = "enabled"
	ActiveDisabled = "disabled"

	CalculationAmount     = "amount"
	CalculationPercentage = "percentage"

	TemplateActive   = "active"
	TemplateInactive = "inactive"

	// DaysInPeriod is the fixed month length used for pro-ration.
	DaysInPeriod = 30

	// MinYear bounds accepted periods to keep typos like 224 out.
	MinYear = 2000
	MaxYear = 2100

	MetricPayslipsGenerated = "payslips_generated"
	MetricHikesApplied      = "hikes_applied"
)
