package auth

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

const (
	PermDirectoryRead    = "directory.read"
	PermDirectoryWrite   = "directory.write"
	PermPayrollRead      = "payroll.read"
	PermPayrollWrite     = "payroll.write"
	PermPayslipRead      = "payroll.payslips.read"
	PermPayslipIssue     = "payroll.payslips.issue"
	PermInvoicesRead     = "invoices.read"
	PermInvoicesWrite    = "invoices.write"
	PermLedgerRead       = "ledger.read"
	PermLedgerWrite      = "ledger.write"
	PermReportsRead      = "reports.read"
	PermAuditRead        = "audit.read"
	PermNotificationRead = "notifications.read"
)

var DefaultPermissions = []string{
	PermDirectoryRead,
	PermDirectoryWrite,
	PermPayrollRead,
	PermPayrollWrite,
	PermPayslipRead,
	PermPayslipIssue,
	PermInvoicesRead,
	PermInvoicesWrite,
	PermLedgerRead,
	PermLedgerWrite,
	PermReportsRead,
	PermAuditRead,
	PermNotificationRead,
}

// RolePermissions is the static role table. Employees only reach their own
// payslips; handlers narrow the query to the caller's employee id.
var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermPayslipRead,
	},
	RoleAdmin: DefaultPermissions,
}

func HasPermission(role, permission string) bool {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true
		}
	}
	return false
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
