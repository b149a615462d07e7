package directory

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"

	CategoryDesignation = "designation"
	CategoryDepartment  = "department"
	CategoryTransaction = "transaction"
)
