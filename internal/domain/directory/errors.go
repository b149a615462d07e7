package directory

import "backoffice/internal/domain/apperr"

var (
	ErrEmployeeNotFound = apperr.NotFound("employee not found")
	ErrCustomerNotFound = apperr.NotFound("customer not found")
	ErrEmailTaken       = apperr.Duplicate("email is already in use")
	ErrCategoryExists   = apperr.Duplicate("category already exists")
	ErrInvalidStatus    = apperr.Validation("status must be Active or Inactive")
)
