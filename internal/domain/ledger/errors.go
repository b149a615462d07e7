package ledger

import "backoffice/internal/domain/apperr"

var (
	ErrTransactionNotFound = apperr.NotFound("transaction not found")
	ErrInvalidAmount       = apperr.Validation("amount must be greater than zero")
	ErrInvalidRange        = apperr.Validation("date range start must not be after its end")
)
