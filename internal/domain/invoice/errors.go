package invoice

import "backoffice/internal/domain/apperr"

var (
	ErrInvoiceNotFound     = apperr.NotFound("invoice not found")
	ErrInvoiceNumberTaken  = apperr.Duplicate("invoice number already exists")
	ErrInvoiceFrozen       = apperr.StateConflict("invoice can no longer be changed once sent or paid")
	ErrInvoiceDisabled     = apperr.StateConflict("invoice is disabled")
	ErrCustomerInactive    = apperr.StateConflict("customer is inactive")
	ErrNoItems             = apperr.Validation("invoice needs at least one item")
	ErrMissingCustomer     = apperr.Validation("customer id is required")
	ErrMissingInvoiceDate  = apperr.Validation("invoice date is required")
	ErrInvalidCurrency     = apperr.Validation("currency must be an ISO 4217 code")
	ErrNegativeTax         = apperr.Validation("tax percent cannot be negative")
	ErrMissingTxnNumber    = apperr.Validation("payment transaction number is required")
	ErrMissingCustomerMail = apperr.Validation("customer has no email address")
)
