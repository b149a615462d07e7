package invoice

import (
	"fmt"
	"time"

	"backoffice/internal/domain/apperr"
)

// DisplayStatus derives what the invoice list shows. It is never persisted.
func DisplayStatus(inv Invoice, today time.Time) string {
	if inv.Status == StatusPaid {
		return DisplayPaid
	}
	now := dateOnly(today)
	if inv.DueDate != nil && now.After(dateOnly(*inv.DueDate)) {
		return DisplayOverdue
	}
	if now.After(dateOnly(inv.InvoiceDate).AddDate(0, 0, OverdueAfterDays)) {
		return DisplayOverdue
	}
	return DisplayUnpaid
}

// Frozen reports whether edits and re-sends are blocked.
func Frozen(inv Invoice) bool {
	return inv.Status == StatusPaid || inv.EmailSent
}

// DeriveDueDate applies the customer's payment terms to the invoice date.
func DeriveDueDate(invoiceDate time.Time, paymentTerms *int) (time.Time, bool) {
	if paymentTerms == nil {
		return time.Time{}, false
	}
	return dateOnly(invoiceDate).AddDate(0, 0, *paymentTerms), true
}

// ResolveDueDate picks the due date to store. A manual date wins, but one
// earlier than the derived date is only accepted when confirm is set; the
// warning is returned either way.
func ResolveDueDate(invoiceDate time.Time, manual *time.Time, paymentTerms *int, confirm bool) (*time.Time, *DueDateWarning, error) {
	derived, ok := DeriveDueDate(invoiceDate, paymentTerms)
	if manual == nil {
		if !ok {
			return nil, nil, nil
		}
		return &derived, nil, nil
	}
	due := dateOnly(*manual)
	if !ok || !due.Before(derived) {
		return &due, nil, nil
	}
	warning := &DueDateWarning{
		ManualDueDate:  due,
		DerivedDueDate: derived,
		PaymentTerms:   *paymentTerms,
		Message: fmt.Sprintf("due date %s is earlier than %s implied by %d day payment terms",
			due.Format(time.DateOnly), derived.Format(time.DateOnly), *paymentTerms),
	}
	if !confirm {
		return nil, warning, &DueDateError{Warning: *warning}
	}
	return &due, warning, nil
}

// DueDateError is the validation failure for an unconfirmed early due date.
// It unwraps to an apperr validation error so callers can still match on kind.
type DueDateError struct {
	Warning DueDateWarning
}

func (e *DueDateError) Error() string {
	return e.Warning.Message
}

func (e *DueDateError) Unwrap() error {
	return apperr.ValidationFields(e.Warning.Message, map[string]string{"dueDate": "confirm to accept a date earlier than the payment terms"})
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
