package invoice

import (
	"errors"
	"testing"
	"time"

	"backoffice/internal/domain/apperr"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDisplayStatus(t *testing.T) {
	today := date(2025, time.March, 31)
	due := date(2025, time.March, 30)
	later := date(2025, time.April, 15)
	cases := []struct {
		name string
		inv  Invoice
		want string
	}{
		{"paid wins", Invoice{Status: StatusPaid, InvoiceDate: today.AddDate(0, 0, -90)}, DisplayPaid},
		{"thirty day rule without due date", Invoice{Status: StatusSent, InvoiceDate: today.AddDate(0, 0, -40)}, DisplayOverdue},
		{"thirty day rule beats later due date", Invoice{Status: StatusSent, InvoiceDate: today.AddDate(0, 0, -31), DueDate: &later}, DisplayOverdue},
		{"exactly thirty days is not overdue", Invoice{Status: StatusSent, InvoiceDate: today.AddDate(0, 0, -30)}, DisplayUnpaid},
		{"past due date", Invoice{Status: StatusDraft, InvoiceDate: today.AddDate(0, 0, -5), DueDate: &due}, DisplayOverdue},
		{"due today", Invoice{Status: StatusSent, InvoiceDate: today.AddDate(0, 0, -5), DueDate: &today}, DisplayUnpaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayStatus(tc.inv, today.Add(15*time.Hour)); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestFrozen(t *testing.T) {
	if Frozen(Invoice{Status: StatusDraft}) {
		t.Fatalf("draft invoice should be editable")
	}
	if !Frozen(Invoice{Status: StatusPaid}) || !Frozen(Invoice{Status: StatusDraft, EmailSent: true}) {
		t.Fatalf("paid or emailed invoices should be frozen")
	}
}

func TestResolveDueDate(t *testing.T) {
	invoiceDate := date(2025, time.March, 1)
	terms := 15

	due, warning, err := ResolveDueDate(invoiceDate, nil, &terms, false)
	if err != nil || warning != nil || !due.Equal(date(2025, time.March, 16)) {
		t.Fatalf("expected derived due date March 16, got %v %v %v", due, warning, err)
	}

	due, warning, err = ResolveDueDate(invoiceDate, nil, nil, false)
	if err != nil || warning != nil || due != nil {
		t.Fatalf("expected no due date without terms, got %v %v %v", due, warning, err)
	}

	early := date(2025, time.March, 10)
	_, warning, err = ResolveDueDate(invoiceDate, &early, &terms, false)
	if !errors.Is(err, apperr.ErrValidation) || warning == nil {
		t.Fatalf("expected unconfirmed early due date to fail with a warning, got %v %v", warning, err)
	}
	var dueErr *DueDateError
	if !errors.As(err, &dueErr) || !dueErr.Warning.DerivedDueDate.Equal(date(2025, time.March, 16)) {
		t.Fatalf("expected error to carry the warning, got %v", err)
	}

	due, warning, err = ResolveDueDate(invoiceDate, &early, &terms, true)
	if err != nil || warning == nil || !due.Equal(early) {
		t.Fatalf("expected confirmed early due date to be accepted with warning, got %v %v %v", due, warning, err)
	}

	late := date(2025, time.April, 1)
	due, warning, err = ResolveDueDate(invoiceDate, &late, &terms, false)
	if err != nil || warning != nil || !due.Equal(late) {
		t.Fatalf("expected later manual due date to pass, got %v %v %v", due, warning, err)
	}
}
