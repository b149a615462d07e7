package invoice

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"backoffice/internal/domain/apperr"
	"backoffice/internal/domain/directory"
	"backoffice/internal/domain/ledger"
	"backoffice/internal/domain/notifications"
)

type memoryStore struct {
	invoices map[string]Invoice
	seq      int
	failPaid bool
	// stale is what GetInvoice returns instead of the stored row, as a
	// reader that started before a concurrent payment committed would see.
	stale map[string]Invoice
}

func newMemoryStore() *memoryStore {
	return &memoryStore{invoices: map[string]Invoice{}}
}

func (m *memoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *memoryStore) GetInvoice(ctx context.Context, id string) (Invoice, error) {
	if inv, ok := m.stale[id]; ok {
		delete(m.stale, id)
		return inv, nil
	}
	inv, ok := m.invoices[id]
	if !ok {
		return Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}

func (m *memoryStore) ListInvoices(ctx context.Context, customerID, search string) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range m.invoices {
		if !inv.IsDisabled {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memoryStore) NextInvoiceNumber(ctx context.Context) (string, error) {
	m.seq++
	return fmt.Sprintf("INV-%05d", m.seq), nil
}

func (m *memoryStore) CreateInvoice(ctx context.Context, inv Invoice) error {
	for _, existing := range m.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return ErrInvoiceNumberTaken
		}
	}
	m.invoices[inv.ID] = inv
	return nil
}

func (m *memoryStore) UpdateInvoice(ctx context.Context, inv Invoice) error {
	m.invoices[inv.ID] = inv
	return nil
}

func (m *memoryStore) MarkSent(ctx context.Context, id string) error {
	inv := m.invoices[id]
	inv.Status = StatusSent
	inv.EmailSent = true
	m.invoices[id] = inv
	return nil
}

func (m *memoryStore) MarkPaid(ctx context.Context, id string, details PaymentDetails) (bool, error) {
	if m.failPaid {
		return false, errors.New("update failed")
	}
	inv := m.invoices[id]
	if inv.Status == StatusPaid {
		return false, nil
	}
	inv.Status = StatusPaid
	inv.PaymentDetails = &details
	m.invoices[id] = inv
	return true, nil
}

func (m *memoryStore) SetPaymentLedgerEntry(ctx context.Context, id, ledgerEntryID string) error {
	inv := m.invoices[id]
	if inv.PaymentDetails != nil {
		details := *inv.PaymentDetails
		details.LedgerEntryID = ledgerEntryID
		inv.PaymentDetails = &details
	}
	m.invoices[id] = inv
	return nil
}

func (m *memoryStore) Disable(ctx context.Context, id string) error {
	inv := m.invoices[id]
	inv.IsDisabled = true
	m.invoices[id] = inv
	return nil
}

type stubCustomers map[string]directory.Customer

func (s stubCustomers) GetCustomer(ctx context.Context, id string) (directory.Customer, error) {
	c, ok := s[id]
	if !ok {
		return directory.Customer{}, directory.ErrCustomerNotFound
	}
	return c, nil
}

type stubLedger struct {
	entries []ledger.TransactionInput
}

func (l *stubLedger) Create(ctx context.Context, input ledger.TransactionInput) (ledger.Transaction, error) {
	l.entries = append(l.entries, input)
	return ledger.Transaction{ID: fmt.Sprintf("txn-%d", len(l.entries))}, nil
}

type stubNotifier struct {
	err      error
	messages []notifications.Message
}

func (n *stubNotifier) Notify(ctx context.Context, msg notifications.Message) error {
	n.messages = append(n.messages, msg)
	return n.err
}

type stubRenderer struct{}

func (stubRenderer) RenderInvoice(inv Invoice, customer directory.Customer) ([]byte, error) {
	return []byte("%PDF"), nil
}

type stubFiles struct{}

func (stubFiles) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	return "file://" + name, nil
}

var today = date(2025, time.March, 31)

type fixture struct {
	svc      *Service
	store    *memoryStore
	ledger   *stubLedger
	notifier *stubNotifier
}

func newFixture() fixture {
	terms := 15
	store := newMemoryStore()
	led := &stubLedger{}
	notifier := &stubNotifier{}
	svc := NewService(store, Deps{
		Customers: stubCustomers{
			"acme":    {ID: "acme", Name: "Acme", Email: "ap@acme.test", PaymentTerms: &terms, Status: directory.StatusActive},
			"walk-in": {ID: "walk-in", Name: "Walk-in", Status: directory.StatusActive},
			"gone":    {ID: "gone", Name: "Gone", Email: "x@gone.test", Status: directory.StatusInactive},
		},
		Renderer: stubRenderer{},
		Files:    stubFiles{},
		Notifier: notifier,
		Ledger:   led,
		Now:      func() time.Time { return today },
	})
	return fixture{svc: svc, store: store, ledger: led, notifier: notifier}
}

func draftInput(customer string, invoiceDate time.Time) Input {
	return Input{
		CustomerID:  customer,
		InvoiceDate: &invoiceDate,
		Items:       []ItemInput{{Description: "Widget", UnitPrice: d("100"), Quantity: d("2")}},
		TaxPercent:  d("18"),
	}
}

func TestCreateDerivesDueDateAndNumber(t *testing.T) {
	f := newFixture()
	res, err := f.svc.Create(context.Background(), draftInput("acme", date(2025, time.March, 20)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inv := res.Invoice
	if inv.InvoiceNumber != "INV-00001" || inv.Currency != DefaultCurrency || inv.Status != StatusDraft {
		t.Fatalf("expected numbered draft in default currency, got %+v", inv)
	}
	if inv.DueDate == nil || !inv.DueDate.Equal(date(2025, time.April, 4)) {
		t.Fatalf("expected due date from payment terms, got %v", inv.DueDate)
	}
	if !inv.TotalAmount.Equal(d("236")) || inv.DisplayStatus != DisplayUnpaid {
		t.Fatalf("expected total 236 unpaid, got %s %s", inv.TotalAmount, inv.DisplayStatus)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	in := draftInput("acme", today)
	in.Currency = "XX"
	if _, err := f.svc.Create(ctx, in); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected invalid currency, got %v", err)
	}
	if _, err := f.svc.Create(ctx, draftInput("gone", today)); !errors.Is(err, apperr.ErrStateConflict) {
		t.Fatalf("expected inactive customer conflict, got %v", err)
	}
	if _, err := f.svc.Create(ctx, draftInput("nobody", today)); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected unknown customer, got %v", err)
	}
	early := date(2025, time.March, 21)
	in = draftInput("acme", date(2025, time.March, 20))
	in.DueDate = &early
	if _, err := f.svc.Create(ctx, in); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected unconfirmed early due date to fail, got %v", err)
	}
	in.ConfirmDueDate = true
	res, err := f.svc.Create(ctx, in)
	if err != nil || res.Warning == nil || !res.Invoice.DueDate.Equal(early) {
		t.Fatalf("expected confirmed due date with warning, got %+v %v", res, err)
	}
}

func TestUpdateRecomputesDueDateOnlyWithTerms(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res, _ := f.svc.Create(ctx, draftInput("acme", date(2025, time.March, 1)))
	moved, err := f.svc.Update(ctx, res.Invoice.ID, draftInput("acme", date(2025, time.March, 10)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !moved.Invoice.DueDate.Equal(date(2025, time.March, 25)) {
		t.Fatalf("expected due date to follow the invoice date, got %v", moved.Invoice.DueDate)
	}
	if moved.Invoice.InvoiceNumber != res.Invoice.InvoiceNumber {
		t.Fatalf("expected invoice number to be kept")
	}

	manual := date(2025, time.April, 30)
	in := draftInput("walk-in", date(2025, time.March, 1))
	in.DueDate = &manual
	walkIn, _ := f.svc.Create(ctx, in)
	kept, err := f.svc.Update(ctx, walkIn.Invoice.ID, draftInput("walk-in", date(2025, time.March, 5)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kept.Invoice.DueDate == nil || !kept.Invoice.DueDate.Equal(manual) {
		t.Fatalf("expected manual due date to be kept without terms, got %v", kept.Invoice.DueDate)
	}
}

func TestSendFreezesInvoice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res, _ := f.svc.Create(ctx, draftInput("acme", today))

	sent, err := f.svc.Send(ctx, res.Invoice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent.Status != StatusSent || !sent.EmailSent {
		t.Fatalf("expected sent invoice, got %+v", sent)
	}
	if len(f.notifier.messages) != 1 || f.notifier.messages[0].To != "ap@acme.test" || len(f.notifier.messages[0].Attachments) != 1 {
		t.Fatalf("expected one email with the PDF, got %+v", f.notifier.messages)
	}
	if _, err := f.svc.Update(ctx, res.Invoice.ID, draftInput("acme", today)); !errors.Is(err, ErrInvoiceFrozen) {
		t.Fatalf("expected update after send to be frozen, got %v", err)
	}
	if _, err := f.svc.Send(ctx, res.Invoice.ID); !errors.Is(err, ErrInvoiceFrozen) {
		t.Fatalf("expected re-send to be frozen, got %v", err)
	}
}

func TestSendFailureLeavesDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res, _ := f.svc.Create(ctx, draftInput("acme", today))
	f.notifier.err = errors.New("smtp down")
	if _, err := f.svc.Send(ctx, res.Invoice.ID); err == nil {
		t.Fatalf("expected send error")
	}
	if f.store.invoices[res.Invoice.ID].EmailSent {
		t.Fatalf("expected invoice to stay unsent")
	}

	noMail, _ := f.svc.Create(ctx, draftInput("walk-in", today))
	if _, err := f.svc.Send(ctx, noMail.Invoice.ID); !errors.Is(err, ErrMissingCustomerMail) {
		t.Fatalf("expected missing email error, got %v", err)
	}
}

func TestVerifyPaymentBooksIncomeOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res, _ := f.svc.Create(ctx, draftInput("acme", today))

	if _, err := f.svc.VerifyPayment(ctx, res.Invoice.ID, PaymentInput{}); !errors.Is(err, ErrMissingTxnNumber) {
		t.Fatalf("expected missing transaction number, got %v", err)
	}

	paid, err := f.svc.VerifyPayment(ctx, res.Invoice.ID, PaymentInput{TransactionNumber: "UTR123", ProofName: "receipt.png", ProofData: []byte("png")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paid.Status != StatusPaid || paid.DisplayStatus != DisplayPaid || paid.PaymentDetails == nil {
		t.Fatalf("expected paid invoice with details, got %+v", paid)
	}
	if paid.PaymentDetails.ProofFile == "" || paid.PaymentDetails.LedgerEntryID != "txn-1" {
		t.Fatalf("expected stored proof and ledger link, got %+v", paid.PaymentDetails)
	}
	if len(f.ledger.entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(f.ledger.entries))
	}
	entry := f.ledger.entries[0]
	if entry.Type != ledger.TypeIncome || entry.Category != ledger.CategoryInvoicePayment || !entry.Amount.Equal(d("236")) {
		t.Fatalf("unexpected ledger entry %+v", entry)
	}
	if entry.Description != "Payment received for invoice "+res.Invoice.InvoiceNumber || entry.InvoiceID != res.Invoice.ID {
		t.Fatalf("unexpected ledger description or link %+v", entry)
	}
	if !entry.Date.Equal(today) {
		t.Fatalf("expected verification date on entry, got %v", entry.Date)
	}

	again, err := f.svc.VerifyPayment(ctx, res.Invoice.ID, PaymentInput{TransactionNumber: "UTR999"})
	if err != nil || again.PaymentDetails.TransactionNumber != "UTR123" {
		t.Fatalf("expected re-verify to be a no-op, got %+v %v", again, err)
	}
	if len(f.ledger.entries) != 1 {
		t.Fatalf("expected no second ledger entry")
	}
}

func TestVerifyPaymentAfterConcurrentPaymentBooksNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res, _ := f.svc.Create(ctx, draftInput("acme", today))
	unpaid := f.store.invoices[res.Invoice.ID]

	if _, err := f.svc.VerifyPayment(ctx, res.Invoice.ID, PaymentInput{TransactionNumber: "UTR1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.store.stale = map[string]Invoice{res.Invoice.ID: unpaid}

	got, err := f.svc.VerifyPayment(ctx, res.Invoice.ID, PaymentInput{TransactionNumber: "UTR2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.ledger.entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(f.ledger.entries))
	}
	if got.Status != StatusPaid || got.PaymentDetails == nil || got.PaymentDetails.TransactionNumber != "UTR1" {
		t.Fatalf("expected the first payment to stand, got %+v", got)
	}
	if got.PaymentDetails.LedgerEntryID != "txn-1" {
		t.Fatalf("expected ledger link from the first payment, got %+v", got.PaymentDetails)
	}
}

func TestVerifyPaymentFailureBooksNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res, _ := f.svc.Create(ctx, draftInput("acme", today))
	f.store.failPaid = true

	if _, err := f.svc.VerifyPayment(ctx, res.Invoice.ID, PaymentInput{TransactionNumber: "UTR1"}); err == nil {
		t.Fatalf("expected update failure")
	}
	if len(f.ledger.entries) != 0 {
		t.Fatalf("expected no ledger entry, got %d", len(f.ledger.entries))
	}
}

func TestDisableHidesInvoice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	keep, _ := f.svc.Create(ctx, draftInput("acme", today))
	drop, _ := f.svc.Create(ctx, draftInput("acme", today))

	if err := f.svc.Disable(ctx, drop.Invoice.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.svc.Disable(ctx, drop.Invoice.ID); err != nil {
		t.Fatalf("expected repeat disable to be a no-op, got %v", err)
	}
	list, total, err := f.svc.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || list[0].ID != keep.Invoice.ID {
		t.Fatalf("expected only the enabled invoice, got %+v", list)
	}
	if _, err := f.svc.Update(ctx, drop.Invoice.ID, draftInput("acme", today)); !errors.Is(err, ErrInvoiceDisabled) {
		t.Fatalf("expected disabled invoice update to conflict, got %v", err)
	}
}

func TestListFiltersByDisplayStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	old, _ := f.svc.Create(ctx, draftInput("walk-in", today.AddDate(0, 0, -40)))
	if _, err := f.svc.Create(ctx, draftInput("walk-in", today)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, total, err := f.svc.List(ctx, Filter{Status: "overdue"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || list[0].ID != old.Invoice.ID || list[0].DisplayStatus != DisplayOverdue {
		t.Fatalf("expected only the 40 day old invoice, got %+v", list)
	}
}
