package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/currency"

	"backoffice/internal/domain/directory"
	"backoffice/internal/domain/ledger"
	"backoffice/internal/domain/money"
	"backoffice/internal/domain/notifications"
	"backoffice/internal/platform/logging"
)

type Customers interface {
	GetCustomer(ctx context.Context, id string) (directory.Customer, error)
}

type Renderer interface {
	RenderInvoice(inv Invoice, customer directory.Customer) ([]byte, error)
}

type Files interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, msg notifications.Message) error
}

// Ledger receives the income entry produced by payment verification.
type Ledger interface {
	Create(ctx context.Context, input ledger.TransactionInput) (ledger.Transaction, error)
}

type Auditor interface {
	Record(ctx context.Context, action, entityType, entityID string, before, after any) error
}

type Counter interface {
	Inc(name string)
}

type Deps struct {
	Customers       Customers
	Renderer        Renderer
	Files           Files
	Notifier        Notifier
	Ledger          Ledger
	Audit           Auditor
	Metrics         Counter
	Now             func() time.Time
	DefaultCurrency string
}

type Service struct {
	store StoreAPI
	deps  Deps
	log   *logrus.Entry
}

func NewService(store StoreAPI, deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.DefaultCurrency == "" {
		deps.DefaultCurrency = DefaultCurrency
	}
	return &Service{store: store, deps: deps, log: logging.For("invoice")}
}

// Totals prices a draft without saving it.
func (s *Service) Totals(input Input) (Totals, error) {
	_, totals, err := ComputeTotals(input.Items, input.TaxPercent)
	return totals, err
}

func (s *Service) Get(ctx context.Context, id string) (Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	inv.DisplayStatus = DisplayStatus(inv, s.deps.Now())
	return inv, nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Invoice, int, error) {
	invoices, err := s.store.ListInvoices(ctx, filter.CustomerID, filter.Search)
	if err != nil {
		return nil, 0, err
	}
	today := s.deps.Now()
	wanted := strings.ToLower(strings.TrimSpace(filter.Status))
	out := make([]Invoice, 0, len(invoices))
	for _, inv := range invoices {
		inv.DisplayStatus = DisplayStatus(inv, today)
		if wanted != "" && wanted != inv.Status && wanted != inv.DisplayStatus {
			continue
		}
		out = append(out, inv)
	}
	total := len(out)
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if filter.Offset >= total {
		return []Invoice{}, total, nil
	}
	end := filter.Offset + limit
	if end > total {
		end = total
	}
	return out[filter.Offset:end], total, nil
}

func (s *Service) Create(ctx context.Context, input Input) (Result, error) {
	inv := Invoice{ID: uuid.NewString(), Status: StatusDraft}
	warning, err := s.prepare(ctx, &inv, input, nil)
	if err != nil {
		return Result{Warning: warning}, err
	}
	if inv.InvoiceNumber == "" {
		if inv.InvoiceNumber, err = s.store.NextInvoiceNumber(ctx); err != nil {
			return Result{}, err
		}
	}
	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return Result{}, err
	}
	inv.DisplayStatus = DisplayStatus(inv, s.deps.Now())
	s.audit(ctx, "invoice.create", inv.ID, nil, inv)
	return Result{Invoice: inv, Warning: warning}, nil
}

func (s *Service) Update(ctx context.Context, id string, input Input) (Result, error) {
	current, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if current.IsDisabled {
		return Result{}, ErrInvoiceDisabled
	}
	if Frozen(current) {
		return Result{}, ErrInvoiceFrozen
	}
	updated := current
	warning, err := s.prepare(ctx, &updated, input, &current)
	if err != nil {
		return Result{Warning: warning}, err
	}
	if updated.InvoiceNumber == "" {
		updated.InvoiceNumber = current.InvoiceNumber
	}
	if err := s.store.UpdateInvoice(ctx, updated); err != nil {
		return Result{}, err
	}
	updated.DisplayStatus = DisplayStatus(updated, s.deps.Now())
	s.audit(ctx, "invoice.update", id, current, updated)
	return Result{Invoice: updated, Warning: warning}, nil
}

// Send renders the invoice and emails it to the customer. The invoice is
// marked sent only once the email has gone out.
func (s *Service) Send(ctx context.Context, id string) (Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	if inv.IsDisabled {
		return Invoice{}, ErrInvoiceDisabled
	}
	if Frozen(inv) {
		return Invoice{}, ErrInvoiceFrozen
	}
	customer, err := s.customer(ctx, inv.CustomerID)
	if err != nil {
		return Invoice{}, err
	}
	if strings.TrimSpace(customer.Email) == "" {
		return Invoice{}, ErrMissingCustomerMail
	}

	msg := notifications.Message{
		Type:     notifications.TypeInvoiceSent,
		EntityID: inv.ID,
		To:       customer.Email,
		Subject:  fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
		Body: fmt.Sprintf("Hello %s,\n\nPlease find invoice %s for %s attached.\n",
			customer.Name, inv.InvoiceNumber, money.FormatAmount(inv.Currency, inv.TotalAmount)),
	}
	if s.deps.Renderer != nil {
		document, err := s.deps.Renderer.RenderInvoice(inv, customer)
		if err != nil {
			return Invoice{}, fmt.Errorf("render invoice: %w", err)
		}
		msg.Attachments = []notifications.Attachment{{Name: inv.InvoiceNumber + ".pdf", ContentType: "application/pdf", Data: document}}
	}
	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.Notify(ctx, msg); err != nil {
			return Invoice{}, fmt.Errorf("email invoice: %w", err)
		}
	}

	if err := s.store.MarkSent(ctx, id); err != nil {
		return Invoice{}, err
	}
	before := inv
	inv.Status = StatusSent
	inv.EmailSent = true
	inv.DisplayStatus = DisplayStatus(inv, s.deps.Now())
	s.count(MetricInvoicesSent)
	s.audit(ctx, "invoice.send", id, before, inv)
	return inv, nil
}

// VerifyPayment marks the invoice paid and books the matching income in the
// ledger in one transaction. Verifying a paid invoice again changes nothing.
func (s *Service) VerifyPayment(ctx context.Context, id string, input PaymentInput) (Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	if inv.Status == StatusPaid {
		inv.DisplayStatus = DisplayPaid
		return inv, nil
	}
	if inv.IsDisabled {
		return Invoice{}, ErrInvoiceDisabled
	}
	txnNumber := strings.TrimSpace(input.TransactionNumber)
	if txnNumber == "" {
		return Invoice{}, ErrMissingTxnNumber
	}

	details := PaymentDetails{TransactionNumber: txnNumber, VerifiedAt: s.deps.Now()}
	if len(input.ProofData) > 0 && s.deps.Files != nil {
		name := fmt.Sprintf("invoices/%s/proof-%s", inv.ID, proofName(input.ProofName))
		if details.ProofFile, err = s.deps.Files.Save(ctx, name, input.ProofContentType, input.ProofData); err != nil {
			return Invoice{}, fmt.Errorf("store payment proof: %w", err)
		}
	}

	alreadyPaid := false
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		marked, err := s.store.MarkPaid(ctx, inv.ID, details)
		if err != nil {
			return err
		}
		if !marked {
			alreadyPaid = true
			return nil
		}
		if s.deps.Ledger == nil || !inv.TotalAmount.IsPositive() {
			return nil
		}
		date := details.VerifiedAt
		entry, err := s.deps.Ledger.Create(ctx, ledger.TransactionInput{
			Description: "Payment received for invoice " + inv.InvoiceNumber,
			Amount:      inv.TotalAmount,
			Type:        ledger.TypeIncome,
			Category:    ledger.CategoryInvoicePayment,
			Date:        &date,
			Remarks:     "Transaction number " + txnNumber,
			Attachment:  details.ProofFile,
			InvoiceID:   inv.ID,
		})
		if err != nil {
			return err
		}
		details.LedgerEntryID = entry.ID
		return s.store.SetPaymentLedgerEntry(ctx, inv.ID, entry.ID)
	})
	if err != nil {
		return Invoice{}, err
	}
	if alreadyPaid {
		current, err := s.store.GetInvoice(ctx, id)
		if err != nil {
			return Invoice{}, err
		}
		current.DisplayStatus = DisplayStatus(current, s.deps.Now())
		return current, nil
	}

	before := inv
	inv.Status = StatusPaid
	inv.PaymentDetails = &details
	inv.DisplayStatus = DisplayPaid
	s.count(MetricInvoicesPaid)
	s.audit(ctx, "invoice.verify_payment", id, before, inv)
	return inv, nil
}

func (s *Service) Disable(ctx context.Context, id string) error {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	if inv.IsDisabled {
		return nil
	}
	if err := s.store.Disable(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, "invoice.disable", id, inv, nil)
	return nil
}

// prepare validates input and writes the derived fields onto inv.
func (s *Service) prepare(ctx context.Context, inv *Invoice, input Input, current *Invoice) (*DueDateWarning, error) {
	customerID := strings.TrimSpace(input.CustomerID)
	if customerID == "" {
		return nil, ErrMissingCustomer
	}
	if input.InvoiceDate == nil || input.InvoiceDate.IsZero() {
		return nil, ErrMissingInvoiceDate
	}
	code, err := s.currency(input.Currency)
	if err != nil {
		return nil, err
	}
	items, totals, err := ComputeTotals(input.Items, input.TaxPercent)
	if err != nil {
		return nil, err
	}
	customer, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.Status == directory.StatusInactive && (current == nil || current.CustomerID != customerID) {
		return nil, ErrCustomerInactive
	}

	invoiceDate := dateOnly(*input.InvoiceDate)
	manual := input.DueDate
	if manual == nil && customer.PaymentTerms == nil && current != nil {
		manual = current.DueDate
	}
	due, warning, err := ResolveDueDate(invoiceDate, manual, customer.PaymentTerms, input.ConfirmDueDate)
	if err != nil {
		return warning, err
	}

	inv.InvoiceNumber = strings.TrimSpace(input.InvoiceNumber)
	inv.CustomerID = customerID
	inv.InvoiceDate = invoiceDate
	inv.DueDate = due
	inv.Currency = code
	inv.Items = items
	inv.TaxPercent = input.TaxPercent
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.TotalAmount = totals.Total
	inv.Notes = strings.TrimSpace(input.Notes)
	return warning, nil
}

func (s *Service) currency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return s.deps.DefaultCurrency, nil
	}
	if _, err := currency.ParseISO(code); err != nil {
		return "", ErrInvalidCurrency
	}
	return code, nil
}

func (s *Service) customer(ctx context.Context, id string) (directory.Customer, error) {
	if s.deps.Customers == nil {
		return directory.Customer{ID: id, Status: directory.StatusActive}, nil
	}
	return s.deps.Customers.GetCustomer(ctx, id)
}

func (s *Service) audit(ctx context.Context, action, id string, before, after any) {
	if s.deps.Audit == nil {
		return
	}
	if err := s.deps.Audit.Record(ctx, action, "invoice", id, before, after); err != nil {
		logging.LogError(s.log, action, "audit", id, err)
	}
}

func (s *Service) count(name string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.Inc(name)
	}
}

func proofName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "_")
	if name == "" {
		return "upload"
	}
	return name
}
