package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"backoffice/internal/domain/apperr"
	"backoffice/internal/platform/logging"
	"backoffice/internal/platform/validation"
)

type Exporter interface {
	ExportLedger(txs []Transaction, summary Summary) ([]byte, error)
}

type Files interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type Auditor interface {
	Record(ctx context.Context, action, entityType, entityID string, before, after any) error
}

type Deps struct {
	Exporter Exporter
	Files    Files
	Audit    Auditor
}

type Service struct {
	store    StoreAPI
	validate *validation.Validator
	deps     Deps
	log      *logrus.Entry
}

func NewService(store StoreAPI, validate *validation.Validator, deps Deps) *Service {
	if validate == nil {
		validate = validation.New("")
	}
	return &Service{store: store, validate: validate, deps: deps, log: logging.For("ledger")}
}

func (s *Service) Get(ctx context.Context, id string) (Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *Service) Create(ctx context.Context, input TransactionInput) (Transaction, error) {
	input, err := s.check(input)
	if err != nil {
		return Transaction{}, err
	}
	tx := Transaction{ID: uuid.NewString(), InvoiceID: input.InvoiceID}
	fill(&tx, input)
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return Transaction{}, err
	}
	s.audit(ctx, "transaction.create", tx.ID, nil, tx)
	return tx, nil
}

func (s *Service) Update(ctx context.Context, id string, input TransactionInput) (Transaction, error) {
	input, err := s.check(input)
	if err != nil {
		return Transaction{}, err
	}
	current, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	updated := current
	fill(&updated, input)
	if err := s.store.UpdateTransaction(ctx, updated); err != nil {
		return Transaction{}, err
	}
	s.audit(ctx, "transaction.update", id, current, updated)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, "transaction.delete", id, current, nil)
	return nil
}

// Attach stores an uploaded file and records its reference on the
// transaction.
func (s *Service) Attach(ctx context.Context, id, name, contentType string, data []byte) (Transaction, error) {
	if s.deps.Files == nil {
		return Transaction{}, apperr.StateConflict("file storage is not configured")
	}
	if len(data) == 0 {
		return Transaction{}, apperr.Validation("attachment is empty")
	}
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	ref, err := s.deps.Files.Save(ctx, fmt.Sprintf("transactions/%s/%s", id, sanitizeName(name)), contentType, data)
	if err != nil {
		return Transaction{}, err
	}
	tx.Attachment = ref
	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

func (s *Service) List(ctx context.Context, filter Filter) (Page, error) {
	matched, err := s.matching(ctx, filter)
	if err != nil {
		return Page{}, err
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	return Page{Items: paginate(matched, limit, filter.Offset), Total: len(matched)}, nil
}

func (s *Service) Summary(ctx context.Context, filter Filter) (Summary, error) {
	matched, err := s.matching(ctx, filter)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(matched), nil
}

// Export renders every transaction matching filter, ignoring pagination.
func (s *Service) Export(ctx context.Context, filter Filter) ([]byte, error) {
	if s.deps.Exporter == nil {
		return nil, apperr.StateConflict("ledger export is not configured")
	}
	matched, err := s.matching(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.deps.Exporter.ExportLedger(matched, Summarize(matched))
}

func (s *Service) matching(ctx context.Context, filter Filter) ([]Transaction, error) {
	if filter.From != nil && filter.To != nil && dateOnly(*filter.From).After(dateOnly(*filter.To)) {
		return nil, ErrInvalidRange
	}
	txs, err := s.store.ListTransactions(ctx, filter.From, filter.To, filter.Type)
	if err != nil {
		return nil, err
	}
	return Apply(txs, filter), nil
}

func (s *Service) check(input TransactionInput) (TransactionInput, error) {
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	input.Remarks = strings.TrimSpace(input.Remarks)
	input.Type = normalizeType(input.Type)
	if err := s.validate.Struct(input); err != nil {
		return input, err
	}
	if !input.Amount.IsPositive() {
		return input, ErrInvalidAmount
	}
	return input, nil
}

func (s *Service) audit(ctx context.Context, action, id string, before, after any) {
	if s.deps.Audit == nil {
		return
	}
	if err := s.deps.Audit.Record(ctx, action, "transaction", id, before, after); err != nil {
		logging.LogError(s.log, action, "audit", id, err)
	}
}

func fill(tx *Transaction, input TransactionInput) {
	tx.Description = input.Description
	tx.Amount = input.Amount
	tx.Type = input.Type
	tx.Category = input.Category
	tx.Date = *input.Date
	tx.Remarks = input.Remarks
	if input.Attachment != "" {
		tx.Attachment = input.Attachment
	}
}

func normalizeType(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "income":
		return TypeIncome
	case "expense":
		return TypeExpense
	default:
		return strings.TrimSpace(value)
	}
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		return "attachment"
	}
	return name
}
