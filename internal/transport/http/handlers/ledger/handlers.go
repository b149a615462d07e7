package ledgerhandler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/ledger"
	"backoffice/internal/platform/export"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/middleware"
	"backoffice/internal/transport/http/shared"
)

const maxAttachmentMemory = 1 << 20

type Service interface {
	Get(ctx context.Context, id string) (ledger.Transaction, error)
	Create(ctx context.Context, input ledger.TransactionInput) (ledger.Transaction, error)
	Update(ctx context.Context, id string, input ledger.TransactionInput) (ledger.Transaction, error)
	Delete(ctx context.Context, id string) error
	Attach(ctx context.Context, id, name, contentType string, data []byte) (ledger.Transaction, error)
	List(ctx context.Context, filter ledger.Filter) (ledger.Page, error)
	Summary(ctx context.Context, filter ledger.Filter) (ledger.Summary, error)
	Export(ctx context.Context, filter ledger.Filter) ([]byte, error)
}

type Handler struct {
	Service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service, now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermLedgerRead)
	write := middleware.RequirePermission(auth.PermLedgerWrite)

	r.Route("/transactions", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(write).Post("/", h.handleCreate)
		r.With(read).Get("/summary", h.handleSummary)
		r.With(read).Get("/export", h.handleExport)
		r.With(read).Get("/{transactionID}", h.handleGet)
		r.With(write).Put("/{transactionID}", h.handleUpdate)
		r.With(write).Delete("/{transactionID}", h.handleDelete)
		r.With(write).Post("/{transactionID}/attachment", h.handleAttach)
	})
}

type transactionPayload struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Date        shared.Date     `json:"date"`
	Remarks     string          `json:"remarks"`
	Attachment  string          `json:"attachment"`
}

func (p transactionPayload) input() ledger.TransactionInput {
	return ledger.TransactionInput{
		Description: p.Description,
		Amount:      p.Amount,
		Type:        p.Type,
		Category:    p.Category,
		Date:        p.Date.Ptr(),
		Remarks:     p.Remarks,
		Attachment:  p.Attachment,
	}
}

// parseFilter reads the shared query parameters of list, summary and export.
func parseFilter(w http.ResponseWriter, r *http.Request) (ledger.Filter, bool) {
	q := r.URL.Query()
	v := shared.NewValidator()
	filter := ledger.Filter{
		Search:   strings.TrimSpace(q.Get("search")),
		Type:     strings.TrimSpace(q.Get("type")),
		Category: strings.TrimSpace(q.Get("category")),
		From:     v.OptionalDate("from", q.Get("from")),
		To:       v.OptionalDate("to", q.Get("to")),
	}
	v.Enum("type", filter.Type, []string{ledger.TypeIncome, ledger.TypeExpense}, "must be Income or Expense")
	v.DateOrder("from", filter.From, "to", filter.To)
	if v.Reject(w, shared.RequestID(r)) {
		return ledger.Filter{}, false
	}
	return filter, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	filter.Limit, filter.Offset = page.Limit, page.Offset

	result, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, api.ListResult{Items: result.Items, Total: result.Total}, shared.RequestID(r))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	summary, err := h.Service.Summary(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, summary, shared.RequestID(r))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	data, err := h.Service.Export(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	name := fmt.Sprintf("transactions-%s.xlsx", h.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(data)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	tx, err := h.Service.Create(r.Context(), payload.input())
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Created(w, tx, shared.RequestID(r))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	tx, err := h.Service.Get(r.Context(), chi.URLParam(r, "transactionID"))
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, tx, shared.RequestID(r))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	tx, err := h.Service.Update(r.Context(), chi.URLParam(r, "transactionID"), payload.input())
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, tx, shared.RequestID(r))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "transactionID")); err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, shared.RequestID(r))
}

func (h *Handler) handleAttach(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAttachmentMemory); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid multipart payload", shared.RequestID(r))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "request validation failed",
			map[string]any{"fields": map[string]string{"file": "is required"}}, shared.RequestID(r))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "could not read file", shared.RequestID(r))
		return
	}
	tx, err := h.Service.Attach(r.Context(), chi.URLParam(r, "transactionID"), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, tx, shared.RequestID(r))
}
