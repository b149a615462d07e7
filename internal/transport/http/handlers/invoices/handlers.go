package invoicehandler

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/invoice"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/middleware"
	"backoffice/internal/transport/http/shared"
)

// maxProofMemory is how much of a multipart proof upload is held in memory
// before spilling to disk. The body limit middleware caps the total.
const maxProofMemory = 1 << 20

type Service interface {
	Totals(input invoice.Input) (invoice.Totals, error)
	Get(ctx context.Context, id string) (invoice.Invoice, error)
	List(ctx context.Context, filter invoice.Filter) ([]invoice.Invoice, int, error)
	Create(ctx context.Context, input invoice.Input) (invoice.Result, error)
	Update(ctx context.Context, id string, input invoice.Input) (invoice.Result, error)
	Send(ctx context.Context, id string) (invoice.Invoice, error)
	VerifyPayment(ctx context.Context, id string, input invoice.PaymentInput) (invoice.Invoice, error)
	Disable(ctx context.Context, id string) error
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermInvoicesRead)
	write := middleware.RequirePermission(auth.PermInvoicesWrite)

	r.Route("/invoices", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(write).Post("/", h.handleCreate)
		r.With(read).Post("/totals", h.handleTotals)
		r.With(read).Get("/{invoiceID}", h.handleGet)
		r.With(write).Put("/{invoiceID}", h.handleUpdate)
		r.With(write).Delete("/{invoiceID}", h.handleDisable)
		r.With(write).Post("/{invoiceID}/send", h.handleSend)
		r.With(write).Post("/{invoiceID}/verify-payment", h.handleVerifyPayment)
	})
}

type itemPayload struct {
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    decimal.Decimal `json:"quantity"`
}

type invoicePayload struct {
	InvoiceNumber  string          `json:"invoiceNumber"`
	CustomerID     string          `json:"customerId"`
	InvoiceDate    shared.Date     `json:"invoiceDate"`
	DueDate        shared.Date     `json:"dueDate"`
	Currency       string          `json:"currency"`
	Items          []itemPayload   `json:"items"`
	TaxPercent     decimal.Decimal `json:"taxPercent"`
	Notes          string          `json:"notes"`
	ConfirmDueDate bool            `json:"confirmDueDate"`
}

func (p invoicePayload) input() invoice.Input {
	items := make([]invoice.ItemInput, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, invoice.ItemInput{
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return invoice.Input{
		InvoiceNumber:  p.InvoiceNumber,
		CustomerID:     p.CustomerID,
		InvoiceDate:    p.InvoiceDate.Ptr(),
		DueDate:        p.DueDate.Ptr(),
		Currency:       p.Currency,
		Items:          items,
		TaxPercent:     p.TaxPercent,
		Notes:          p.Notes,
		ConfirmDueDate: p.ConfirmDueDate,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := invoice.Filter{
		CustomerID: r.URL.Query().Get("customerId"),
		Status:     strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))),
		Search:     strings.TrimSpace(r.URL.Query().Get("search")),
	}
	v := shared.NewValidator()
	v.Enum("status", filter.Status, []string{
		invoice.StatusDraft, invoice.StatusSent, invoice.DisplayPaid, invoice.DisplayOverdue, invoice.DisplayUnpaid,
	}, "must be draft, sent, paid, overdue or unpaid")
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	filter.Limit, filter.Offset = page.Limit, page.Offset

	items, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, api.ListResult{Items: items, Total: total}, shared.RequestID(r))
}

func (h *Handler) handleTotals(w http.ResponseWriter, r *http.Request) {
	var payload invoicePayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	totals, err := h.Service.Totals(payload.input())
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, totals, shared.RequestID(r))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload invoicePayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	result, err := h.Service.Create(r.Context(), payload.input())
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Created(w, result, shared.RequestID(r))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.Get(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, inv, shared.RequestID(r))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload invoicePayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	result, err := h.Service.Update(r.Context(), chi.URLParam(r, "invoiceID"), payload.input())
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, result, shared.RequestID(r))
}

func (h *Handler) handleDisable(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Disable(r.Context(), chi.URLParam(r, "invoiceID")); err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, map[string]bool{"disabled": true}, shared.RequestID(r))
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.Send(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, inv, shared.RequestID(r))
}

type paymentPayload struct {
	TransactionNumber string `json:"transactionNumber"`
}

// handleVerifyPayment accepts either a JSON body or a multipart form with a
// transactionNumber field and an optional proof file.
func (h *Handler) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var input invoice.PaymentInput
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxProofMemory); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid multipart payload", shared.RequestID(r))
			return
		}
		input.TransactionNumber = r.FormValue("transactionNumber")
		file, header, err := r.FormFile("proof")
		if err == nil {
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				api.Fail(w, http.StatusBadRequest, "invalid_payload", "could not read proof file", shared.RequestID(r))
				return
			}
			input.ProofName = header.Filename
			input.ProofContentType = header.Header.Get("Content-Type")
			input.ProofData = data
		} else if err != http.ErrMissingFile {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid proof file", shared.RequestID(r))
			return
		}
	} else {
		var payload paymentPayload
		if !shared.DecodeJSON(w, r, &payload) {
			return
		}
		input.TransactionNumber = payload.TransactionNumber
	}

	inv, err := h.Service.VerifyPayment(r.Context(), chi.URLParam(r, "invoiceID"), input)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, inv, shared.RequestID(r))
}
