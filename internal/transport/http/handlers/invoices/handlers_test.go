package invoicehandler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/invoice"
	"backoffice/internal/transport/http/middleware"
)

type stubService struct {
	Service
	createInput invoice.Input
	createErr   error
	payment     invoice.PaymentInput
	listFilter  invoice.Filter
}

func (s *stubService) Create(_ context.Context, input invoice.Input) (invoice.Result, error) {
	s.createInput = input
	if s.createErr != nil {
		return invoice.Result{}, s.createErr
	}
	return invoice.Result{Invoice: invoice.Invoice{ID: "inv-1", InvoiceNumber: "INV-0001"}}, nil
}

func (s *stubService) List(_ context.Context, filter invoice.Filter) ([]invoice.Invoice, int, error) {
	s.listFilter = filter
	return []invoice.Invoice{{ID: "inv-1"}}, 7, nil
}

func (s *stubService) VerifyPayment(_ context.Context, id string, input invoice.PaymentInput) (invoice.Invoice, error) {
	s.payment = input
	return invoice.Invoice{ID: id, Status: invoice.StatusPaid}, nil
}

func newRouter(svc Service, user auth.UserContext) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	NewHandler(svc).RegisterRoutes(r)
	return r
}

var admin = auth.UserContext{UserID: "u-admin", RoleName: auth.RoleAdmin}

func TestCreateParsesDatesAndItems(t *testing.T) {
	svc := &stubService{}
	body := `{"customerId":"cust-1","invoiceDate":"2024-05-01","dueDate":"2024-05-31","items":[{"description":"Audit","unitPrice":"1500.50","quantity":"2"}],"taxPercent":"18"}`
	rec := httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	in := svc.createInput
	if in.InvoiceDate == nil || !in.InvoiceDate.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected invoice date %v", in.InvoiceDate)
	}
	if in.DueDate == nil || in.DueDate.Day() != 31 {
		t.Fatalf("unexpected due date %v", in.DueDate)
	}
	if len(in.Items) != 1 || !in.Items[0].UnitPrice.Equal(decimal.RequireFromString("1500.50")) {
		t.Fatalf("unexpected items %+v", in.Items)
	}
}

func TestCreateWithoutDueDateLeavesItNil(t *testing.T) {
	svc := &stubService{}
	body := `{"customerId":"cust-1","invoiceDate":"2024-05-01","dueDate":null,"items":[]}`
	rec := httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.createInput.DueDate != nil {
		t.Fatalf("expected nil due date, got %v", svc.createInput.DueDate)
	}
}

func TestCreateDueDateWarningIsBadRequest(t *testing.T) {
	svc := &stubService{createErr: &invoice.DueDateError{Warning: invoice.DueDateWarning{PaymentTerms: 30, Message: "early"}}}
	rec := httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(`{"customerId":"c"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "due_date_warning") {
		t.Fatalf("expected due_date_warning code, got %s", rec.Body.String())
	}
}

func TestCreateRejectsBadDate(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&stubService{}, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(`{"invoiceDate":"05/01/2024"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListReturnsTotal(t *testing.T) {
	svc := &stubService{}
	rec := httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices?status=Overdue&limit=10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.listFilter.Status != invoice.DisplayOverdue || svc.listFilter.Limit != 10 {
		t.Fatalf("unexpected filter %+v", svc.listFilter)
	}
	if !strings.Contains(rec.Body.String(), `"total":7`) {
		t.Fatalf("expected total in body, got %s", rec.Body.String())
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&stubService{}, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices?status=void", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVerifyPaymentMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("transactionNumber", "UTR-42"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	part, err := mw.CreateFormFile("proof", "receipt.png")
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	_, _ = part.Write([]byte("png-bytes"))
	_ = mw.Close()

	svc := &stubService{}
	req := httptest.NewRequest(http.MethodPost, "/invoices/inv-1/verify-payment", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.payment.TransactionNumber != "UTR-42" || svc.payment.ProofName != "receipt.png" || string(svc.payment.ProofData) != "png-bytes" {
		t.Fatalf("unexpected payment input %+v", svc.payment)
	}
}

func TestVerifyPaymentJSON(t *testing.T) {
	svc := &stubService{}
	req := httptest.NewRequest(http.MethodPost, "/invoices/inv-1/verify-payment", strings.NewReader(`{"transactionNumber":"UTR-7"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.payment.TransactionNumber != "UTR-7" || svc.payment.ProofData != nil {
		t.Fatalf("unexpected payment input %+v", svc.payment)
	}
}

func TestEmployeeCannotReadInvoices(t *testing.T) {
	employee := auth.UserContext{UserID: "u", EmployeeID: "e", RoleName: auth.RoleEmployee}
	rec := httptest.NewRecorder()
	newRouter(&stubService{}, employee).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
