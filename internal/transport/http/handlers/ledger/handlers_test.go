package ledgerhandler

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

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/ledger"
	"backoffice/internal/platform/export"
	"backoffice/internal/transport/http/middleware"
)

type stubService struct {
	Service
	filter   ledger.Filter
	input    ledger.TransactionInput
	attached string
	getErr   error
}

func (s *stubService) Get(_ context.Context, id string) (ledger.Transaction, error) {
	if s.getErr != nil {
		return ledger.Transaction{}, s.getErr
	}
	return ledger.Transaction{ID: id}, nil
}

func (s *stubService) Create(_ context.Context, input ledger.TransactionInput) (ledger.Transaction, error) {
	s.input = input
	return ledger.Transaction{ID: "tx-1"}, nil
}

func (s *stubService) List(_ context.Context, filter ledger.Filter) (ledger.Page, error) {
	s.filter = filter
	return ledger.Page{Items: []ledger.Transaction{{ID: "tx-1"}}, Total: 1}, nil
}

func (s *stubService) Export(_ context.Context, filter ledger.Filter) ([]byte, error) {
	s.filter = filter
	return []byte("PK"), nil
}

func (s *stubService) Attach(_ context.Context, id, name, _ string, data []byte) (ledger.Transaction, error) {
	s.attached = name + ":" + string(data)
	return ledger.Transaction{ID: id, Attachment: "file://" + name}, nil
}

func newRouter(svc Service) http.Handler {
	user := auth.UserContext{UserID: "u-admin", RoleName: auth.RoleAdmin}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	h := NewHandler(svc)
	h.now = func() time.Time { return time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC) }
	h.RegisterRoutes(r)
	return r
}

func TestListParsesFilter(t *testing.T) {
	svc := &stubService{}
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions?type=Income&from=2024-01-01&to=2024-01-31&search=rent", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.filter.Type != ledger.TypeIncome || svc.filter.Search != "rent" {
		t.Fatalf("unexpected filter %+v", svc.filter)
	}
	if svc.filter.From == nil || svc.filter.To == nil || svc.filter.To.Day() != 31 {
		t.Fatalf("dates not parsed: %+v", svc.filter)
	}
}

func TestListRejectsInvertedRange(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&stubService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions?from=2024-02-01&to=2024-01-01", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateParsesDate(t *testing.T) {
	svc := &stubService{}
	body := `{"description":"Rent","amount":"12000","type":"Expense","category":"Rent","date":"2024-03-05"}`
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.input.Date == nil || svc.input.Date.Month() != time.March {
		t.Fatalf("unexpected date %v", svc.input.Date)
	}
}

func TestGetMissingTransaction(t *testing.T) {
	svc := &stubService{getErr: ledger.ErrTransactionNotFound}
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestExportWritesWorkbook(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&stubService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/export", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != export.ContentType {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "transactions-2024-06-30.xlsx") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
}

func TestAttachUploadsFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "bill.pdf")
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	_, _ = part.Write([]byte("pdf"))
	_ = mw.Close()

	svc := &stubService{}
	req := httptest.NewRequest(http.MethodPost, "/transactions/tx-1/attachment", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.attached != "bill.pdf:pdf" {
		t.Fatalf("unexpected attachment %q", svc.attached)
	}
}
