package payrollhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/payroll"
	"backoffice/internal/transport/http/middleware"
)

type stubService struct {
	Service
	hikeInput   payroll.HikeInput
	payslips    map[string]payroll.Payslip
	listFilter  payroll.PayslipFilter
	createErr   error
	created     payroll.SalaryInput
	payslipDate *time.Time
}

func (s *stubService) CreateSalaryRecord(_ context.Context, input payroll.SalaryInput) (payroll.SalaryRecord, error) {
	s.created = input
	if s.createErr != nil {
		return payroll.SalaryRecord{}, s.createErr
	}
	return payroll.SalaryRecord{ID: "rec-1", EmployeeID: input.EmployeeID, Month: input.Month, Year: input.Year}, nil
}

func (s *stubService) ApplyHike(_ context.Context, recordID string, input payroll.HikeInput) (payroll.HikeResult, error) {
	s.hikeInput = input
	return payroll.HikeResult{Record: payroll.SalaryRecord{ID: recordID + "-next"}}, nil
}

func (s *stubService) GeneratePayslip(_ context.Context, recordID string, input payroll.PayslipInput) (payroll.Payslip, error) {
	s.payslipDate = input.PayDate
	return payroll.Payslip{ID: "slip-1", SalaryRecordID: recordID}, nil
}

func (s *stubService) GetPayslip(_ context.Context, id string) (payroll.Payslip, error) {
	slip, ok := s.payslips[id]
	if !ok {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return slip, nil
}

func (s *stubService) ListPayslips(_ context.Context, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	s.listFilter = filter
	return []payroll.Payslip{}, nil
}

type stubDocuments map[string][]byte

func (d stubDocuments) Open(_ context.Context, ref string) ([]byte, error) {
	return d[ref], nil
}

func newRouter(svc Service, docs Documents, user auth.UserContext) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	NewHandler(svc, docs).RegisterRoutes(r)
	return r
}

var (
	admin    = auth.UserContext{UserID: "u-admin", RoleName: auth.RoleAdmin}
	employee = auth.UserContext{UserID: "u-emp", EmployeeID: "emp-1", RoleName: auth.RoleEmployee}
)

func TestCreateSalaryReturnsCreated(t *testing.T) {
	svc := &stubService{}
	body := `{"employeeId":"emp-1","month":3,"year":2024,"basicSalary":"30000","remainingLeaves":2,"leaveTaken":1}`
	req := httptest.NewRequest(http.MethodPost, "/salaries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newRouter(svc, nil, admin).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.created.BasicSalary.Equal(decimal.NewFromInt(30000)) || svc.created.Month != 3 {
		t.Fatalf("unexpected input: %+v", svc.created)
	}
}

func TestCreateSalaryDuplicateMapsToConflict(t *testing.T) {
	svc := &stubService{createErr: payroll.ErrDuplicatePeriod}
	req := httptest.NewRequest(http.MethodPost, "/salaries", strings.NewReader(`{"employeeId":"emp-1","month":3,"year":2024,"basicSalary":"1"}`))
	rec := httptest.NewRecorder()
	newRouter(svc, nil, admin).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestEmployeeCannotWriteSalaries(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/salaries", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	newRouter(&stubService{}, nil, employee).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestApplyHikeParsesDate(t *testing.T) {
	svc := &stubService{}
	req := httptest.NewRequest(http.MethodPost, "/salaries/rec-1/hike", strings.NewReader(`{"hikePercentage":"10","effectiveDate":"2024-04-15"}`))
	rec := httptest.NewRecorder()
	newRouter(svc, nil, admin).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.hikeInput.EffectiveDate == nil || svc.hikeInput.EffectiveDate.Month() != time.April {
		t.Fatalf("effective date not parsed: %+v", svc.hikeInput.EffectiveDate)
	}
}

func TestApplyHikeRejectsNonNumericPercentage(t *testing.T) {
	for _, body := range []string{
		`{"hikePercentage":"ten","effectiveDate":"2024-04-15"}`,
		`{"hikePercentage":true,"effectiveDate":"2024-04-15"}`,
	} {
		svc := &stubService{}
		req := httptest.NewRequest(http.MethodPost, "/salaries/rec-1/hike", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newRouter(svc, nil, admin).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
		var env struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.Error.Code != "validation_error" {
			t.Fatalf("%s: expected validation_error, got %q", body, env.Error.Code)
		}
		if svc.hikeInput.EffectiveDate != nil {
			t.Fatalf("%s: service should not be called", body)
		}
	}
}

func TestApplyHikeAcceptsNumericPercentage(t *testing.T) {
	svc := &stubService{}
	req := httptest.NewRequest(http.MethodPost, "/salaries/rec-1/hike", strings.NewReader(`{"hikePercentage":12.5,"effectiveDate":"2024-04-15"}`))
	rec := httptest.NewRecorder()
	newRouter(svc, nil, admin).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.hikeInput.HikePercentage.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected 12.5, got %s", svc.hikeInput.HikePercentage)
	}
}

func TestGeneratePayslipWithoutBody(t *testing.T) {
	svc := &stubService{}
	req := httptest.NewRequest(http.MethodPost, "/salaries/rec-1/payslip", nil)
	rec := httptest.NewRecorder()
	newRouter(svc, nil, admin).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.payslipDate != nil {
		t.Fatalf("expected no pay date, got %v", svc.payslipDate)
	}
}

func TestEmployeeListsOnlyOwnPayslips(t *testing.T) {
	svc := &stubService{}
	req := httptest.NewRequest(http.MethodGet, "/payslips?employeeId=emp-2", nil)
	rec := httptest.NewRecorder()
	newRouter(svc, nil, employee).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.listFilter.EmployeeID != "emp-1" {
		t.Fatalf("expected filter scoped to caller, got %q", svc.listFilter.EmployeeID)
	}
}

func TestEmployeeCannotReadOthersPayslip(t *testing.T) {
	svc := &stubService{payslips: map[string]payroll.Payslip{
		"slip-own":   {ID: "slip-own", EmployeeID: "emp-1", FileRef: "file://own.pdf", Month: 3, Year: 2024},
		"slip-other": {ID: "slip-other", EmployeeID: "emp-2"},
	}}
	router := newRouter(svc, stubDocuments{"file://own.pdf": []byte("%PDF-1.3")}, employee)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payslips/slip-other", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign payslip, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payslips/slip-own/document", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for own document, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "payslip-2024-03.pdf") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
}

func TestListSalariesRejectsBadMonth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/salaries?month=13", nil)
	rec := httptest.NewRecorder()
	newRouter(&stubService{}, nil, admin).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Error struct {
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	fields, _ := body.Error.Details["fields"].(map[string]any)
	if _, ok := fields["month"]; !ok {
		t.Fatalf("expected month field issue, got %v", body.Error.Details)
	}
}
