package reportshandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/reports"
	"backoffice/internal/transport/http/middleware"
)

type stubService struct {
	month, year int
	employeeID  string
}

func (s *stubService) AdminDashboard(_ context.Context, month, year int) (reports.AdminDashboard, error) {
	s.month, s.year = month, year
	return reports.AdminDashboard{Month: month, Year: year}, nil
}

func (s *stubService) EmployeeDashboard(_ context.Context, employeeID string) (reports.EmployeeDashboard, error) {
	s.employeeID = employeeID
	return reports.EmployeeDashboard{EmployeeID: employeeID}, nil
}

func serve(svc Service, user auth.UserContext, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	NewHandler(svc).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestAdminDashboardPassesPeriod(t *testing.T) {
	svc := &stubService{}
	rec := serve(svc, auth.UserContext{UserID: "a", RoleName: auth.RoleAdmin}, "/reports/dashboard/admin?month=3&year=2024")
	if rec.Code != http.StatusOK || svc.month != 3 || svc.year != 2024 {
		t.Fatalf("unexpected result %d %d/%d", rec.Code, svc.month, svc.year)
	}
}

func TestEmployeeDashboardIgnoresForeignEmployeeID(t *testing.T) {
	svc := &stubService{}
	user := auth.UserContext{UserID: "u", EmployeeID: "emp-1", RoleName: auth.RoleEmployee}
	rec := serve(svc, user, "/reports/dashboard/employee?employeeId=emp-2")
	if rec.Code != http.StatusOK || svc.employeeID != "emp-1" {
		t.Fatalf("expected own dashboard, got %d %q", rec.Code, svc.employeeID)
	}
}

func TestEmployeeCannotSeeAdminDashboard(t *testing.T) {
	user := auth.UserContext{UserID: "u", EmployeeID: "emp-1", RoleName: auth.RoleEmployee}
	rec := serve(&stubService{}, user, "/reports/dashboard/admin")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
