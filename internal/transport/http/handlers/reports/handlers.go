package reportshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/payroll"
	"backoffice/internal/domain/reports"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/middleware"
	"backoffice/internal/transport/http/shared"
)

type Service interface {
	AdminDashboard(ctx context.Context, month, year int) (reports.AdminDashboard, error)
	EmployeeDashboard(ctx context.Context, employeeID string) (reports.EmployeeDashboard, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/dashboard/admin", h.handleAdminDashboard)
		r.With(middleware.RequirePermission(auth.PermPayslipRead)).Get("/dashboard/employee", h.handleEmployeeDashboard)
	})
}

func (h *Handler) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	month := v.OptionalInt(r, "month", 1, 12)
	year := v.OptionalInt(r, "year", payroll.MinYear, payroll.MaxYear)
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	out, err := h.Service.AdminDashboard(r.Context(), month, year)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, out, shared.RequestID(r))
}

func (h *Handler) handleEmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := user.EmployeeID
	if user.IsAdmin() && r.URL.Query().Get("employeeId") != "" {
		employeeID = r.URL.Query().Get("employeeId")
	}
	if employeeID == "" {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "request validation failed",
			map[string]any{"fields": map[string]string{"employeeId": "is required"}}, shared.RequestID(r))
		return
	}
	out, err := h.Service.EmployeeDashboard(r.Context(), employeeID)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, out, shared.RequestID(r))
}
