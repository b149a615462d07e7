package directoryhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/directory"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/middleware"
	"backoffice/internal/transport/http/shared"
)

type Service interface {
	GetEmployee(ctx context.Context, id string) (directory.Employee, error)
	ListEmployees(ctx context.Context, status string, limit, offset int) ([]directory.Employee, error)
	CreateEmployee(ctx context.Context, input directory.EmployeeInput) (directory.Employee, error)
	UpdateEmployee(ctx context.Context, id string, input directory.EmployeeInput) (directory.Employee, error)
	SetEmployeeStatus(ctx context.Context, id, status string) (directory.Employee, error)

	GetCustomer(ctx context.Context, id string) (directory.Customer, error)
	ListCustomers(ctx context.Context, status string, limit, offset int) ([]directory.Customer, error)
	CreateCustomer(ctx context.Context, input directory.CustomerInput) (directory.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input directory.CustomerInput) (directory.Customer, error)
	SetCustomerStatus(ctx context.Context, id, status string) (directory.Customer, error)

	ListCategories(ctx context.Context, kind string) ([]directory.Category, error)
	CreateCategory(ctx context.Context, input directory.CategoryInput) (directory.Category, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermDirectoryRead)
	write := middleware.RequirePermission(auth.PermDirectoryWrite)

	r.With(middleware.RequirePermission(auth.PermPayslipRead)).Get("/me", h.handleMe)

	r.Route("/employees", func(r chi.Router) {
		r.With(read).Get("/", h.handleListEmployees)
		r.With(write).Post("/", h.handleCreateEmployee)
		r.With(read).Get("/{employeeID}", h.handleGetEmployee)
		r.With(write).Put("/{employeeID}", h.handleUpdateEmployee)
		r.With(write).Post("/{employeeID}/status", h.handleEmployeeStatus)
	})

	r.Route("/customers", func(r chi.Router) {
		r.With(read).Get("/", h.handleListCustomers)
		r.With(write).Post("/", h.handleCreateCustomer)
		r.With(read).Get("/{customerID}", h.handleGetCustomer)
		r.With(write).Put("/{customerID}", h.handleUpdateCustomer)
		r.With(write).Post("/{customerID}/status", h.handleCustomerStatus)
	})

	r.With(read).Get("/categories", h.handleListCategories)
	r.With(write).Post("/categories", h.handleCreateCategory)
}

type statusPayload struct {
	Status string `json:"status"`
}

func statusFilter(w http.ResponseWriter, r *http.Request) (string, bool) {
	status := r.URL.Query().Get("status")
	v := shared.NewValidator()
	v.Enum("status", status, []string{directory.StatusActive, directory.StatusInactive}, "must be Active or Inactive")
	if v.Reject(w, shared.RequestID(r)) {
		return "", false
	}
	return status, true
}

// handleMe returns the caller's own employee profile.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if user.EmployeeID == "" {
		api.FailError(w, directory.ErrEmployeeNotFound, shared.RequestID(r))
		return
	}
	emp, err := h.Service.GetEmployee(r.Context(), user.EmployeeID)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, emp, shared.RequestID(r))
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	status, ok := statusFilter(w, r)
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	items, err := h.Service.ListEmployees(r.Context(), status, page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, items, shared.RequestID(r))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var input directory.EmployeeInput
	if !shared.DecodeJSON(w, r, &input) {
		return
	}
	emp, err := h.Service.CreateEmployee(r.Context(), input)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Created(w, emp, shared.RequestID(r))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, emp, shared.RequestID(r))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var input directory.EmployeeInput
	if !shared.DecodeJSON(w, r, &input) {
		return
	}
	emp, err := h.Service.UpdateEmployee(r.Context(), chi.URLParam(r, "employeeID"), input)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, emp, shared.RequestID(r))
}

func (h *Handler) handleEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	emp, err := h.Service.SetEmployeeStatus(r.Context(), chi.URLParam(r, "employeeID"), payload.Status)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, emp, shared.RequestID(r))
}

func (h *Handler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	status, ok := statusFilter(w, r)
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	items, err := h.Service.ListCustomers(r.Context(), status, page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, items, shared.RequestID(r))
}

func (h *Handler) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var input directory.CustomerInput
	if !shared.DecodeJSON(w, r, &input) {
		return
	}
	cust, err := h.Service.CreateCustomer(r.Context(), input)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Created(w, cust, shared.RequestID(r))
}

func (h *Handler) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	cust, err := h.Service.GetCustomer(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, cust, shared.RequestID(r))
}

func (h *Handler) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var input directory.CustomerInput
	if !shared.DecodeJSON(w, r, &input) {
		return
	}
	cust, err := h.Service.UpdateCustomer(r.Context(), chi.URLParam(r, "customerID"), input)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, cust, shared.RequestID(r))
}

func (h *Handler) handleCustomerStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	cust, err := h.Service.SetCustomerStatus(r.Context(), chi.URLParam(r, "customerID"), payload.Status)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, cust, shared.RequestID(r))
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	v := shared.NewValidator()
	v.Enum("kind", kind, []string{directory.CategoryDesignation, directory.CategoryDepartment, directory.CategoryTransaction},
		"must be designation, department or transaction")
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	items, err := h.Service.ListCategories(r.Context(), kind)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, items, shared.RequestID(r))
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var input directory.CategoryInput
	if !shared.DecodeJSON(w, r, &input) {
		return
	}
	cat, err := h.Service.CreateCategory(r.Context(), input)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Created(w, cat, shared.RequestID(r))
}
