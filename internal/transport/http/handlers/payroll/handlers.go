package payrollhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/payroll"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/middleware"
	"backoffice/internal/transport/http/shared"
)

type Service interface {
	Preview(input payroll.SalaryInput) (payroll.Computation, error)
	GetSalaryRecord(ctx context.Context, id string) (payroll.SalaryRecord, error)
	ListSalaryRecords(ctx context.Context, filter payroll.RecordFilter) ([]payroll.SalaryRecord, error)
	CreateSalaryRecord(ctx context.Context, input payroll.SalaryInput) (payroll.SalaryRecord, error)
	UpdateSalaryRecord(ctx context.Context, id string, input payroll.SalaryInput) (payroll.SalaryRecord, error)
	PermanentlyDelete(ctx context.Context, id string) error
	ApplyHike(ctx context.Context, recordID string, input payroll.HikeInput) (payroll.HikeResult, error)
	ListHikes(ctx context.Context, q payroll.HikeQuery) ([]payroll.HikeEvent, error)
	CanGenerate(ctx context.Context, recordID string) (bool, error)
	GeneratePayslip(ctx context.Context, recordID string, input payroll.PayslipInput) (payroll.Payslip, error)
	DeletePayslip(ctx context.Context, id string) error
	GetPayslip(ctx context.Context, id string) (payroll.Payslip, error)
	ListPayslips(ctx context.Context, filter payroll.PayslipFilter) ([]payroll.Payslip, error)
	LeaveBalance(ctx context.Context, employeeID string, month, year int) (payroll.LeaveBalance, error)

	GetTemplate(ctx context.Context, id string) (payroll.SalaryTemplate, error)
	ListTemplates(ctx context.Context, status string) ([]payroll.SalaryTemplate, error)
	CreateTemplate(ctx context.Context, input payroll.TemplateInput) (payroll.SalaryTemplate, error)
	UpdateTemplate(ctx context.Context, id string, input payroll.TemplateInput) (payroll.SalaryTemplate, error)
	SetTemplateStatus(ctx context.Context, id, status string) (payroll.SalaryTemplate, error)
	ApplyTemplate(ctx context.Context, templateID string, input payroll.ApplyTemplateInput) (payroll.SalaryRecord, error)
}

// Documents reads back stored payslip PDFs.
type Documents interface {
	Open(ctx context.Context, ref string) ([]byte, error)
}

type Handler struct {
	Service   Service
	Documents Documents
}

func NewHandler(service Service, documents Documents) *Handler {
	return &Handler{Service: service, Documents: documents}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermPayrollRead)
	write := middleware.RequirePermission(auth.PermPayrollWrite)
	issue := middleware.RequirePermission(auth.PermPayslipIssue)
	own := middleware.RequirePermission(auth.PermPayslipRead)

	r.Route("/salaries", func(r chi.Router) {
		r.With(read).Get("/", h.handleListSalaries)
		r.With(write).Post("/", h.handleCreateSalary)
		r.With(read).Post("/compute", h.handleCompute)
		r.With(read).Get("/{salaryID}", h.handleGetSalary)
		r.With(write).Put("/{salaryID}", h.handleUpdateSalary)
		r.With(write).Delete("/{salaryID}", h.handleDeleteSalary)
		r.With(write).Post("/{salaryID}/hike", h.handleApplyHike)
		r.With(read).Get("/{salaryID}/can-generate", h.handleCanGenerate)
		r.With(issue).Post("/{salaryID}/payslip", h.handleGeneratePayslip)
	})
	r.With(read).Get("/hikes", h.handleListHikes)
	r.With(read).Get("/leave-balance", h.handleLeaveBalance)

	r.Route("/payslips", func(r chi.Router) {
		r.With(own).Get("/", h.handleListPayslips)
		r.With(own).Get("/{payslipID}", h.handleGetPayslip)
		r.With(own).Get("/{payslipID}/document", h.handleDownloadPayslip)
		r.With(issue).Delete("/{payslipID}", h.handleDeletePayslip)
	})

	r.Route("/salary-templates", func(r chi.Router) {
		r.With(read).Get("/", h.handleListTemplates)
		r.With(write).Post("/", h.handleCreateTemplate)
		r.With(read).Get("/{templateID}", h.handleGetTemplate)
		r.With(write).Put("/{templateID}", h.handleUpdateTemplate)
		r.With(write).Post("/{templateID}/status", h.handleTemplateStatus)
		r.With(write).Post("/{templateID}/apply", h.handleApplyTemplate)
	})
}

func (h *Handler) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	filter := payroll.RecordFilter{
		EmployeeID:   r.URL.Query().Get("employeeId"),
		Month:        v.OptionalInt(r, "month", 1, 12),
		Year:         v.OptionalInt(r, "year", payroll.MinYear, payroll.MaxYear),
		Status:       r.URL.Query().Get("status"),
		ActiveStatus: r.URL.Query().Get("activeStatus"),
	}
	v.Enum("status", filter.Status, []string{payroll.StatusDraft, payroll.StatusPaid}, "must be draft or paid")
	v.Enum("activeStatus", filter.ActiveStatus, []string{payroll.ActiveEnabled, payroll.ActiveDisabled}, "must be enabled or disabled")
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	filter.Limit, filter.Offset = page.Limit, page.Offset

	records, err := h.Service.ListSalaryRecords(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, records, shared.RequestID(r))
}

func (h *Handler) handleCreateSalary(w http.ResponseWriter, r *http.Request) {
	var input payroll.SalaryInput
	if !shared.DecodeJSON(w, r, &input) {
		return
	}
	record, err := h.Service.CreateSalaryRecord(r.Context(), input)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Created(w, record, shared.RequestID(r))
}

func (h *Handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	var input payroll.SalaryInput
	if !shared.DecodeJSON(w, r, &input) {
		return
	}
	result, err := h.Service.Preview(input)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, result, shared.RequestID(r))
}

func (h *Handler) handleGetSalary(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.GetSalaryRecord(r.Context(), chi.URLParam(r, "salaryID"))
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, record, shared.RequestID(r))
}

func (h *Handler) handleUpdateSalary(w http.ResponseWriter, r *http.Request) {
	var input payroll.SalaryInput
	if !shared.DecodeJSON(w, r, &input) {
		return
	}
	record, err := h.Service.UpdateSalaryRecord(r.Context(), chi.URLParam(r, "salaryID"), input)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, record, shared.RequestID(r))
}

func (h *Handler) handleDeleteSalary(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.PermanentlyDelete(r.Context(), chi.URLParam(r, "salaryID")); err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, shared.RequestID(r))
}

type hikePayload struct {
	// HikePercentage is decoded by percentage so a non-numeric value is a
	// validation failure rather than a malformed payload.
	HikePercentage json.RawMessage `json:"hikePercentage"`
	EffectiveDate  shared.Date     `json:"effectiveDate"`
}

func (p hikePayload) percentage() (decimal.Decimal, error) {
	raw := bytes.TrimSpace(p.HikePercentage)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, nil
	}
	var value decimal.Decimal
	if err := value.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, payroll.ErrInvalidHikePercentage
	}
	return value, nil
}

func (h *Handler) handleApplyHike(w http.ResponseWriter, r *http.Request) {
	var payload hikePayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	percentage, err := payload.percentage()
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	result, err := h.Service.ApplyHike(r.Context(), chi.URLParam(r, "salaryID"), payroll.HikeInput{
		HikePercentage: percentage,
		EffectiveDate:  payload.EffectiveDate.Ptr(),
	})
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Created(w, result, shared.RequestID(r))
}

func (h *Handler) handleListHikes(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	q := payroll.HikeQuery{
		EmployeeID: r.URL.Query().Get("employeeId"),
		LatestOnly: shared.QueryBool(r, "latest"),
		Month:      v.OptionalInt(r, "month", 1, 12),
		Year:       v.OptionalInt(r, "year", payroll.MinYear, payroll.MaxYear),
	}
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	events, err := h.Service.ListHikes(r.Context(), q)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, events, shared.RequestID(r))
}

func (h *Handler) handleCanGenerate(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Service.CanGenerate(r.Context(), chi.URLParam(r, "salaryID"))
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, map[string]bool{"canGenerate": ok}, shared.RequestID(r))
}

type payslipPayload struct {
	PayDate   shared.Date `json:"payDate"`
	SendEmail bool        `json:"sendEmail"`
}

func (h *Handler) handleGeneratePayslip(w http.ResponseWriter, r *http.Request) {
	var payload payslipPayload
	if r.ContentLength != 0 && !shared.DecodeJSON(w, r, &payload) {
		return
	}
	slip, err := h.Service.GeneratePayslip(r.Context(), chi.URLParam(r, "salaryID"), payroll.PayslipInput{
		PayDate:   payload.PayDate.Ptr(),
		SendEmail: payload.SendEmail,
	})
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Created(w, slip, shared.RequestID(r))
}

func (h *Handler) handleListPayslips(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	filter := payroll.PayslipFilter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Month:      v.OptionalInt(r, "month", 1, 12),
		Year:       v.OptionalInt(r, "year", payroll.MinYear, payroll.MaxYear),
	}
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if !user.IsAdmin() {
		filter.EmployeeID = user.EmployeeID
		if filter.EmployeeID == "" {
			api.Success(w, []payroll.Payslip{}, shared.RequestID(r))
			return
		}
	}
	page := shared.ParsePagination(r, 50, 200)
	filter.Limit, filter.Offset = page.Limit, page.Offset

	slips, err := h.Service.ListPayslips(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, slips, shared.RequestID(r))
}

// visiblePayslip loads a payslip and hides it from employees who do not own it.
func (h *Handler) visiblePayslip(r *http.Request) (payroll.Payslip, error) {
	slip, err := h.Service.GetPayslip(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		return payroll.Payslip{}, err
	}
	user, _ := middleware.GetUser(r.Context())
	if !user.IsAdmin() && (user.EmployeeID == "" || slip.EmployeeID != user.EmployeeID) {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return slip, nil
}

func (h *Handler) handleGetPayslip(w http.ResponseWriter, r *http.Request) {
	slip, err := h.visiblePayslip(r)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, slip, shared.RequestID(r))
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	slip, err := h.visiblePayslip(r)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	if slip.FileRef == "" || h.Documents == nil {
		api.Fail(w, http.StatusNotFound, "document_missing", "payslip document not available", shared.RequestID(r))
		return
	}
	data, err := h.Documents.Open(r.Context(), slip.FileRef)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payslipName(slip)))
	_, _ = w.Write(data)
}

func payslipName(slip payroll.Payslip) string {
	return fmt.Sprintf("payslip-%04d-%02d.pdf", slip.Year, slip.Month)
}

func (h *Handler) handleDeletePayslip(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePayslip(r.Context(), chi.URLParam(r, "payslipID")); err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, shared.RequestID(r))
}

func (h *Handler) handleLeaveBalance(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		v.Add("employeeId", "is required")
	}
	month := v.OptionalInt(r, "month", 1, 12)
	year := v.OptionalInt(r, "year", payroll.MinYear, payroll.MaxYear)
	if month == 0 {
		v.Add("month", "is required")
	}
	if year == 0 {
		v.Add("year", "is required")
	}
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	balance, err := h.Service.LeaveBalance(r.Context(), employeeID, month, year)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, balance, shared.RequestID(r))
}
