package payrollhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/payroll"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/shared"
)

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	v := shared.NewValidator()
	v.Enum("status", status, []string{payroll.TemplateActive, payroll.TemplateInactive}, "must be active or inactive")
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	templates, err := h.Service.ListTemplates(r.Context(), status)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, templates, shared.RequestID(r))
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var input payroll.TemplateInput
	if !shared.DecodeJSON(w, r, &input) {
		return
	}
	tmpl, err := h.Service.CreateTemplate(r.Context(), input)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Created(w, tmpl, shared.RequestID(r))
}

func (h *Handler) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.Service.GetTemplate(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, tmpl, shared.RequestID(r))
}

func (h *Handler) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var input payroll.TemplateInput
	if !shared.DecodeJSON(w, r, &input) {
		return
	}
	tmpl, err := h.Service.UpdateTemplate(r.Context(), chi.URLParam(r, "templateID"), input)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, tmpl, shared.RequestID(r))
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleTemplateStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	tmpl, err := h.Service.SetTemplateStatus(r.Context(), chi.URLParam(r, "templateID"), payload.Status)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Success(w, tmpl, shared.RequestID(r))
}

func (h *Handler) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var input payroll.ApplyTemplateInput
	if !shared.DecodeJSON(w, r, &input) {
		return
	}
	record, err := h.Service.ApplyTemplate(r.Context(), chi.URLParam(r, "templateID"), input)
	if err != nil {
		api.FailError(w, err, shared.RequestID(r))
		return
	}
	api.Created(w, record, shared.RequestID(r))
}
