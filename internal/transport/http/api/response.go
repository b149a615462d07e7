package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"backoffice/internal/domain/apperr"
	"backoffice/internal/domain/invoice"
	"backoffice/internal/platform/logging"
)

type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ListResult wraps paged list responses.
type ListResult struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.For("api").WithError(err).Warn("write json failed")
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// FailError maps a service error to a response. Errors outside the apperr
// taxonomy are logged and reported as 500 without leaking their text.
func FailError(w http.ResponseWriter, err error, requestID string) {
	var dueErr *invoice.DueDateError
	if errors.As(err, &dueErr) {
		FailWithDetails(w, http.StatusBadRequest, "due_date_warning", dueErr.Error(), map[string]any{
			"fields":  map[string]string{"dueDate": "confirm to accept a date earlier than the payment terms"},
			"warning": dueErr.Warning,
		}, requestID)
		return
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		logging.For("api").WithError(err).WithField("requestId", requestID).Error("unhandled service error")
		Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}

	status, code := StatusFor(appErr.Kind)
	if len(appErr.Fields) > 0 {
		FailWithDetails(w, status, code, appErr.Message, map[string]any{"fields": appErr.Fields}, requestID)
		return
	}
	Fail(w, status, code, appErr.Message, requestID)
}

func StatusFor(kind apperr.Kind) (int, string) {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, "validation_error"
	case apperr.KindDuplicate:
		return http.StatusConflict, "duplicate"
	case apperr.KindNotFound:
		return http.StatusNotFound, "not_found"
	case apperr.KindStateConflict:
		return http.StatusConflict, "state_conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
