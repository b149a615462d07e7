package shared

import (
	"net/http"
	"strings"
	"time"

	"backoffice/internal/transport/http/api"
)

// Validator collects query parameter problems in the same field map shape
// the services use, so clients see one error format.
type Validator struct {
	fields map[string]string
}

func NewValidator() *Validator {
	return &Validator{fields: map[string]string{}}
}

func (v *Validator) Add(field, reason string) {
	field = strings.TrimSpace(field)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = reason
	}
}

func (v *Validator) Enum(field, value string, allowed []string, reason string) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return
	}
	for _, candidate := range allowed {
		if normalized == strings.ToLower(candidate) {
			return
		}
	}
	v.Add(field, reason)
}

func (v *Validator) OptionalDate(field, raw string) *time.Time {
	parsed, err := ParseOptionalDate(raw)
	if err != nil {
		v.Add(field, "must be a valid date in YYYY-MM-DD format")
		return nil
	}
	return parsed
}

func (v *Validator) DateOrder(startField string, start *time.Time, endField string, end *time.Time) {
	if start == nil || end == nil {
		return
	}
	if end.Before(*start) {
		v.Add(startField, "must be on or before "+endField)
		v.Add(endField, "must be on or after "+startField)
	}
}

// OptionalInt parses name from the query string and checks it lies in [min, max].
func (v *Validator) OptionalInt(r *http.Request, name string, min, max int) int {
	value, present, ok := QueryInt(r, name)
	if !present {
		return 0
	}
	if !ok || value < min || value > max {
		v.Add(name, "must be a whole number in range")
		return 0
	}
	return value
}

func (v *Validator) HasIssues() bool {
	return len(v.fields) > 0
}

func (v *Validator) Fields() map[string]string {
	return v.fields
}

func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "request validation failed",
		map[string]any{"fields": v.fields}, requestID)
	return true
}
