package validation

import (
	"errors"
	"testing"

	"backoffice/internal/domain/apperr"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	PAN   string `json:"panNumber" validate:"omitempty,pan"`
	Phone string `json:"phone" validate:"omitempty,phone"`
}

func TestValidPAN(t *testing.T) {
	if !ValidPAN("ABCDE1234F") {
		t.Fatal("expected valid PAN")
	}
	for _, bad := range []string{"abcde1234f", "ABCD1234F", "ABCDE12345", ""} {
		if ValidPAN(bad) {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := New("IN")
	err := v.Struct(sample{Email: "not-an-email", PAN: "bad"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatal("expected *apperr.Error")
	}
	for _, field := range []string{"name", "email", "panNumber"} {
		if _, ok := appErr.Fields[field]; !ok {
			t.Fatalf("expected issue for %s, got %+v", field, appErr.Fields)
		}
	}
}

func TestStructAcceptsValidPayload(t *testing.T) {
	v := New("IN")
	if err := v.Struct(sample{Name: "Asha", Email: "asha@example.com", PAN: "ABCDE1234F", Phone: "+919876543210"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPhoneRejectsGarbage(t *testing.T) {
	if err := ValidatePhoneNumber("12", "IN"); err == nil {
		t.Fatal("expected invalid phone number")
	}
}
