package lock

import (
	"context"
	"errors"
	"testing"

	"backoffice/internal/domain/apperr"
)

func TestNoopLock(t *testing.T) {
	release, err := Noop{}.Lock(context.Background(), "salary:e1:2024-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	release()
}

func TestErrBusyIsStateConflict(t *testing.T) {
	if !errors.Is(ErrBusy, apperr.ErrStateConflict) {
		t.Fatalf("expected busy lock to surface as a state conflict")
	}
}
