package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"invalid credentials", ErrInvalidCredentials},
		{"insufficient funds", ErrInsufficientFunds},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

func TestStateErrorMatchingByReason(t *testing.T) {
	err := NewStateError(ReasonOfferSoldOut, "offer-1")

	if !stdErrors.Is(err, ErrState(ReasonOfferSoldOut)) {
		t.Fatalf("expected sold-out state error to match its reason")
	}
	if stdErrors.Is(err, ErrState(ReasonInactiveMember)) {
		t.Fatalf("state errors with different reasons must not match")
	}
	if got := err.Error(); got != "offer_sold_out: offer-1" {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestValidationErrorMatchesAnyField(t *testing.T) {
	err := NewValidationError("amount", "must be positive")
	if !stdErrors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error to match ErrValidation")
	}
	wrapped := fmt.Errorf("process payment: %w", err)
	if !stdErrors.Is(wrapped, ErrValidation) {
		t.Fatalf("expected wrapped validation error to match ErrValidation")
	}
}

func TestPersistenceWrapping(t *testing.T) {
	cause := stdErrors.New("connection reset")
	err := Persistence("ledger append", cause)
	if !stdErrors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected persistence error to unwrap to cause")
	}

	// Domain errors pass through untouched.
	if got := Persistence("member load", ErrNotFound); got != ErrNotFound {
		t.Fatalf("expected not-found to pass through, got %v", got)
	}
	state := NewStateError(ReasonBenefitUsed, "b-1")
	if got := Persistence("benefit redeem", state); got != error(state) {
		t.Fatalf("expected state error to pass through, got %v", got)
	}
	if Persistence("noop", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}
