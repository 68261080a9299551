package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInsufficientFunds  = errors.New("insufficient rewards balance")
)

// StateReason identifies which state invariant rejected an operation.
type StateReason string

const (
	ReasonInactiveMember   StateReason = "inactive_member"
	ReasonBenefitUsed      StateReason = "benefit_already_used"
	ReasonOfferNotActive   StateReason = "offer_not_active"
	ReasonOfferSoldOut     StateReason = "offer_sold_out"
	ReasonTierNotEligible  StateReason = "tier_not_eligible"
	ReasonPurchaseRedeemed StateReason = "purchase_already_redeemed"
	ReasonPurchaseExpired  StateReason = "purchase_expired"
)

// StateError rejects an operation whose subject is in the wrong state.
// Subject carries the id of the entity involved.
type StateError struct {
	Reason  StateReason
	Subject string
}

func (e *StateError) Error() string {
	if e.Subject == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Subject)
}

// Is matches any StateError with the same reason, so callers can branch
// with errors.Is(err, ErrState(ReasonOfferSoldOut)).
func (e *StateError) Is(target error) bool {
	t, ok := target.(*StateError)
	return ok && t.Reason == e.Reason
}

// ErrState builds a StateError suitable as an errors.Is target.
func ErrState(reason StateReason) *StateError {
	return &StateError{Reason: reason}
}

// NewStateError builds a StateError carrying the offending entity id.
func NewStateError(reason StateReason, subject string) *StateError {
	return &StateError{Reason: reason, Subject: subject}
}

// ValidationError rejects malformed caller input before any state is read.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is matches any ValidationError regardless of field.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError reports a malformed input field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ErrValidation is an errors.Is target matching every ValidationError.
var ErrValidation = &ValidationError{}

// PersistenceError wraps a repository failure. It is always fatal to the
// enclosing operation and rolls back the whole atomic unit.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is matches any PersistenceError.
func (e *PersistenceError) Is(target error) bool {
	_, ok := target.(*PersistenceError)
	return ok
}

// ErrPersistence is an errors.Is target matching every PersistenceError.
var ErrPersistence = &PersistenceError{}

// Persistence wraps err unless it already belongs to the domain taxonomy.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		se *StateError
		ve *ValidationError
		pe *PersistenceError
	)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrInvalidCredentials) ||
		errors.As(err, &se) || errors.As(err, &ve) || errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
