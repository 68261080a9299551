package processor

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Well-known card numbers that trigger fixed outcomes, for development and
// acceptance tests against the stub processor.
const (
	TestCardValid             = "4242424242424242"
	TestCardDeclined          = "4000000000000002"
	TestCardInsufficientFunds = "4000000000009995"
)

// Stub authorizes any Luhn-valid 16 digit card except the fixed decline
// numbers. It stands in for the external processor the deployed service
// would call.
type Stub struct{}

// NewStub constructs the stub authorizer.
func NewStub() *Stub { return &Stub{} }

// Authorize validates the card and returns a synthetic authorization.
func (s *Stub) Authorize(ctx context.Context, card Card, amount decimal.Decimal) (*Authorization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if card.Number == "" || card.ExpiryDate == "" || card.CVV == "" {
		return nil, ErrCardIncomplete
	}

	switch card.Number {
	case TestCardValid:
		return &Authorization{Reference: reference(time.Now()), Last4: Last4(card.Number)}, nil
	case TestCardDeclined:
		return nil, ErrCardDeclined
	case TestCardInsufficientFunds:
		return nil, ErrCardInsufficientFunds
	}

	if !ValidCardNumber(card.Number) {
		return nil, ErrCardInvalid
	}
	return &Authorization{Reference: reference(time.Now()), Last4: Last4(card.Number)}, nil
}

// ValidCardNumber checks a 16 digit card number with the Luhn algorithm.
func ValidCardNumber(number string) bool {
	if len(number) != 16 {
		return false
	}

	var sum int
	var alt bool
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')
		if alt {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		alt = !alt
	}

	return sum%10 == 0
}
