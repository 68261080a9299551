package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Card carries the raw instrument details handed to the external processor.
// The core never persists anything beyond the masked last four digits.
type Card struct {
	Number     string
	ExpiryDate string
	CVV        string
}

// Authorization is the processor's answer to a successful charge.
type Authorization struct {
	Reference string
	Last4     string
}

var (
	// ErrCardIncomplete indicates the instrument is missing required
	// payment information such as the expiry date or CVV.
	ErrCardIncomplete = errors.New("missing required payment information")
	// ErrCardInvalid indicates the card number failed basic validation.
	ErrCardInvalid = errors.New("invalid card number")
	// ErrCardDeclined indicates the processor refused the charge.
	ErrCardDeclined = errors.New("card declined")
	// ErrCardInsufficientFunds indicates the cardholder lacks funds.
	ErrCardInsufficientFunds = errors.New("card has insufficient funds")
)

// Authorizer delegates card charges to an external payment processor.
// Real gateway integration lives outside this service; implementations
// only report success or a typed failure.
type Authorizer interface {
	Authorize(ctx context.Context, card Card, amount decimal.Decimal) (*Authorization, error)
}

// Last4 returns the masked reference for a card number.
func Last4(number string) string {
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}

func reference(now time.Time) string {
	return fmt.Sprintf("auth_%d", now.UnixNano())
}
