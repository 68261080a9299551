package dto

import "github.com/shopspring/decimal"

// CardRequest carries raw card details for the payment processor.
type CardRequest struct {
	Number     string `json:"number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

// PaymentRequest describes a bill payment payload.
type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method"`
	Card          *CardRequest    `json:"card,omitempty"`
}

// PaymentResponse reports the recorded payment.
type PaymentResponse struct {
	TransactionID  string          `json:"transaction_id"`
	CashbackEarned decimal.Decimal `json:"cashback_earned"`
}
