package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tags a ledger entry.
type TransactionType string

const (
	TransactionBillPayment        TransactionType = "bill_payment"
	TransactionRewardRedemption   TransactionType = "reward_redemption"
	TransactionBenefitUsage       TransactionType = "benefit_usage"
	TransactionMembershipPurchase TransactionType = "membership_purchase"
	TransactionOfferPurchase      TransactionType = "offer_purchase"
	TransactionCashbackEarned     TransactionType = "cashback_earned"
)

// TransactionStatus of a ledger entry.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// PaymentMethodType distinguishes card and cash settlement.
type PaymentMethodType string

const (
	PaymentMethodCard PaymentMethodType = "card"
	PaymentMethodCash PaymentMethodType = "cash"
)

// PaymentMethod records how a transaction was settled. Last4 is the masked
// card reference and stays empty for cash.
type PaymentMethod struct {
	Type  PaymentMethodType
	Last4 string
}

// Detail carries the type-specific fields of a ledger entry. Exactly one
// detail kind exists per transaction type.
type Detail interface {
	Kind() TransactionType
}

// BillPaymentDetail describes a bill payment entry.
type BillPaymentDetail struct {
	Description string `json:"description"`
}

func (BillPaymentDetail) Kind() TransactionType { return TransactionBillPayment }

// CashbackDetail links a cashback entry to the payment that earned it.
type CashbackDetail struct {
	PaymentID string          `json:"payment_id"`
	Rate      decimal.Decimal `json:"rate"`
}

func (CashbackDetail) Kind() TransactionType { return TransactionCashbackEarned }

// RewardRedemptionDetail describes a reward balance redemption.
type RewardRedemptionDetail struct {
	Note string `json:"note,omitempty"`
}

func (RewardRedemptionDetail) Kind() TransactionType { return TransactionRewardRedemption }

// BenefitUsageDetail describes a benefit redemption.
type BenefitUsageDetail struct {
	BenefitID   string `json:"benefit_id"`
	BenefitName string `json:"benefit_name"`
}

func (BenefitUsageDetail) Kind() TransactionType { return TransactionBenefitUsage }

// MembershipPurchaseDetail describes an enrollment or renewal charge.
type MembershipPurchaseDetail struct {
	TierID   string `json:"tier_id"`
	TierName string `json:"tier_name"`
	Renewal  bool   `json:"renewal,omitempty"`
}

func (MembershipPurchaseDetail) Kind() TransactionType { return TransactionMembershipPurchase }

// OfferPurchaseDetail describes the purchase of a catalog offer.
type OfferPurchaseDetail struct {
	OfferID    string `json:"offer_id"`
	OfferTitle string `json:"offer_title"`
	PurchaseID string `json:"purchase_id"`
}

func (OfferPurchaseDetail) Kind() TransactionType { return TransactionOfferPurchase }

// Transaction is an immutable ledger entry: the sole source of truth for
// cashback aggregates. Amount is positive for value flowing to the
// business; cashback and redemptions are companion effects.
type Transaction struct {
	ID             string
	Type           TransactionType
	MemberID       string
	Amount         decimal.Decimal
	CashbackEarned decimal.Decimal
	PaymentMethod  *PaymentMethod
	Status         TransactionStatus
	Timestamp      time.Time
	Detail         Detail
	Extra          map[string]string
}
