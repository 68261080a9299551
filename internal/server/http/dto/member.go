package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvslabs/membercore/internal/domain/model"
)

// EnrollRequest describes a new member enrollment payload.
type EnrollRequest struct {
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone,omitempty"`
	TierID        string       `json:"tier_id"`
	PaymentMethod string       `json:"payment_method"`
	Card          *CardRequest `json:"card,omitempty"`
}

// BenefitResponse describes a member benefit.
type BenefitResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ExpiryDate time.Time `json:"expiry_date"`
	Used       bool      `json:"used"`
}

// PurchasedOfferResponse describes a member's purchased offer.
type PurchasedOfferResponse struct {
	ID             string    `json:"id"`
	OfferID        string    `json:"offer_id"`
	PurchaseDate   time.Time `json:"purchase_date"`
	ExpirationDate time.Time `json:"expiration_date"`
	Status         string    `json:"status"`
}

// MemberResponse describes a member profile.
type MemberResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Email           string                   `json:"email"`
	Phone           string                   `json:"phone,omitempty"`
	TierID          string                   `json:"tier_id"`
	Status          string                   `json:"status"`
	RewardsBalance  decimal.Decimal          `json:"rewards_balance"`
	TotalSpent      decimal.Decimal          `json:"total_spent"`
	JoinDate        time.Time                `json:"join_date"`
	LastActivity    time.Time                `json:"last_activity"`
	AutoRenew       bool                     `json:"auto_renew"`
	NextRenewalDate time.Time                `json:"next_renewal_date"`
	Benefits        []BenefitResponse        `json:"benefits"`
	PurchasedOffers []PurchasedOfferResponse `json:"purchased_offers"`
}

// EnrollResponse reports the created member and the enrollment charge.
type EnrollResponse struct {
	Member        MemberResponse `json:"member"`
	TransactionID string         `json:"transaction_id"`
}

// ToMemberResponse maps a member aggregate onto its response shape.
func ToMemberResponse(m *model.Member) MemberResponse {
	benefits := make([]BenefitResponse, 0, len(m.Benefits))
	for _, b := range m.Benefits {
		benefits = append(benefits, BenefitResponse{
			ID:         b.ID,
			Name:       b.Name,
			ExpiryDate: b.ExpiryDate,
			Used:       b.Used,
		})
	}
	purchases := make([]PurchasedOfferResponse, 0, len(m.PurchasedOffers))
	for _, p := range m.PurchasedOffers {
		purchases = append(purchases, PurchasedOfferResponse{
			ID:             p.ID,
			OfferID:        p.OfferID,
			PurchaseDate:   p.PurchaseDate,
			ExpirationDate: p.ExpirationDate,
			Status:         string(p.Status),
		})
	}
	return MemberResponse{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		TierID:          m.TierID,
		Status:          string(m.Status),
		RewardsBalance:  m.RewardsBalance,
		TotalSpent:      m.TotalSpent,
		JoinDate:        m.JoinDate,
		LastActivity:    m.LastActivity,
		AutoRenew:       m.AutoRenew,
		NextRenewalDate: m.NextRenewalDate,
		Benefits:        benefits,
		PurchasedOffers: purchases,
	}
}

// TransactionResponse describes a ledger entry.
type TransactionResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	CashbackEarned decimal.Decimal `json:"cashback_earned"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	PaymentLast4   string          `json:"payment_last4,omitempty"`
	Status         string          `json:"status"`
	Timestamp      time.Time       `json:"timestamp"`
	Detail         any             `json:"detail,omitempty"`
}

// ToTransactionResponse maps a ledger entry onto its response shape.
func ToTransactionResponse(t model.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:             t.ID,
		Type:           string(t.Type),
		Amount:         t.Amount,
		CashbackEarned: t.CashbackEarned,
		Status:         string(t.Status),
		Timestamp:      t.Timestamp,
		Detail:         t.Detail,
	}
	if t.PaymentMethod != nil {
		resp.PaymentMethod = string(t.PaymentMethod.Type)
		resp.PaymentLast4 = t.PaymentMethod.Last4
	}
	return resp
}
