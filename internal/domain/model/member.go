package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberStatus describes whether a membership is currently in good standing.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
)

// Benefit is a tier-granted perk, usable once before its expiry date.
type Benefit struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ExpiryDate time.Time `json:"expiry_date"`
	Used       bool      `json:"used"`
}

// PurchasedOfferStatus describes the lifecycle of a bought offer.
type PurchasedOfferStatus string

const (
	PurchasedOfferAvailable PurchasedOfferStatus = "available"
	PurchasedOfferRedeemed  PurchasedOfferStatus = "redeemed"
	PurchasedOfferExpired   PurchasedOfferStatus = "expired"
)

// PurchasedOffer records a member's purchase of a catalog offer.
type PurchasedOffer struct {
	ID             string               `json:"id"`
	OfferID        string               `json:"offer_id"`
	PurchaseDate   time.Time            `json:"purchase_date"`
	ExpirationDate time.Time            `json:"expiration_date"`
	Status         PurchasedOfferStatus `json:"status"`
}

// Member is the aggregate the redemption engine mutates: balance, benefits,
// and purchased offers always change together with a ledger entry.
type Member struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	TierID          string
	Status          MemberStatus
	RewardsBalance  decimal.Decimal
	TotalSpent      decimal.Decimal
	JoinDate        time.Time
	LastActivity    time.Time
	AutoRenew       bool
	NextRenewalDate time.Time
	Benefits        []Benefit
	PurchasedOffers []PurchasedOffer
	ArchivedAt      *time.Time
}

// FindBenefit returns the benefit with the given id, or nil.
func (m *Member) FindBenefit(id string) *Benefit {
	for i := range m.Benefits {
		if m.Benefits[i].ID == id {
			return &m.Benefits[i]
		}
	}
	return nil
}

// FindPurchasedOffer returns the purchase record with the given id, or nil.
func (m *Member) FindPurchasedOffer(id string) *PurchasedOffer {
	for i := range m.PurchasedOffers {
		if m.PurchasedOffers[i].ID == id {
			return &m.PurchasedOffers[i]
		}
	}
	return nil
}
