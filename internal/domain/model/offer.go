package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OfferStatus describes the catalog lifecycle of a purchasable offer.
type OfferStatus string

const (
	OfferStatusDraft   OfferStatus = "draft"
	OfferStatusActive  OfferStatus = "active"
	OfferStatusPaused  OfferStatus = "paused"
	OfferStatusExpired OfferStatus = "expired"
)

// Offer is a purchasable promotional item with an optional inventory cap
// and a validity window. RedemptionCount never exceeds QuantityLimit.
type Offer struct {
	ID              string
	Title           string
	Description     string
	Price           decimal.Decimal
	OriginalPrice   *decimal.Decimal
	QuantityLimit   *int
	StartDate       time.Time
	EndDate         time.Time
	Status          OfferStatus
	RedemptionCount int
	TierIDs         []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EligibleFor reports whether the offer can be bought by a member of the
// given tier. An empty TierIDs set means every tier is eligible.
func (o *Offer) EligibleFor(tierID string) bool {
	if len(o.TierIDs) == 0 {
		return true
	}
	for _, id := range o.TierIDs {
		if id == tierID {
			return true
		}
	}
	return false
}
