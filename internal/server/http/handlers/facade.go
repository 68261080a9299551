package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (string, error)
}

// MemberFacade covers member lifecycle and lookups.
type MemberFacade interface {
	EnrollMember(ctx context.Context, data usecase.EnrollmentData, tierID string, instrument usecase.PaymentInstrument) (*usecase.EnrollmentResult, error)
	Member(ctx context.Context, id string) (*model.Member, error)
	ArchiveMember(ctx context.Context, id string) error
	MemberHistory(ctx context.Context, memberID string, limit int) ([]model.Transaction, error)
}

// PaymentFacade covers payments and the redemption operations.
type PaymentFacade interface {
	ProcessPayment(ctx context.Context, memberID string, amount decimal.Decimal, description string, instrument usecase.PaymentInstrument) (*usecase.PaymentResult, error)
	RedeemReward(ctx context.Context, memberID string, amount decimal.Decimal, note string) (decimal.Decimal, error)
	RedeemBenefit(ctx context.Context, memberID, benefitID string) error
	RedeemPurchasedOffer(ctx context.Context, memberID, purchaseID string) error
	PurchaseOffer(ctx context.Context, memberID, offerID string, instrument usecase.PaymentInstrument) (*usecase.PurchaseResult, error)
}

// CatalogFacade covers tier and offer administration.
type CatalogFacade interface {
	CreateTier(ctx context.Context, tier *model.MembershipTier) (*model.MembershipTier, error)
	Tier(ctx context.Context, id string) (*model.MembershipTier, error)
	Tiers(ctx context.Context) ([]model.MembershipTier, error)
	CreateOffer(ctx context.Context, offer *model.Offer) (*model.Offer, error)
	Offer(ctx context.Context, id string) (*model.Offer, error)
	Offers(ctx context.Context) ([]model.Offer, error)
	SetOfferStatus(ctx context.Context, id string, status model.OfferStatus) error
}

// LoyaltyFacade aggregates the full set of operations used across handlers.
type LoyaltyFacade interface {
	AuthFacade
	MemberFacade
	PaymentFacade
	CatalogFacade
}
