package test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/usecase"
)

// AuthFacadeStub provides controllable behaviour for auth endpoints.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseTokenFn   func(string) (string, error)
}

// Register delegates to provided function or returns a default token.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password)
	}
	return "token", nil
}

// Authenticate delegates to provided function or returns a default token.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// ParseToken resolves any token to a fixed staff id by default.
func (s AuthFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return "staff-1", nil
}

// MemberFacadeStub simulates member lifecycle operations.
type MemberFacadeStub struct {
	EnrollFn  func(context.Context, usecase.EnrollmentData, string, usecase.PaymentInstrument) (*usecase.EnrollmentResult, error)
	MemberFn  func(context.Context, string) (*model.Member, error)
	ArchiveFn func(context.Context, string) error
	HistoryFn func(context.Context, string, int) ([]model.Transaction, error)
}

// EnrollMember delegates to provided function or returns a default member.
func (s MemberFacadeStub) EnrollMember(ctx context.Context, data usecase.EnrollmentData, tierID string, instrument usecase.PaymentInstrument) (*usecase.EnrollmentResult, error) {
	if s.EnrollFn != nil {
		return s.EnrollFn(ctx, data, tierID, instrument)
	}
	return &usecase.EnrollmentResult{
		Member:        &model.Member{ID: "member-1", Name: data.Name, Email: data.Email, TierID: tierID, Status: model.MemberStatusActive},
		TransactionID: "txn-1",
	}, nil
}

// Member returns the configured member or a default active one.
func (s MemberFacadeStub) Member(ctx context.Context, id string) (*model.Member, error) {
	if s.MemberFn != nil {
		return s.MemberFn(ctx, id)
	}
	return &model.Member{ID: id, Name: "Stub Member", Status: model.MemberStatusActive}, nil
}

// ArchiveMember executes the configured archive handler.
func (s MemberFacadeStub) ArchiveMember(ctx context.Context, id string) error {
	if s.ArchiveFn != nil {
		return s.ArchiveFn(ctx, id)
	}
	return nil
}

// MemberHistory returns preconfigured ledger entries.
func (s MemberFacadeStub) MemberHistory(ctx context.Context, memberID string, limit int) ([]model.Transaction, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, memberID, limit)
	}
	return []model.Transaction{{
		ID:        "txn-1",
		MemberID:  memberID,
		Type:      model.TransactionBillPayment,
		Amount:    decimal.NewFromInt(10),
		Status:    model.TransactionCompleted,
		Timestamp: time.Unix(0, 0).UTC(),
	}}, nil
}

// PaymentFacadeStub simulates payments and redemptions.
type PaymentFacadeStub struct {
	ProcessFn        func(context.Context, string, decimal.Decimal, string, usecase.PaymentInstrument) (*usecase.PaymentResult, error)
	RedeemRewardFn   func(context.Context, string, decimal.Decimal, string) (decimal.Decimal, error)
	RedeemBenefitFn  func(context.Context, string, string) error
	RedeemPurchaseFn func(context.Context, string, string) error
	PurchaseOfferFn  func(context.Context, string, string, usecase.PaymentInstrument) (*usecase.PurchaseResult, error)
}

// ProcessPayment delegates to provided function or reports a fixed charge.
func (s PaymentFacadeStub) ProcessPayment(ctx context.Context, memberID string, amount decimal.Decimal, description string, instrument usecase.PaymentInstrument) (*usecase.PaymentResult, error) {
	if s.ProcessFn != nil {
		return s.ProcessFn(ctx, memberID, amount, description, instrument)
	}
	return &usecase.PaymentResult{TransactionID: "txn-1", CashbackEarned: decimal.Zero}, nil
}

// RedeemReward executes the configured handler or reports a zero balance.
func (s PaymentFacadeStub) RedeemReward(ctx context.Context, memberID string, amount decimal.Decimal, note string) (decimal.Decimal, error) {
	if s.RedeemRewardFn != nil {
		return s.RedeemRewardFn(ctx, memberID, amount, note)
	}
	return decimal.Zero, nil
}

// RedeemBenefit executes the configured handler.
func (s PaymentFacadeStub) RedeemBenefit(ctx context.Context, memberID, benefitID string) error {
	if s.RedeemBenefitFn != nil {
		return s.RedeemBenefitFn(ctx, memberID, benefitID)
	}
	return nil
}

// RedeemPurchasedOffer executes the configured handler.
func (s PaymentFacadeStub) RedeemPurchasedOffer(ctx context.Context, memberID, purchaseID string) error {
	if s.RedeemPurchaseFn != nil {
		return s.RedeemPurchaseFn(ctx, memberID, purchaseID)
	}
	return nil
}

// PurchaseOffer delegates to provided function or reports a fixed purchase.
func (s PaymentFacadeStub) PurchaseOffer(ctx context.Context, memberID, offerID string, instrument usecase.PaymentInstrument) (*usecase.PurchaseResult, error) {
	if s.PurchaseOfferFn != nil {
		return s.PurchaseOfferFn(ctx, memberID, offerID, instrument)
	}
	return &usecase.PurchaseResult{PurchaseID: "purchase-1", TransactionID: "txn-1", ExpirationDate: time.Unix(0, 0).UTC()}, nil
}

// CatalogFacadeStub simulates tier and offer administration.
type CatalogFacadeStub struct {
	CreateTierFn  func(context.Context, *model.MembershipTier) (*model.MembershipTier, error)
	TierFn        func(context.Context, string) (*model.MembershipTier, error)
	TiersFn       func(context.Context) ([]model.MembershipTier, error)
	CreateOfferFn func(context.Context, *model.Offer) (*model.Offer, error)
	OfferFn       func(context.Context, string) (*model.Offer, error)
	OffersFn      func(context.Context) ([]model.Offer, error)
	SetStatusFn   func(context.Context, string, model.OfferStatus) error
}

// CreateTier delegates to provided function or echoes the tier with an id.
func (s CatalogFacadeStub) CreateTier(ctx context.Context, tier *model.MembershipTier) (*model.MembershipTier, error) {
	if s.CreateTierFn != nil {
		return s.CreateTierFn(ctx, tier)
	}
	created := *tier
	created.ID = "tier-1"
	return &created, nil
}

// Tier returns the configured tier.
func (s CatalogFacadeStub) Tier(ctx context.Context, id string) (*model.MembershipTier, error) {
	if s.TierFn != nil {
		return s.TierFn(ctx, id)
	}
	return &model.MembershipTier{ID: id, Name: "Stub Tier"}, nil
}

// Tiers returns preconfigured tiers.
func (s CatalogFacadeStub) Tiers(ctx context.Context) ([]model.MembershipTier, error) {
	if s.TiersFn != nil {
		return s.TiersFn(ctx)
	}
	return []model.MembershipTier{{ID: "tier-1", Name: "Stub Tier"}}, nil
}

// CreateOffer delegates to provided function or echoes the offer with an id.
func (s CatalogFacadeStub) CreateOffer(ctx context.Context, offer *model.Offer) (*model.Offer, error) {
	if s.CreateOfferFn != nil {
		return s.CreateOfferFn(ctx, offer)
	}
	created := *offer
	created.ID = "offer-1"
	return &created, nil
}

// Offer returns the configured offer.
func (s CatalogFacadeStub) Offer(ctx context.Context, id string) (*model.Offer, error) {
	if s.OfferFn != nil {
		return s.OfferFn(ctx, id)
	}
	return &model.Offer{ID: id, Title: "Stub Offer", Status: model.OfferStatusActive}, nil
}

// Offers returns preconfigured offers.
func (s CatalogFacadeStub) Offers(ctx context.Context) ([]model.Offer, error) {
	if s.OffersFn != nil {
		return s.OffersFn(ctx)
	}
	return []model.Offer{{ID: "offer-1", Title: "Stub Offer", Status: model.OfferStatusActive}}, nil
}

// SetOfferStatus executes the configured handler.
func (s CatalogFacadeStub) SetOfferStatus(ctx context.Context, id string, status model.OfferStatus) error {
	if s.SetStatusFn != nil {
		return s.SetStatusFn(ctx, id, status)
	}
	return nil
}

// LoyaltyFacadeStub aggregates every facade stub for router level tests.
type LoyaltyFacadeStub struct {
	AuthFacadeStub
	MemberFacadeStub
	PaymentFacadeStub
	CatalogFacadeStub
}
