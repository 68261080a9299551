package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/usecase"
)

// LoyaltyFacade is the single entry point the HTTP layer and the renewal
// worker talk to. It flattens the use cases into one surface.
type LoyaltyFacade struct {
	auth       *usecase.AuthUseCase
	payments   *usecase.PaymentUseCase
	redemption *usecase.RedemptionUseCase
	offers     *usecase.OfferPurchaseUseCase
	enrollment *usecase.EnrollmentUseCase
	catalog    *usecase.CatalogUseCase
}

func NewLoyaltyFacade(
	auth *usecase.AuthUseCase,
	payments *usecase.PaymentUseCase,
	redemption *usecase.RedemptionUseCase,
	offers *usecase.OfferPurchaseUseCase,
	enrollment *usecase.EnrollmentUseCase,
	catalog *usecase.CatalogUseCase,
) *LoyaltyFacade {
	return &LoyaltyFacade{
		auth:       auth,
		payments:   payments,
		redemption: redemption,
		offers:     offers,
		enrollment: enrollment,
		catalog:    catalog,
	}
}

func (f *LoyaltyFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *LoyaltyFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *LoyaltyFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *LoyaltyFacade) ProcessPayment(ctx context.Context, memberID string, amount decimal.Decimal, description string, instrument usecase.PaymentInstrument) (*usecase.PaymentResult, error) {
	return f.payments.ProcessPayment(ctx, memberID, amount, description, instrument)
}

func (f *LoyaltyFacade) MemberHistory(ctx context.Context, memberID string, limit int) ([]model.Transaction, error) {
	return f.payments.History(ctx, memberID, limit)
}

func (f *LoyaltyFacade) RedeemReward(ctx context.Context, memberID string, amount decimal.Decimal, note string) (decimal.Decimal, error) {
	return f.redemption.RedeemReward(ctx, memberID, amount, note)
}

func (f *LoyaltyFacade) RedeemBenefit(ctx context.Context, memberID, benefitID string) error {
	return f.redemption.RedeemBenefit(ctx, memberID, benefitID)
}

func (f *LoyaltyFacade) RedeemPurchasedOffer(ctx context.Context, memberID, purchaseID string) error {
	return f.redemption.RedeemPurchasedOffer(ctx, memberID, purchaseID)
}

func (f *LoyaltyFacade) PurchaseOffer(ctx context.Context, memberID, offerID string, instrument usecase.PaymentInstrument) (*usecase.PurchaseResult, error) {
	return f.offers.PurchaseOffer(ctx, memberID, offerID, instrument)
}

func (f *LoyaltyFacade) EnrollMember(ctx context.Context, data usecase.EnrollmentData, tierID string, instrument usecase.PaymentInstrument) (*usecase.EnrollmentResult, error) {
	return f.enrollment.EnrollMember(ctx, data, tierID, instrument)
}

func (f *LoyaltyFacade) Member(ctx context.Context, id string) (*model.Member, error) {
	return f.enrollment.GetMember(ctx, id)
}

func (f *LoyaltyFacade) ArchiveMember(ctx context.Context, id string) error {
	return f.enrollment.ArchiveMember(ctx, id)
}

func (f *LoyaltyFacade) RenewDue(ctx context.Context, limit int) (int, error) {
	return f.enrollment.RenewDue(ctx, limit)
}

func (f *LoyaltyFacade) CreateTier(ctx context.Context, tier *model.MembershipTier) (*model.MembershipTier, error) {
	return f.catalog.CreateTier(ctx, tier)
}

func (f *LoyaltyFacade) Tier(ctx context.Context, id string) (*model.MembershipTier, error) {
	return f.catalog.GetTier(ctx, id)
}

func (f *LoyaltyFacade) Tiers(ctx context.Context) ([]model.MembershipTier, error) {
	return f.catalog.ListTiers(ctx)
}

func (f *LoyaltyFacade) CreateOffer(ctx context.Context, offer *model.Offer) (*model.Offer, error) {
	return f.catalog.CreateOffer(ctx, offer)
}

func (f *LoyaltyFacade) Offer(ctx context.Context, id string) (*model.Offer, error) {
	return f.catalog.GetOffer(ctx, id)
}

func (f *LoyaltyFacade) Offers(ctx context.Context) ([]model.Offer, error) {
	return f.catalog.ListOffers(ctx)
}

func (f *LoyaltyFacade) SetOfferStatus(ctx context.Context, id string, status model.OfferStatus) error {
	return f.catalog.SetOfferStatus(ctx, id, status)
}
