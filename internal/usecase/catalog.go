package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/domain/repository"
	"github.com/rvslabs/membercore/internal/pkg/clock"
	"github.com/rvslabs/membercore/internal/pkg/ident"
)

var oneHundred = decimal.NewFromInt(100)

// CatalogUseCase administers membership tiers and purchasable offers.
type CatalogUseCase struct {
	store repository.Store
	clock clock.Clock
	ids   ident.Generator
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(store repository.Store, clk clock.Clock, ids ident.Generator) *CatalogUseCase {
	return &CatalogUseCase{store: store, clock: clk, ids: ids}
}

// CreateTier registers a new membership tier definition.
func (u *CatalogUseCase) CreateTier(ctx context.Context, tier *model.MembershipTier) (*model.MembershipTier, error) {
	tier.Name = strings.TrimSpace(tier.Name)
	if tier.Name == "" {
		return nil, domainErrors.NewValidationError("name", "must not be empty")
	}
	if tier.RewardValue.Sign() < 0 {
		return nil, domainErrors.NewValidationError("rewardValue", "must not be negative")
	}
	if cb := tier.Cashback; cb != nil && cb.Enabled {
		if cb.Rate.Sign() < 0 || cb.Rate.GreaterThan(oneHundred) {
			return nil, domainErrors.NewValidationError("cashback.rate", "must be between 0 and 100")
		}
	}
	for _, tpl := range tier.BenefitTemplates {
		if tpl.ExpiresInMonths < 1 {
			return nil, domainErrors.NewValidationError("benefits.expiresInMonths", "must be at least 1")
		}
	}

	now := u.clock.Now()
	tier.ID = u.ids.New()
	tier.MemberCount = 0
	tier.CreatedAt = now
	tier.UpdatedAt = now
	if err := u.store.Tiers().Create(ctx, tier); err != nil {
		return nil, domainErrors.Persistence("create tier", err)
	}
	return tier, nil
}

// GetTier fetches one tier definition.
func (u *CatalogUseCase) GetTier(ctx context.Context, id string) (*model.MembershipTier, error) {
	tier, err := u.store.Tiers().Get(ctx, id)
	if err != nil {
		return nil, domainErrors.Persistence("get tier", err)
	}
	return tier, nil
}

// ListTiers returns every tier definition.
func (u *CatalogUseCase) ListTiers(ctx context.Context) ([]model.MembershipTier, error) {
	tiers, err := u.store.Tiers().List(ctx)
	if err != nil {
		return nil, domainErrors.Persistence("list tiers", err)
	}
	return tiers, nil
}

// CreateOffer registers a new offer in draft status.
func (u *CatalogUseCase) CreateOffer(ctx context.Context, offer *model.Offer) (*model.Offer, error) {
	offer.Title = strings.TrimSpace(offer.Title)
	if offer.Title == "" {
		return nil, domainErrors.NewValidationError("title", "must not be empty")
	}
	if offer.Price.Sign() < 0 {
		return nil, domainErrors.NewValidationError("price", "must not be negative")
	}
	if offer.QuantityLimit != nil && *offer.QuantityLimit < 1 {
		return nil, domainErrors.NewValidationError("quantityLimit", "must be at least 1")
	}
	if !offer.EndDate.After(offer.StartDate) {
		return nil, domainErrors.NewValidationError("endDate", "must be after start date")
	}

	now := u.clock.Now()
	offer.ID = u.ids.New()
	offer.Status = model.OfferStatusDraft
	offer.RedemptionCount = 0
	offer.CreatedAt = now
	offer.UpdatedAt = now
	if err := u.store.Offers().Create(ctx, offer); err != nil {
		return nil, domainErrors.Persistence("create offer", err)
	}
	return offer, nil
}

// GetOffer fetches one offer.
func (u *CatalogUseCase) GetOffer(ctx context.Context, id string) (*model.Offer, error) {
	offer, err := u.store.Offers().Get(ctx, id)
	if err != nil {
		return nil, domainErrors.Persistence("get offer", err)
	}
	return offer, nil
}

// ListOffers returns every offer.
func (u *CatalogUseCase) ListOffers(ctx context.Context) ([]model.Offer, error) {
	offers, err := u.store.Offers().List(ctx)
	if err != nil {
		return nil, domainErrors.Persistence("list offers", err)
	}
	return offers, nil
}

// SetOfferStatus moves an offer through its catalog lifecycle.
func (u *CatalogUseCase) SetOfferStatus(ctx context.Context, id string, status model.OfferStatus) error {
	switch status {
	case model.OfferStatusDraft, model.OfferStatusActive, model.OfferStatusPaused, model.OfferStatusExpired:
	default:
		return domainErrors.NewValidationError("status", "unknown offer status")
	}
	if _, err := u.store.Offers().Get(ctx, id); err != nil {
		return domainErrors.Persistence("set offer status", err)
	}
	if err := u.store.Offers().UpdateStatus(ctx, id, status); err != nil {
		return domainErrors.Persistence("set offer status", err)
	}
	return nil
}
