package usecase

import (
	"context"
	"time"

	"github.com/rvslabs/membercore/internal/adapter/processor"
	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/domain/repository"
	"github.com/rvslabs/membercore/internal/pkg/clock"
	"github.com/rvslabs/membercore/internal/pkg/ident"
)

// PurchaseResult reports a completed offer purchase.
type PurchaseResult struct {
	PurchaseID     string
	TransactionID  string
	ExpirationDate time.Time
}

// OfferPurchaseUseCase sells catalog offers to members.
type OfferPurchaseUseCase struct {
	store    repository.Store
	cards    processor.Authorizer
	clock    clock.Clock
	ids      ident.Generator
	validity time.Duration
}

// NewOfferPurchaseUseCase constructs OfferPurchaseUseCase. validity is the
// default window a purchased offer stays redeemable; zero means 30 days.
func NewOfferPurchaseUseCase(store repository.Store, cards processor.Authorizer, clk clock.Clock, ids ident.Generator, validity time.Duration) *OfferPurchaseUseCase {
	if validity <= 0 {
		validity = 30 * 24 * time.Hour
	}
	return &OfferPurchaseUseCase{store: store, cards: cards, clock: clk, ids: ids, validity: validity}
}

// PurchaseOffer sells one unit of the offer to the member. Inventory is
// claimed with a single conditional increment scoped to the offer, so two
// concurrent purchases of the last unit can never both succeed.
func (u *OfferPurchaseUseCase) PurchaseOffer(ctx context.Context, memberID, offerID string, instrument PaymentInstrument) (*PurchaseResult, error) {
	// Check the member before touching the external processor; a charge
	// is never authorized for an account that cannot accept it.
	member, err := u.store.Members().Get(ctx, memberID)
	if err != nil {
		return nil, domainErrors.Persistence("purchase offer", err)
	}
	if member.Status != model.MemberStatusActive {
		return nil, domainErrors.NewStateError(domainErrors.ReasonInactiveMember, member.ID)
	}

	offer, err := u.store.Offers().Get(ctx, offerID)
	if err != nil {
		return nil, domainErrors.Persistence("purchase offer", err)
	}

	method, err := settle(ctx, u.cards, instrument, offer.Price)
	if err != nil {
		return nil, err
	}

	var result PurchaseResult
	err = u.store.InTx(ctx, func(r repository.Repos) error {
		member, err := r.Members().GetForUpdate(ctx, memberID)
		if err != nil {
			return err
		}
		if member.Status != model.MemberStatusActive {
			return domainErrors.NewStateError(domainErrors.ReasonInactiveMember, member.ID)
		}

		// Re-read under the transaction; catalog state may have moved
		// since the price was authorized.
		offer, err := r.Offers().Get(ctx, offerID)
		if err != nil {
			return err
		}

		now := u.clock.Now()
		if offer.Status != model.OfferStatusActive {
			return domainErrors.NewStateError(domainErrors.ReasonOfferNotActive, offer.ID)
		}
		if now.Before(offer.StartDate) || now.After(offer.EndDate) {
			return domainErrors.NewStateError(domainErrors.ReasonOfferNotActive, offer.ID)
		}
		if !offer.EligibleFor(member.TierID) {
			return domainErrors.NewStateError(domainErrors.ReasonTierNotEligible, offer.ID)
		}

		claimed, err := r.Offers().TryIncrementRedemption(ctx, offer.ID)
		if err != nil {
			return err
		}
		if !claimed {
			return domainErrors.NewStateError(domainErrors.ReasonOfferSoldOut, offer.ID)
		}

		purchase := model.PurchasedOffer{
			ID:             u.ids.New(),
			OfferID:        offer.ID,
			PurchaseDate:   now,
			ExpirationDate: now.Add(u.validity),
			Status:         model.PurchasedOfferAvailable,
		}
		member.PurchasedOffers = append(member.PurchasedOffers, purchase)
		member.LastActivity = now

		txID := u.ids.New()
		if err := r.Ledger().Append(ctx, &model.Transaction{
			ID:            txID,
			Type:          model.TransactionOfferPurchase,
			MemberID:      member.ID,
			Amount:        offer.Price,
			PaymentMethod: method,
			Status:        model.TransactionCompleted,
			Timestamp:     now,
			Detail:        model.OfferPurchaseDetail{OfferID: offer.ID, OfferTitle: offer.Title, PurchaseID: purchase.ID},
		}); err != nil {
			return err
		}

		if err := r.Members().Save(ctx, member); err != nil {
			return err
		}

		result = PurchaseResult{PurchaseID: purchase.ID, TransactionID: txID, ExpirationDate: purchase.ExpirationDate}
		return nil
	})
	if err != nil {
		return nil, domainErrors.Persistence("purchase offer", err)
	}
	return &result, nil
}
