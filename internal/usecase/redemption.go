package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/domain/repository"
	"github.com/rvslabs/membercore/internal/pkg/clock"
	"github.com/rvslabs/membercore/internal/pkg/ident"
)

// RedemptionUseCase handles reward balance, benefit, and purchased-offer
// redemption. All three are one-way: there is no compensating un-redeem.
type RedemptionUseCase struct {
	store repository.Store
	clock clock.Clock
	ids   ident.Generator
}

// NewRedemptionUseCase constructs RedemptionUseCase.
func NewRedemptionUseCase(store repository.Store, clk clock.Clock, ids ident.Generator) *RedemptionUseCase {
	return &RedemptionUseCase{store: store, clock: clk, ids: ids}
}

// RedeemReward spends amount from the member's reward balance. The balance
// decrement and the reward_redemption ledger entry commit together; the
// balance can never go negative.
func (u *RedemptionUseCase) RedeemReward(ctx context.Context, memberID string, amount decimal.Decimal, note string) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, domainErrors.NewValidationError("amount", "must be positive")
	}

	var balance decimal.Decimal
	err := u.store.InTx(ctx, func(r repository.Repos) error {
		member, err := r.Members().GetForUpdate(ctx, memberID)
		if err != nil {
			return err
		}
		if member.Status != model.MemberStatusActive {
			return domainErrors.NewStateError(domainErrors.ReasonInactiveMember, member.ID)
		}
		if amount.GreaterThan(member.RewardsBalance) {
			return domainErrors.ErrInsufficientFunds
		}

		now := u.clock.Now()
		if err := r.Ledger().Append(ctx, &model.Transaction{
			ID:        u.ids.New(),
			Type:      model.TransactionRewardRedemption,
			MemberID:  member.ID,
			Amount:    amount,
			Status:    model.TransactionCompleted,
			Timestamp: now,
			Detail:    model.RewardRedemptionDetail{Note: note},
		}); err != nil {
			return err
		}

		member.RewardsBalance = member.RewardsBalance.Sub(amount)
		member.LastActivity = now
		if err := r.Members().Save(ctx, member); err != nil {
			return err
		}

		balance = member.RewardsBalance
		return nil
	})
	if err != nil {
		return decimal.Zero, domainErrors.Persistence("redeem reward", err)
	}
	return balance, nil
}

// RedeemBenefit marks a benefit used. A benefit moves Available to Used at
// most once and never back.
func (u *RedemptionUseCase) RedeemBenefit(ctx context.Context, memberID, benefitID string) error {
	err := u.store.InTx(ctx, func(r repository.Repos) error {
		member, err := r.Members().GetForUpdate(ctx, memberID)
		if err != nil {
			return err
		}
		if member.Status != model.MemberStatusActive {
			return domainErrors.NewStateError(domainErrors.ReasonInactiveMember, member.ID)
		}

		benefit := member.FindBenefit(benefitID)
		if benefit == nil {
			return domainErrors.ErrNotFound
		}
		if benefit.Used {
			return domainErrors.NewStateError(domainErrors.ReasonBenefitUsed, benefit.ID)
		}

		now := u.clock.Now()
		benefit.Used = true
		if err := r.Ledger().Append(ctx, &model.Transaction{
			ID:        u.ids.New(),
			Type:      model.TransactionBenefitUsage,
			MemberID:  member.ID,
			Amount:    decimal.Zero,
			Status:    model.TransactionCompleted,
			Timestamp: now,
			Detail:    model.BenefitUsageDetail{BenefitID: benefit.ID, BenefitName: benefit.Name},
		}); err != nil {
			return err
		}

		member.LastActivity = now
		return r.Members().Save(ctx, member)
	})
	return domainErrors.Persistence("redeem benefit", err)
}

// RedeemPurchasedOffer consumes a bought offer. Expiry is checked lazily
// here: a purchase past its expiration date transitions to Expired instead
// of Redeemed, and that transition is terminal. The Expired status must
// survive the rejection, so the atomic unit commits and the state error is
// reported only afterwards.
func (u *RedemptionUseCase) RedeemPurchasedOffer(ctx context.Context, memberID, purchaseID string) error {
	var expired *domainErrors.StateError
	err := u.store.InTx(ctx, func(r repository.Repos) error {
		member, err := r.Members().GetForUpdate(ctx, memberID)
		if err != nil {
			return err
		}

		purchase := member.FindPurchasedOffer(purchaseID)
		if purchase == nil {
			return domainErrors.ErrNotFound
		}

		switch purchase.Status {
		case model.PurchasedOfferRedeemed:
			return domainErrors.NewStateError(domainErrors.ReasonPurchaseRedeemed, purchase.ID)
		case model.PurchasedOfferExpired:
			return domainErrors.NewStateError(domainErrors.ReasonPurchaseExpired, purchase.ID)
		}

		now := u.clock.Now()
		if now.After(purchase.ExpirationDate) {
			purchase.Status = model.PurchasedOfferExpired
			expired = domainErrors.NewStateError(domainErrors.ReasonPurchaseExpired, purchase.ID)
			return r.Members().Save(ctx, member)
		}

		purchase.Status = model.PurchasedOfferRedeemed
		member.LastActivity = now
		return r.Members().Save(ctx, member)
	})
	if err != nil {
		return domainErrors.Persistence("redeem purchased offer", err)
	}
	if expired != nil {
		return expired
	}
	return nil
}
