package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/domain/repository"
	"github.com/rvslabs/membercore/internal/pkg/clock"
	"github.com/rvslabs/membercore/internal/pkg/ident"
	testhelpers "github.com/rvslabs/membercore/internal/test"
	"github.com/rvslabs/membercore/internal/usecase"
)

func newRedemptionUseCase(store *testhelpers.StoreStub) *usecase.RedemptionUseCase {
	return usecase.NewRedemptionUseCase(store, clock.Fixed{Instant: testNow}, &ident.Sequence{Prefix: "id"})
}

func TestRedemptionUseCaseRedeemReward(t *testing.T) {
	store := seedStore()
	uc := newRedemptionUseCase(store)

	balance, err := uc.RedeemReward(context.Background(), "member-1", dec("4"), "coffee")
	if err != nil {
		t.Fatalf("redeem reward returned error: %v", err)
	}
	if !balance.Equal(dec("6")) {
		t.Fatalf("expected balance 6, got %s", balance)
	}

	entries := store.LedgerRepo.EntriesOfType(model.TransactionRewardRedemption)
	if len(entries) != 1 {
		t.Fatalf("expected one redemption entry, got %d", len(entries))
	}
	detail, ok := entries[0].Detail.(model.RewardRedemptionDetail)
	if !ok || detail.Note != "coffee" {
		t.Fatalf("unexpected redemption detail: %+v", entries[0].Detail)
	}
}

func TestRedemptionUseCaseRedeemRewardFailures(t *testing.T) {
	store := seedStore()
	uc := newRedemptionUseCase(store)

	if _, err := uc.RedeemReward(context.Background(), "member-1", dec("11"), ""); !errors.Is(err, domainErrors.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if _, err := uc.RedeemReward(context.Background(), "member-1", decimal.Zero, ""); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := uc.RedeemReward(context.Background(), "missing", dec("1"), ""); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	store.MemberRepo.Members["member-1"].Status = model.MemberStatusInactive
	if _, err := uc.RedeemReward(context.Background(), "member-1", dec("1"), ""); !errors.Is(err, domainErrors.ErrState(domainErrors.ReasonInactiveMember)) {
		t.Fatalf("expected inactive member error, got %v", err)
	}
	if len(store.LedgerRepo.Entries) != 0 {
		t.Fatalf("failed redemptions must not append entries, got %d", len(store.LedgerRepo.Entries))
	}
}

func TestRedemptionUseCaseRedeemBenefit(t *testing.T) {
	store := seedStore()
	store.MemberRepo.Members["member-1"].Benefits = []model.Benefit{
		{ID: "benefit-1", Name: "Free wash", ExpiryDate: testNow.AddDate(0, 1, 0)},
	}
	uc := newRedemptionUseCase(store)

	if err := uc.RedeemBenefit(context.Background(), "member-1", "benefit-1"); err != nil {
		t.Fatalf("redeem benefit returned error: %v", err)
	}
	if !store.MemberRepo.Members["member-1"].Benefits[0].Used {
		t.Fatalf("benefit was not marked used")
	}

	entries := store.LedgerRepo.EntriesOfType(model.TransactionBenefitUsage)
	if len(entries) != 1 {
		t.Fatalf("expected one usage entry, got %d", len(entries))
	}
	detail, ok := entries[0].Detail.(model.BenefitUsageDetail)
	if !ok || detail.BenefitID != "benefit-1" || detail.BenefitName != "Free wash" {
		t.Fatalf("unexpected usage detail: %+v", entries[0].Detail)
	}

	// Second attempt hits the one-way transition.
	err := uc.RedeemBenefit(context.Background(), "member-1", "benefit-1")
	if !errors.Is(err, domainErrors.ErrState(domainErrors.ReasonBenefitUsed)) {
		t.Fatalf("expected benefit used error, got %v", err)
	}

	if err := uc.RedeemBenefit(context.Background(), "member-1", "benefit-9"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown benefit, got %v", err)
	}
}

func TestRedemptionUseCaseRedeemPurchasedOffer(t *testing.T) {
	store := seedStore()
	store.MemberRepo.Members["member-1"].PurchasedOffers = []model.PurchasedOffer{
		{ID: "purchase-1", OfferID: "offer-1", PurchaseDate: testNow.AddDate(0, 0, -1), ExpirationDate: testNow.AddDate(0, 0, 29), Status: model.PurchasedOfferAvailable},
	}
	uc := newRedemptionUseCase(store)

	if err := uc.RedeemPurchasedOffer(context.Background(), "member-1", "purchase-1"); err != nil {
		t.Fatalf("redeem purchase returned error: %v", err)
	}
	if got := store.MemberRepo.Members["member-1"].PurchasedOffers[0].Status; got != model.PurchasedOfferRedeemed {
		t.Fatalf("expected redeemed status, got %s", got)
	}

	err := uc.RedeemPurchasedOffer(context.Background(), "member-1", "purchase-1")
	if !errors.Is(err, domainErrors.ErrState(domainErrors.ReasonPurchaseRedeemed)) {
		t.Fatalf("expected purchase redeemed error, got %v", err)
	}
}

func TestRedemptionUseCaseLazyExpiry(t *testing.T) {
	store := seedStore()
	store.MemberRepo.Members["member-1"].PurchasedOffers = []model.PurchasedOffer{
		{ID: "purchase-1", OfferID: "offer-1", ExpirationDate: testNow.Add(-time.Hour), Status: model.PurchasedOfferAvailable},
	}
	var txResults []error
	store.InTxFn = func(ctx context.Context, fn func(repository.Repos) error) error {
		err := fn(store)
		txResults = append(txResults, err)
		return err
	}
	uc := newRedemptionUseCase(store)

	err := uc.RedeemPurchasedOffer(context.Background(), "member-1", "purchase-1")
	if !errors.Is(err, domainErrors.ErrState(domainErrors.ReasonPurchaseExpired)) {
		t.Fatalf("expected purchase expired error, got %v", err)
	}
	// The transition to expired is persisted and terminal. The atomic
	// unit must return nil so the write commits instead of rolling back;
	// the rejection is raised only after that.
	if len(txResults) != 1 || txResults[0] != nil {
		t.Fatalf("expiry transition must commit, tx returned %v", txResults)
	}
	if got := store.MemberRepo.Members["member-1"].PurchasedOffers[0].Status; got != model.PurchasedOfferExpired {
		t.Fatalf("expected persisted expired status, got %s", got)
	}
	err = uc.RedeemPurchasedOffer(context.Background(), "member-1", "purchase-1")
	if !errors.Is(err, domainErrors.ErrState(domainErrors.ReasonPurchaseExpired)) {
		t.Fatalf("expected purchase expired error on retry, got %v", err)
	}

	if err := uc.RedeemPurchasedOffer(context.Background(), "member-1", "purchase-9"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown purchase, got %v", err)
	}
}
