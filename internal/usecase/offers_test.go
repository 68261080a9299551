package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rvslabs/membercore/internal/adapter/processor"
	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/pkg/clock"
	"github.com/rvslabs/membercore/internal/pkg/ident"
	testhelpers "github.com/rvslabs/membercore/internal/test"
	"github.com/rvslabs/membercore/internal/usecase"
)

func seedOffer(store *testhelpers.StoreStub) *model.Offer {
	offer := &model.Offer{
		ID:        "offer-1",
		Title:     "Spa day",
		Price:     dec("40"),
		Status:    model.OfferStatusActive,
		StartDate: testNow.Add(-time.Hour),
		EndDate:   testNow.Add(time.Hour),
	}
	store.OfferRepo.Offers[offer.ID] = offer
	return offer
}

func newOfferUseCase(store *testhelpers.StoreStub, validity time.Duration) *usecase.OfferPurchaseUseCase {
	return usecase.NewOfferPurchaseUseCase(store, processor.NewStub(), clock.Fixed{Instant: testNow}, &ident.Sequence{Prefix: "id"}, validity)
}

func TestOfferPurchaseUseCasePurchase(t *testing.T) {
	store := seedStore()
	seedOffer(store)
	uc := newOfferUseCase(store, 0)

	result, err := uc.PurchaseOffer(context.Background(), "member-1", "offer-1", usecase.PaymentInstrument{Method: model.PaymentMethodCash})
	if err != nil {
		t.Fatalf("purchase returned error: %v", err)
	}
	if want := testNow.Add(30 * 24 * time.Hour); !result.ExpirationDate.Equal(want) {
		t.Fatalf("expected default 30 day validity, got %s", result.ExpirationDate)
	}

	member := store.MemberRepo.Members["member-1"]
	if len(member.PurchasedOffers) != 1 {
		t.Fatalf("expected one purchase on member, got %d", len(member.PurchasedOffers))
	}
	purchase := member.PurchasedOffers[0]
	if purchase.ID != result.PurchaseID || purchase.Status != model.PurchasedOfferAvailable {
		t.Fatalf("unexpected purchase record: %+v", purchase)
	}

	entries := store.LedgerRepo.EntriesOfType(model.TransactionOfferPurchase)
	if len(entries) != 1 {
		t.Fatalf("expected one purchase entry, got %d", len(entries))
	}
	detail, ok := entries[0].Detail.(model.OfferPurchaseDetail)
	if !ok || detail.OfferID != "offer-1" || detail.PurchaseID != result.PurchaseID {
		t.Fatalf("unexpected purchase detail: %+v", entries[0].Detail)
	}
	if store.OfferRepo.Offers["offer-1"].RedemptionCount != 1 {
		t.Fatalf("redemption count was not claimed")
	}
}

func TestOfferPurchaseUseCaseConfiguredValidity(t *testing.T) {
	store := seedStore()
	seedOffer(store)
	uc := newOfferUseCase(store, 48*time.Hour)

	result, err := uc.PurchaseOffer(context.Background(), "member-1", "offer-1", usecase.PaymentInstrument{Method: model.PaymentMethodCash})
	if err != nil {
		t.Fatalf("purchase returned error: %v", err)
	}
	if want := testNow.Add(48 * time.Hour); !result.ExpirationDate.Equal(want) {
		t.Fatalf("expected 48h validity, got %s", result.ExpirationDate)
	}
}

func TestOfferPurchaseUseCaseRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*testhelpers.StoreStub, *model.Offer)
		wantErr error
	}{
		{
			name:    "draft offer",
			mutate:  func(_ *testhelpers.StoreStub, o *model.Offer) { o.Status = model.OfferStatusDraft },
			wantErr: domainErrors.ErrState(domainErrors.ReasonOfferNotActive),
		},
		{
			name:    "before window",
			mutate:  func(_ *testhelpers.StoreStub, o *model.Offer) { o.StartDate = testNow.Add(time.Minute) },
			wantErr: domainErrors.ErrState(domainErrors.ReasonOfferNotActive),
		},
		{
			name:    "after window",
			mutate:  func(_ *testhelpers.StoreStub, o *model.Offer) { o.EndDate = testNow.Add(-time.Minute) },
			wantErr: domainErrors.ErrState(domainErrors.ReasonOfferNotActive),
		},
		{
			name:    "tier not eligible",
			mutate:  func(_ *testhelpers.StoreStub, o *model.Offer) { o.TierIDs = []string{"tier-9"} },
			wantErr: domainErrors.ErrState(domainErrors.ReasonTierNotEligible),
		},
		{
			name: "sold out",
			mutate: func(_ *testhelpers.StoreStub, o *model.Offer) {
				limit := 2
				o.QuantityLimit = &limit
				o.RedemptionCount = 2
			},
			wantErr: domainErrors.ErrState(domainErrors.ReasonOfferSoldOut),
		},
		{
			name: "inactive member",
			mutate: func(s *testhelpers.StoreStub, _ *model.Offer) {
				s.MemberRepo.Members["member-1"].Status = model.MemberStatusInactive
			},
			wantErr: domainErrors.ErrState(domainErrors.ReasonInactiveMember),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := seedStore()
			offer := seedOffer(store)
			tc.mutate(store, offer)
			uc := newOfferUseCase(store, 0)

			_, err := uc.PurchaseOffer(context.Background(), "member-1", "offer-1", usecase.PaymentInstrument{Method: model.PaymentMethodCash})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if len(store.MemberRepo.Members["member-1"].PurchasedOffers) != 0 {
				t.Fatalf("rejected purchase must not reach the member")
			}
			if len(store.LedgerRepo.Entries) != 0 {
				t.Fatalf("rejected purchase must not append entries")
			}
		})
	}
}

func TestOfferPurchaseUseCaseUnknownIDs(t *testing.T) {
	store := seedStore()
	seedOffer(store)
	uc := newOfferUseCase(store, 0)

	if _, err := uc.PurchaseOffer(context.Background(), "member-1", "offer-9", usecase.PaymentInstrument{Method: model.PaymentMethodCash}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown offer, got %v", err)
	}
	if _, err := uc.PurchaseOffer(context.Background(), "missing", "offer-1", usecase.PaymentInstrument{Method: model.PaymentMethodCash}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown member, got %v", err)
	}
}

func TestOfferPurchaseUseCaseDeclinedCardClaimsNothing(t *testing.T) {
	store := seedStore()
	seedOffer(store)
	uc := newOfferUseCase(store, 0)

	declined := usecase.PaymentInstrument{Method: model.PaymentMethodCard, Card: &processor.Card{Number: processor.TestCardDeclined, ExpiryDate: "12/30", CVV: "123"}}
	if _, err := uc.PurchaseOffer(context.Background(), "member-1", "offer-1", declined); !errors.Is(err, processor.ErrCardDeclined) {
		t.Fatalf("expected card declined, got %v", err)
	}
	if store.OfferRepo.Offers["offer-1"].RedemptionCount != 0 {
		t.Fatalf("declined purchase must not claim inventory")
	}

	// Member state wins over the card outcome: no authorization is
	// attempted for an account that cannot take the charge.
	store.MemberRepo.Members["member-1"].Status = model.MemberStatusInactive
	if _, err := uc.PurchaseOffer(context.Background(), "member-1", "offer-1", declined); !errors.Is(err, domainErrors.ErrState(domainErrors.ReasonInactiveMember)) {
		t.Fatalf("expected inactive member error over card decline, got %v", err)
	}
	if _, err := uc.PurchaseOffer(context.Background(), "missing", "offer-1", declined); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found over card decline, got %v", err)
	}
}

func TestOfferPurchaseUseCaseLastUnitRace(t *testing.T) {
	store := seedStore()
	offer := seedOffer(store)
	limit := 1
	offer.QuantityLimit = &limit
	uc := newOfferUseCase(store, 0)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.PurchaseOffer(context.Background(), "member-1", "offer-1", usecase.PaymentInstrument{Method: model.PaymentMethodCash})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, soldOut int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domainErrors.ErrState(domainErrors.ReasonOfferSoldOut)):
			soldOut++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || soldOut != attempts-1 {
		t.Fatalf("expected exactly one claim of the last unit, got %d successes and %d sold out", succeeded, soldOut)
	}
	if store.OfferRepo.Offers["offer-1"].RedemptionCount != 1 {
		t.Fatalf("redemption count moved past the limit: %d", store.OfferRepo.Offers["offer-1"].RedemptionCount)
	}
	if len(store.MemberRepo.Members["member-1"].PurchasedOffers) != 1 {
		t.Fatalf("expected one purchase on the member, got %d", len(store.MemberRepo.Members["member-1"].PurchasedOffers))
	}
}
