package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvslabs/membercore/internal/adapter/processor"
	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/pkg/clock"
	"github.com/rvslabs/membercore/internal/pkg/ident"
	testhelpers "github.com/rvslabs/membercore/internal/test"
	"github.com/rvslabs/membercore/internal/usecase"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedStore builds a store with one active member on a 3% cashback tier.
func seedStore() *testhelpers.StoreStub {
	store := testhelpers.NewStoreStub()
	monthly := dec("15")
	store.TierRepo.Tiers["tier-1"] = &model.MembershipTier{
		ID:           "tier-1",
		Name:         "Gold",
		MonthlyPrice: &monthly,
		YearlyPrice:  &model.YearlyPrice{FirstYear: dec("120"), SecondYear: dec("99")},
		RewardValue:  dec("10"),
		Cashback:     &model.CashbackConfig{Enabled: true, Rate: dec("3")},
	}
	store.MemberRepo.Members["member-1"] = &model.Member{
		ID:             "member-1",
		Name:           "Jo",
		Email:          "jo@example.com",
		TierID:         "tier-1",
		Status:         model.MemberStatusActive,
		RewardsBalance: dec("10"),
		TotalSpent:     decimal.Zero,
	}
	return store
}

func newPaymentUseCase(store *testhelpers.StoreStub) *usecase.PaymentUseCase {
	return usecase.NewPaymentUseCase(store, processor.NewStub(), clock.Fixed{Instant: testNow}, &ident.Sequence{Prefix: "id"})
}

func TestPaymentUseCaseProcessPayment(t *testing.T) {
	store := seedStore()
	uc := newPaymentUseCase(store)

	result, err := uc.ProcessPayment(context.Background(), "member-1", dec("120"), "March electricity", usecase.PaymentInstrument{Method: model.PaymentMethodCash})
	if err != nil {
		t.Fatalf("process payment returned error: %v", err)
	}
	if !result.CashbackEarned.Equal(dec("3.6")) {
		t.Fatalf("expected cashback 3.6, got %s", result.CashbackEarned)
	}

	member := store.MemberRepo.Members["member-1"]
	if !member.TotalSpent.Equal(dec("120")) {
		t.Fatalf("expected total spent 120, got %s", member.TotalSpent)
	}
	if !member.RewardsBalance.Equal(dec("13.6")) {
		t.Fatalf("expected balance 13.6, got %s", member.RewardsBalance)
	}
	if !member.LastActivity.Equal(testNow) {
		t.Fatalf("expected last activity updated, got %s", member.LastActivity)
	}

	payments := store.LedgerRepo.EntriesOfType(model.TransactionBillPayment)
	if len(payments) != 1 {
		t.Fatalf("expected one payment entry, got %d", len(payments))
	}
	if payments[0].ID != result.TransactionID {
		t.Fatalf("payment entry id mismatch: %q vs %q", payments[0].ID, result.TransactionID)
	}
	detail, ok := payments[0].Detail.(model.BillPaymentDetail)
	if !ok || detail.Description != "March electricity" {
		t.Fatalf("unexpected payment detail: %+v", payments[0].Detail)
	}

	cashbacks := store.LedgerRepo.EntriesOfType(model.TransactionCashbackEarned)
	if len(cashbacks) != 1 {
		t.Fatalf("expected one cashback entry, got %d", len(cashbacks))
	}
	cbDetail, ok := cashbacks[0].Detail.(model.CashbackDetail)
	if !ok || cbDetail.PaymentID != result.TransactionID {
		t.Fatalf("cashback entry does not reference payment: %+v", cashbacks[0].Detail)
	}
}

func TestPaymentUseCaseNoCashbackEntryWhenZero(t *testing.T) {
	store := seedStore()
	store.TierRepo.Tiers["tier-1"].Cashback = nil
	uc := newPaymentUseCase(store)

	result, err := uc.ProcessPayment(context.Background(), "member-1", dec("50"), "water", usecase.PaymentInstrument{Method: model.PaymentMethodCash})
	if err != nil {
		t.Fatalf("process payment returned error: %v", err)
	}
	if !result.CashbackEarned.IsZero() {
		t.Fatalf("expected zero cashback, got %s", result.CashbackEarned)
	}
	if entries := store.LedgerRepo.EntriesOfType(model.TransactionCashbackEarned); len(entries) != 0 {
		t.Fatalf("expected no cashback entry, got %d", len(entries))
	}
}

func TestPaymentUseCaseMonthlyCapSpansLedger(t *testing.T) {
	store := seedStore()
	monthlyCap := dec("5")
	store.TierRepo.Tiers["tier-1"].Cashback.Limits = &model.CashbackLimits{Monthly: &monthlyCap}

	// Earned earlier in the same calendar month.
	store.LedgerRepo.Entries = append(store.LedgerRepo.Entries, &model.Transaction{
		ID:             "prior",
		Type:           model.TransactionCashbackEarned,
		MemberID:       "member-1",
		Amount:         dec("4"),
		CashbackEarned: dec("4"),
		Status:         model.TransactionCompleted,
		Timestamp:      testNow.AddDate(0, 0, -10),
	})

	uc := newPaymentUseCase(store)
	result, err := uc.ProcessPayment(context.Background(), "member-1", dec("100"), "gas", usecase.PaymentInstrument{Method: model.PaymentMethodCash})
	if err != nil {
		t.Fatalf("process payment returned error: %v", err)
	}
	if !result.CashbackEarned.Equal(dec("1")) {
		t.Fatalf("expected remaining 1, got %s", result.CashbackEarned)
	}
}

func TestPaymentUseCaseValidation(t *testing.T) {
	uc := newPaymentUseCase(seedStore())

	for _, amount := range []decimal.Decimal{decimal.Zero, dec("-5")} {
		if _, err := uc.ProcessPayment(context.Background(), "member-1", amount, "x", usecase.PaymentInstrument{Method: model.PaymentMethodCash}); !errors.Is(err, domainErrors.ErrValidation) {
			t.Fatalf("expected validation error for amount %s, got %v", amount, err)
		}
	}

	if _, err := uc.ProcessPayment(context.Background(), "member-1", dec("10"), "x", usecase.PaymentInstrument{Method: "crypto"}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for unknown method, got %v", err)
	}
	if _, err := uc.ProcessPayment(context.Background(), "member-1", dec("10"), "x", usecase.PaymentInstrument{Method: model.PaymentMethodCard}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for missing card, got %v", err)
	}
}

func TestPaymentUseCaseMemberStates(t *testing.T) {
	store := seedStore()
	store.MemberRepo.Members["member-1"].Status = model.MemberStatusInactive
	uc := newPaymentUseCase(store)

	_, err := uc.ProcessPayment(context.Background(), "member-1", dec("10"), "x", usecase.PaymentInstrument{Method: model.PaymentMethodCash})
	if !errors.Is(err, domainErrors.ErrState(domainErrors.ReasonInactiveMember)) {
		t.Fatalf("expected inactive member error, got %v", err)
	}

	if _, err := uc.ProcessPayment(context.Background(), "missing", dec("10"), "x", usecase.PaymentInstrument{Method: model.PaymentMethodCash}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	// Member state wins over the card outcome: no authorization is
	// attempted for an account that cannot take the charge.
	declined := usecase.PaymentInstrument{Method: model.PaymentMethodCard, Card: &processor.Card{Number: processor.TestCardDeclined, ExpiryDate: "12/30", CVV: "123"}}
	if _, err := uc.ProcessPayment(context.Background(), "member-1", dec("10"), "x", declined); !errors.Is(err, domainErrors.ErrState(domainErrors.ReasonInactiveMember)) {
		t.Fatalf("expected inactive member error over card decline, got %v", err)
	}
	if _, err := uc.ProcessPayment(context.Background(), "missing", dec("10"), "x", declined); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found over card decline, got %v", err)
	}
}

func TestPaymentUseCaseCardOutcomes(t *testing.T) {
	store := seedStore()
	uc := newPaymentUseCase(store)

	result, err := uc.ProcessPayment(context.Background(), "member-1", dec("30"), "internet", usecase.PaymentInstrument{
		Method: model.PaymentMethodCard,
		Card:   &processor.Card{Number: processor.TestCardValid, ExpiryDate: "12/30", CVV: "123"},
	})
	if err != nil {
		t.Fatalf("card payment returned error: %v", err)
	}
	payments := store.LedgerRepo.EntriesOfType(model.TransactionBillPayment)
	if len(payments) != 1 || payments[0].PaymentMethod == nil || payments[0].PaymentMethod.Last4 != "4242" {
		t.Fatalf("expected masked card on ledger entry, got %+v", payments[0].PaymentMethod)
	}
	if payments[0].ID != result.TransactionID {
		t.Fatalf("payment entry id mismatch: %q vs %q", payments[0].ID, result.TransactionID)
	}

	declined := usecase.PaymentInstrument{Method: model.PaymentMethodCard, Card: &processor.Card{Number: processor.TestCardDeclined, ExpiryDate: "12/30", CVV: "123"}}
	if _, err := uc.ProcessPayment(context.Background(), "member-1", dec("30"), "tv", declined); !errors.Is(err, processor.ErrCardDeclined) {
		t.Fatalf("expected card declined, got %v", err)
	}
	if len(store.LedgerRepo.EntriesOfType(model.TransactionBillPayment)) != 1 {
		t.Fatalf("declined charge must not append a ledger entry")
	}
}

func TestPaymentUseCaseHistory(t *testing.T) {
	store := seedStore()
	uc := newPaymentUseCase(store)

	for _, desc := range []string{"a", "b", "c"} {
		if _, err := uc.ProcessPayment(context.Background(), "member-1", dec("10"), desc, usecase.PaymentInstrument{Method: model.PaymentMethodCash}); err != nil {
			t.Fatalf("payment failed: %v", err)
		}
	}

	all, err := uc.History(context.Background(), "member-1", 0)
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(all))
	}

	limited, err := uc.History(context.Background(), "member-1", 2)
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(limited))
	}

	if _, err := uc.History(context.Background(), "missing", 0); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown member, got %v", err)
	}
}
