package usecase_test

import (
	"context"
	"errors"
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

func newEnrollmentUseCase(store *testhelpers.StoreStub) *usecase.EnrollmentUseCase {
	return usecase.NewEnrollmentUseCase(store, processor.NewStub(), clock.Fixed{Instant: testNow}, &ident.Sequence{Prefix: "id"})
}

func validCard() *processor.Card {
	return &processor.Card{Number: processor.TestCardValid, ExpiryDate: "12/30", CVV: "123"}
}

func TestEnrollmentUseCaseEnrollCash(t *testing.T) {
	store := seedStore()
	store.TierRepo.Tiers["tier-1"].BenefitTemplates = []model.BenefitTemplate{
		{Name: "Lounge access", Frequency: model.BenefitFrequencyYearly, ExpiresInMonths: 12},
	}
	uc := newEnrollmentUseCase(store)

	result, err := uc.EnrollMember(context.Background(), usecase.EnrollmentData{Name: "  Sam  ", Email: "Sam@Example.COM", Phone: "555-0101"}, "tier-1", usecase.PaymentInstrument{Method: model.PaymentMethodCash})
	if err != nil {
		t.Fatalf("enroll returned error: %v", err)
	}

	member := result.Member
	if member.Name != "Sam" || member.Email != "sam@example.com" {
		t.Fatalf("contact details were not normalized: %q %q", member.Name, member.Email)
	}
	if member.AutoRenew {
		t.Fatalf("cash enrollments must not auto-renew")
	}
	if want := testNow.Add(365 * 24 * time.Hour); !member.NextRenewalDate.Equal(want) {
		t.Fatalf("expected annual renewal date, got %s", member.NextRenewalDate)
	}
	if !member.RewardsBalance.Equal(dec("10")) {
		t.Fatalf("expected seeded reward value 10, got %s", member.RewardsBalance)
	}
	if len(member.Benefits) != 1 || member.Benefits[0].Name != "Lounge access" || member.Benefits[0].Used {
		t.Fatalf("benefit template was not cloned: %+v", member.Benefits)
	}
	if want := testNow.Add(12 * 30 * 24 * time.Hour); !member.Benefits[0].ExpiryDate.Equal(want) {
		t.Fatalf("unexpected benefit expiry: %s", member.Benefits[0].ExpiryDate)
	}
	if store.TierRepo.Tiers["tier-1"].MemberCount != 1 {
		t.Fatalf("member count was not incremented")
	}

	entries := store.LedgerRepo.EntriesOfType(model.TransactionMembershipPurchase)
	if len(entries) != 1 || !entries[0].Amount.Equal(dec("120")) {
		t.Fatalf("expected one purchase entry for the first annual price, got %+v", entries)
	}
	detail, ok := entries[0].Detail.(model.MembershipPurchaseDetail)
	if !ok || detail.TierID != "tier-1" || detail.Renewal {
		t.Fatalf("unexpected purchase detail: %+v", entries[0].Detail)
	}
}

func TestEnrollmentUseCaseEnrollCard(t *testing.T) {
	store := seedStore()
	uc := newEnrollmentUseCase(store)

	result, err := uc.EnrollMember(context.Background(), usecase.EnrollmentData{Name: "Kim", Email: "kim@example.com"}, "tier-1", usecase.PaymentInstrument{Method: model.PaymentMethodCard, Card: validCard()})
	if err != nil {
		t.Fatalf("enroll returned error: %v", err)
	}
	member := result.Member
	if !member.AutoRenew {
		t.Fatalf("card enrollments must auto-renew")
	}
	if want := testNow.Add(30 * 24 * time.Hour); !member.NextRenewalDate.Equal(want) {
		t.Fatalf("expected monthly renewal date, got %s", member.NextRenewalDate)
	}

	entries := store.LedgerRepo.EntriesOfType(model.TransactionMembershipPurchase)
	if len(entries) != 1 || !entries[0].Amount.Equal(dec("15")) {
		t.Fatalf("expected one purchase entry for the monthly price, got %+v", entries)
	}
	if entries[0].PaymentMethod == nil || entries[0].PaymentMethod.Last4 != "4242" {
		t.Fatalf("expected masked card on ledger entry, got %+v", entries[0].PaymentMethod)
	}
}

func TestEnrollmentUseCaseEnrollFailures(t *testing.T) {
	store := seedStore()
	noMonthly := store.TierRepo.Tiers["tier-1"]
	uc := newEnrollmentUseCase(store)
	cash := usecase.PaymentInstrument{Method: model.PaymentMethodCash}

	if _, err := uc.EnrollMember(context.Background(), usecase.EnrollmentData{Name: "  ", Email: "a@example.com"}, "tier-1", cash); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
	if _, err := uc.EnrollMember(context.Background(), usecase.EnrollmentData{Name: "A", Email: ""}, "tier-1", cash); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for empty email, got %v", err)
	}
	if _, err := uc.EnrollMember(context.Background(), usecase.EnrollmentData{Name: "A", Email: "a@example.com"}, "tier-9", cash); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown tier, got %v", err)
	}

	// Existing member already holds this email.
	if _, err := uc.EnrollMember(context.Background(), usecase.EnrollmentData{Name: "A", Email: "jo@example.com"}, "tier-1", cash); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists for duplicate email, got %v", err)
	}

	noMonthly.YearlyPrice = nil
	if _, err := uc.EnrollMember(context.Background(), usecase.EnrollmentData{Name: "A", Email: "b@example.com"}, "tier-1", cash); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error without an annual price, got %v", err)
	}
	noMonthly.MonthlyPrice = nil
	if _, err := uc.EnrollMember(context.Background(), usecase.EnrollmentData{Name: "A", Email: "b@example.com"}, "tier-1", usecase.PaymentInstrument{Method: model.PaymentMethodCard, Card: validCard()}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error without a monthly price, got %v", err)
	}
}

func TestEnrollmentUseCaseGetAndArchive(t *testing.T) {
	store := seedStore()
	store.TierRepo.Tiers["tier-1"].MemberCount = 1
	uc := newEnrollmentUseCase(store)

	member, err := uc.GetMember(context.Background(), "member-1")
	if err != nil || member.ID != "member-1" {
		t.Fatalf("get member failed: %v", err)
	}

	if err := uc.ArchiveMember(context.Background(), "member-1"); err != nil {
		t.Fatalf("archive returned error: %v", err)
	}
	if store.TierRepo.Tiers["tier-1"].MemberCount != 0 {
		t.Fatalf("member count was not decremented")
	}
	if _, err := uc.GetMember(context.Background(), "member-1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("archived member must read as not found, got %v", err)
	}
	if err := uc.ArchiveMember(context.Background(), "member-1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("double archive must report not found, got %v", err)
	}
}

func TestEnrollmentUseCaseRenewDue(t *testing.T) {
	store := seedStore()
	due := store.MemberRepo.Members["member-1"]
	due.AutoRenew = true
	due.NextRenewalDate = testNow.AddDate(0, 0, -2)
	store.MemberRepo.Members["member-2"] = &model.Member{
		ID: "member-2", Email: "b@example.com", TierID: "tier-1",
		Status: model.MemberStatusActive, AutoRenew: true,
		NextRenewalDate: testNow.AddDate(0, 0, -1),
	}
	store.MemberRepo.Members["member-3"] = &model.Member{
		ID: "member-3", Email: "c@example.com", TierID: "tier-1",
		Status: model.MemberStatusActive, AutoRenew: true,
		NextRenewalDate: testNow.AddDate(1, 0, 0),
	}
	uc := newEnrollmentUseCase(store)

	renewed, err := uc.RenewDue(context.Background(), 10)
	if err != nil {
		t.Fatalf("renew due returned error: %v", err)
	}
	if renewed != 2 {
		t.Fatalf("expected 2 renewals, got %d", renewed)
	}

	entries := store.LedgerRepo.EntriesOfType(model.TransactionMembershipPurchase)
	if len(entries) != 2 {
		t.Fatalf("expected 2 renewal entries, got %d", len(entries))
	}
	for _, e := range entries {
		detail, ok := e.Detail.(model.MembershipPurchaseDetail)
		if !ok || !detail.Renewal {
			t.Fatalf("expected renewal detail, got %+v", e.Detail)
		}
		if !e.Amount.Equal(dec("15")) {
			t.Fatalf("renewal must bill the monthly price, got %s", e.Amount)
		}
	}
	if want := testNow.AddDate(0, 0, -2).Add(30 * 24 * time.Hour); !store.MemberRepo.Members["member-1"].NextRenewalDate.Equal(want) {
		t.Fatalf("renewal date did not advance by 30 days: %s", store.MemberRepo.Members["member-1"].NextRenewalDate)
	}
}

func TestEnrollmentUseCaseRenewDueLimit(t *testing.T) {
	store := seedStore()
	for _, id := range []string{"member-1"} {
		m := store.MemberRepo.Members[id]
		m.AutoRenew = true
		m.NextRenewalDate = testNow.AddDate(0, 0, -3)
	}
	store.MemberRepo.Members["member-2"] = &model.Member{
		ID: "member-2", Email: "b@example.com", TierID: "tier-1",
		Status: model.MemberStatusActive, AutoRenew: true,
		NextRenewalDate: testNow.AddDate(0, 0, -1),
	}
	uc := newEnrollmentUseCase(store)

	renewed, err := uc.RenewDue(context.Background(), 1)
	if err != nil {
		t.Fatalf("renew due returned error: %v", err)
	}
	if renewed != 1 {
		t.Fatalf("expected the batch limit to cap renewals, got %d", renewed)
	}
}

func TestEnrollmentUseCaseRenewDueWithoutMonthlyPrice(t *testing.T) {
	store := seedStore()
	store.TierRepo.Tiers["tier-1"].MonthlyPrice = nil
	m := store.MemberRepo.Members["member-1"]
	m.AutoRenew = true
	m.NextRenewalDate = testNow.AddDate(0, 0, -1)
	uc := newEnrollmentUseCase(store)

	renewed, err := uc.RenewDue(context.Background(), 10)
	if err != nil {
		t.Fatalf("renew due returned error: %v", err)
	}
	if renewed != 0 {
		t.Fatalf("expected no renewals, got %d", renewed)
	}
	if store.MemberRepo.Members["member-1"].AutoRenew {
		t.Fatalf("auto-renew must be disabled when no monthly price exists")
	}
	if len(store.LedgerRepo.Entries) != 0 {
		t.Fatalf("no entries expected, got %d", len(store.LedgerRepo.Entries))
	}
}
