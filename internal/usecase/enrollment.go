package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvslabs/membercore/internal/adapter/processor"
	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/domain/repository"
	"github.com/rvslabs/membercore/internal/pkg/clock"
	"github.com/rvslabs/membercore/internal/pkg/ident"
)

// EnrollmentData carries the new member's contact details.
type EnrollmentData struct {
	Name  string
	Email string
	Phone string
}

// EnrollmentResult reports a completed enrollment.
type EnrollmentResult struct {
	Member        *model.Member
	TransactionID string
}

// EnrollmentUseCase creates member accounts and processes auto-renewals.
type EnrollmentUseCase struct {
	store repository.Store
	cards processor.Authorizer
	clock clock.Clock
	ids   ident.Generator
}

// NewEnrollmentUseCase constructs EnrollmentUseCase.
func NewEnrollmentUseCase(store repository.Store, cards processor.Authorizer, clk clock.Clock, ids ident.Generator) *EnrollmentUseCase {
	return &EnrollmentUseCase{store: store, cards: cards, clock: clk, ids: ids}
}

// EnrollMember creates a member on the given tier. Cash enrollments bill
// the first annual price and renew in a year; card enrollments bill the
// monthly price, renew in 30 days, and auto-renew.
func (u *EnrollmentUseCase) EnrollMember(ctx context.Context, data EnrollmentData, tierID string, instrument PaymentInstrument) (*EnrollmentResult, error) {
	data.Name = strings.TrimSpace(data.Name)
	data.Email = strings.ToLower(strings.TrimSpace(data.Email))
	if data.Name == "" {
		return nil, domainErrors.NewValidationError("name", "must not be empty")
	}
	if data.Email == "" {
		return nil, domainErrors.NewValidationError("email", "must not be empty")
	}

	tier, err := u.store.Tiers().Get(ctx, tierID)
	if err != nil {
		return nil, domainErrors.Persistence("enroll member", err)
	}

	var amount decimal.Decimal
	switch instrument.Method {
	case model.PaymentMethodCash:
		if tier.YearlyPrice == nil {
			return nil, domainErrors.NewValidationError("paymentMethod", "cash purchases require an annual price")
		}
		amount = tier.YearlyPrice.FirstYear
	case model.PaymentMethodCard:
		if tier.MonthlyPrice == nil {
			return nil, domainErrors.NewValidationError("paymentMethod", "card purchases require a monthly price")
		}
		amount = *tier.MonthlyPrice
	default:
		return nil, domainErrors.NewValidationError("paymentMethod", "unknown method")
	}

	method, err := settle(ctx, u.cards, instrument, amount)
	if err != nil {
		return nil, err
	}

	var result EnrollmentResult
	err = u.store.InTx(ctx, func(r repository.Repos) error {
		now := u.clock.Now()

		member := &model.Member{
			ID:             u.ids.New(),
			Name:           data.Name,
			Email:          data.Email,
			Phone:          data.Phone,
			TierID:         tier.ID,
			Status:         model.MemberStatusActive,
			RewardsBalance: tier.RewardValue,
			TotalSpent:     decimal.Zero,
			JoinDate:       now,
			LastActivity:   now,
			AutoRenew:      instrument.Method == model.PaymentMethodCard,
		}
		if instrument.Method == model.PaymentMethodCash {
			member.NextRenewalDate = now.Add(365 * 24 * time.Hour)
		} else {
			member.NextRenewalDate = now.Add(30 * 24 * time.Hour)
		}
		for _, tpl := range tier.BenefitTemplates {
			member.Benefits = append(member.Benefits, model.Benefit{
				ID:         u.ids.New(),
				Name:       tpl.Name,
				ExpiryDate: now.Add(time.Duration(tpl.ExpiresInMonths) * 30 * 24 * time.Hour),
				Used:       false,
			})
		}

		if err := r.Members().Create(ctx, member); err != nil {
			return err
		}
		if err := r.Tiers().IncrementMemberCount(ctx, tier.ID, 1); err != nil {
			return err
		}

		txID := u.ids.New()
		if err := r.Ledger().Append(ctx, &model.Transaction{
			ID:            txID,
			Type:          model.TransactionMembershipPurchase,
			MemberID:      member.ID,
			Amount:        amount,
			PaymentMethod: method,
			Status:        model.TransactionCompleted,
			Timestamp:     now,
			Detail:        model.MembershipPurchaseDetail{TierID: tier.ID, TierName: tier.Name},
		}); err != nil {
			return err
		}

		result = EnrollmentResult{Member: member, TransactionID: txID}
		return nil
	})
	if err != nil {
		return nil, domainErrors.Persistence("enroll member", err)
	}
	return &result, nil
}

// GetMember fetches a member account.
func (u *EnrollmentUseCase) GetMember(ctx context.Context, id string) (*model.Member, error) {
	member, err := u.store.Members().Get(ctx, id)
	if err != nil {
		return nil, domainErrors.Persistence("get member", err)
	}
	return member, nil
}

// ArchiveMember soft-deletes a member account. Ledger entries keep
// referencing it, so the row is only marked, never removed.
func (u *EnrollmentUseCase) ArchiveMember(ctx context.Context, id string) error {
	err := u.store.InTx(ctx, func(r repository.Repos) error {
		member, err := r.Members().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Members().Archive(ctx, member.ID, u.clock.Now()); err != nil {
			return err
		}
		return r.Tiers().IncrementMemberCount(ctx, member.TierID, -1)
	})
	return domainErrors.Persistence("archive member", err)
}

// RenewDue advances every auto-renewing membership whose renewal date has
// passed, billing the tier's monthly price and writing the renewal entry.
// The batch is claimed and committed as one atomic unit; the number of
// processed renewals is returned.
func (u *EnrollmentUseCase) RenewDue(ctx context.Context, limit int) (int, error) {
	renewed := 0
	err := u.store.InTx(ctx, func(r repository.Repos) error {
		due, err := r.Members().SelectDueForRenewal(ctx, limit)
		if err != nil {
			return err
		}

		for i := range due {
			member := &due[i]
			tier, err := r.Tiers().Get(ctx, member.TierID)
			if err != nil {
				return err
			}

			now := u.clock.Now()
			if tier.MonthlyPrice == nil {
				// Nothing billable on a monthly cadence; stop renewing
				// instead of charging an undefined amount.
				member.AutoRenew = false
				if err := r.Members().Save(ctx, member); err != nil {
					return err
				}
				continue
			}

			if err := r.Ledger().Append(ctx, &model.Transaction{
				ID:            u.ids.New(),
				Type:          model.TransactionMembershipPurchase,
				MemberID:      member.ID,
				Amount:        *tier.MonthlyPrice,
				PaymentMethod: &model.PaymentMethod{Type: model.PaymentMethodCard},
				Status:        model.TransactionCompleted,
				Timestamp:     now,
				Detail:        model.MembershipPurchaseDetail{TierID: tier.ID, TierName: tier.Name, Renewal: true},
			}); err != nil {
				return err
			}

			member.NextRenewalDate = member.NextRenewalDate.Add(30 * 24 * time.Hour)
			if err := r.Members().Save(ctx, member); err != nil {
				return err
			}
			renewed++
		}
		return nil
	})
	if err != nil {
		return 0, domainErrors.Persistence("renew memberships", err)
	}
	return renewed, nil
}
