package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rvslabs/membercore/internal/adapter/processor"
	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/domain/repository"
	"github.com/rvslabs/membercore/internal/pkg/clock"
	"github.com/rvslabs/membercore/internal/pkg/ident"
)

// PaymentInstrument describes how a member settles a charge. Card holds
// the raw card details for the processor; it stays nil for cash.
type PaymentInstrument struct {
	Method model.PaymentMethodType
	Card   *processor.Card
}

// PaymentResult reports a processed bill payment.
type PaymentResult struct {
	TransactionID  string
	CashbackEarned decimal.Decimal
}

// PaymentUseCase processes bill payments and serves ledger history.
type PaymentUseCase struct {
	store repository.Store
	cards processor.Authorizer
	clock clock.Clock
	ids   ident.Generator
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(store repository.Store, cards processor.Authorizer, clk clock.Clock, ids ident.Generator) *PaymentUseCase {
	return &PaymentUseCase{store: store, cards: cards, clock: clk, ids: ids}
}

// ProcessPayment records a bill payment for an active member, credits the
// cashback the tier allows, and writes the bill_payment entry plus the
// companion cashback_earned entry in one atomic unit.
func (u *PaymentUseCase) ProcessPayment(ctx context.Context, memberID string, amount decimal.Decimal, description string, instrument PaymentInstrument) (*PaymentResult, error) {
	if amount.Sign() <= 0 {
		return nil, domainErrors.NewValidationError("amount", "must be positive")
	}

	// Check the member before touching the external processor; a charge
	// is never authorized for an account that cannot accept it.
	member, err := u.store.Members().Get(ctx, memberID)
	if err != nil {
		return nil, domainErrors.Persistence("process payment", err)
	}
	if member.Status != model.MemberStatusActive {
		return nil, domainErrors.NewStateError(domainErrors.ReasonInactiveMember, member.ID)
	}

	method, err := u.settle(ctx, instrument, amount)
	if err != nil {
		return nil, err
	}

	var result PaymentResult
	err = u.store.InTx(ctx, func(r repository.Repos) error {
		member, err := r.Members().GetForUpdate(ctx, memberID)
		if err != nil {
			return err
		}
		if member.Status != model.MemberStatusActive {
			return domainErrors.NewStateError(domainErrors.ReasonInactiveMember, member.ID)
		}

		tier, err := r.Tiers().Get(ctx, member.TierID)
		if err != nil {
			return err
		}

		now := u.clock.Now()
		monthly, err := r.Ledger().MonthlyCashbackTotal(ctx, member.ID, now)
		if err != nil {
			return err
		}
		annual, err := r.Ledger().AnnualCashbackTotal(ctx, member.ID, now)
		if err != nil {
			return err
		}

		cashback := ComputeCashback(amount, tier.Cashback, monthly, annual)

		paymentID := u.ids.New()
		if err := r.Ledger().Append(ctx, &model.Transaction{
			ID:             paymentID,
			Type:           model.TransactionBillPayment,
			MemberID:       member.ID,
			Amount:         amount,
			CashbackEarned: cashback,
			PaymentMethod:  method,
			Status:         model.TransactionCompleted,
			Timestamp:      now,
			Detail:         model.BillPaymentDetail{Description: description},
		}); err != nil {
			return err
		}

		if cashback.Sign() > 0 {
			if err := r.Ledger().Append(ctx, &model.Transaction{
				ID:             u.ids.New(),
				Type:           model.TransactionCashbackEarned,
				MemberID:       member.ID,
				Amount:         cashback,
				CashbackEarned: cashback,
				Status:         model.TransactionCompleted,
				Timestamp:      now,
				Detail:         model.CashbackDetail{PaymentID: paymentID, Rate: tier.Cashback.Rate},
			}); err != nil {
				return err
			}
		}

		member.TotalSpent = member.TotalSpent.Add(amount)
		member.RewardsBalance = member.RewardsBalance.Add(cashback)
		member.LastActivity = now
		if err := r.Members().Save(ctx, member); err != nil {
			return err
		}

		result = PaymentResult{TransactionID: paymentID, CashbackEarned: cashback}
		return nil
	})
	if err != nil {
		return nil, domainErrors.Persistence("process payment", err)
	}
	return &result, nil
}

// History returns the member's ledger entries, newest first.
func (u *PaymentUseCase) History(ctx context.Context, memberID string, limit int) ([]model.Transaction, error) {
	if _, err := u.store.Members().Get(ctx, memberID); err != nil {
		return nil, domainErrors.Persistence("member history", err)
	}
	history, err := u.store.Ledger().MemberHistory(ctx, memberID, limit)
	if err != nil {
		return nil, domainErrors.Persistence("member history", err)
	}
	return history, nil
}

// settle runs the external authorization for card instruments and returns
// the payment method to record on the ledger entry.
func (u *PaymentUseCase) settle(ctx context.Context, instrument PaymentInstrument, amount decimal.Decimal) (*model.PaymentMethod, error) {
	return settle(ctx, u.cards, instrument, amount)
}

func settle(ctx context.Context, cards processor.Authorizer, instrument PaymentInstrument, amount decimal.Decimal) (*model.PaymentMethod, error) {
	switch instrument.Method {
	case model.PaymentMethodCash:
		return &model.PaymentMethod{Type: model.PaymentMethodCash}, nil
	case model.PaymentMethodCard:
		if instrument.Card == nil {
			return nil, domainErrors.NewValidationError("paymentMethod", "card details required")
		}
		auth, err := cards.Authorize(ctx, *instrument.Card, amount)
		if err != nil {
			return nil, err
		}
		return &model.PaymentMethod{Type: model.PaymentMethodCard, Last4: auth.Last4}, nil
	default:
		return nil, domainErrors.NewValidationError("paymentMethod", "unknown method")
	}
}
