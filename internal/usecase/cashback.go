package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/rvslabs/membercore/internal/domain/model"
)

// ComputeCashback calculates the cashback earned by a payment under a
// tier's configuration, given the member's already-earned totals for the
// current calendar month and year. It is a pure function and never fails;
// callers validate that amount is positive.
//
// Caps apply in order: per-transaction, monthly remaining, annual
// remaining. The result is rounded half-up to the cent, which keeps the
// amount deterministic and financially auditable.
func ComputeCashback(amount decimal.Decimal, cfg *model.CashbackConfig, monthlyTotal, annualTotal decimal.Decimal) decimal.Decimal {
	if cfg == nil || !cfg.Enabled {
		return decimal.Zero
	}

	cashback := amount.Mul(cfg.Rate).Div(decimal.NewFromInt(100))

	if limits := cfg.Limits; limits != nil {
		if limits.PerTransaction != nil {
			cashback = decimal.Min(cashback, *limits.PerTransaction)
		}
		if limits.Monthly != nil {
			remaining := limits.Monthly.Sub(monthlyTotal)
			if remaining.Sign() <= 0 {
				return decimal.Zero
			}
			cashback = decimal.Min(cashback, remaining)
		}
		if limits.Annual != nil {
			remaining := limits.Annual.Sub(annualTotal)
			if remaining.Sign() <= 0 {
				return decimal.Zero
			}
			cashback = decimal.Min(cashback, remaining)
		}
	}

	if cashback.Sign() < 0 {
		return decimal.Zero
	}

	// Round half away from zero; for the non-negative amounts here this
	// is half-up to the cent.
	return cashback.Round(2)
}
