package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvslabs/membercore/internal/domain/model"
)

// LedgerRepository is the append-only transaction store. Entries are
// immutable once written; aggregates are always computed from recorded
// entries, never from parallel counters.
type LedgerRepository interface {
	Append(ctx context.Context, tx *model.Transaction) error
	// MonthlyCashbackTotal sums cashback_earned entries for the member in
	// the UTC calendar month containing at.
	MonthlyCashbackTotal(ctx context.Context, memberID string, at time.Time) (decimal.Decimal, error)
	// AnnualCashbackTotal sums cashback_earned entries for the member in
	// the UTC calendar year containing at.
	AnnualCashbackTotal(ctx context.Context, memberID string, at time.Time) (decimal.Decimal, error)
	// MemberHistory returns the member's entries ordered by timestamp
	// descending. limit <= 0 means no limit.
	MemberHistory(ctx context.Context, memberID string, limit int) ([]model.Transaction, error)
}
