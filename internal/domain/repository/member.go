package repository

import (
	"context"
	"time"

	"github.com/rvslabs/membercore/internal/domain/model"
)

// MemberRepository persists member aggregates. Save writes the whole
// aggregate including benefits and purchased offers.
type MemberRepository interface {
	Get(ctx context.Context, id string) (*model.Member, error)
	// GetForUpdate loads the member with an exclusive per-id lock. Only
	// meaningful inside Store.InTx; it serializes mutations per member.
	GetForUpdate(ctx context.Context, id string) (*model.Member, error)
	Create(ctx context.Context, member *model.Member) error
	Save(ctx context.Context, member *model.Member) error
	Archive(ctx context.Context, id string, at time.Time) error
	// SelectDueForRenewal returns auto-renewing members whose renewal date
	// has passed, locked for the duration of the enclosing transaction.
	SelectDueForRenewal(ctx context.Context, limit int) ([]model.Member, error)
}
