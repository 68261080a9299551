package repository

import (
	"context"

	"github.com/rvslabs/membercore/internal/domain/model"
)

// TierRepository persists membership tier definitions.
type TierRepository interface {
	Get(ctx context.Context, id string) (*model.MembershipTier, error)
	Create(ctx context.Context, tier *model.MembershipTier) error
	List(ctx context.Context) ([]model.MembershipTier, error)
	// IncrementMemberCount adjusts the derived member counter by delta.
	IncrementMemberCount(ctx context.Context, id string, delta int) error
}
