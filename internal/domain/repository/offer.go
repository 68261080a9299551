package repository

import (
	"context"

	"github.com/rvslabs/membercore/internal/domain/model"
)

// OfferRepository persists purchasable offers.
type OfferRepository interface {
	Get(ctx context.Context, id string) (*model.Offer, error)
	Create(ctx context.Context, offer *model.Offer) error
	List(ctx context.Context) ([]model.Offer, error)
	UpdateStatus(ctx context.Context, id string, status model.OfferStatus) error
	// TryIncrementRedemption atomically claims one unit of inventory. It
	// returns false when the quantity limit is already reached, making
	// check-and-increment a single step so offers can never be oversold.
	TryIncrementRedemption(ctx context.Context, id string) (bool, error)
}
