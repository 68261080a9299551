package usecase

import (
	"go.uber.org/fx"

	"github.com/rvslabs/membercore/internal/adapter/processor"
	"github.com/rvslabs/membercore/internal/config"
	"github.com/rvslabs/membercore/internal/domain/repository"
	"github.com/rvslabs/membercore/internal/pkg/clock"
	"github.com/rvslabs/membercore/internal/pkg/ident"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewPaymentUseCase,
	NewRedemptionUseCase,
	newOfferPurchaseUseCase,
	NewEnrollmentUseCase,
	NewCatalogUseCase,
)

type offerPurchaseParams struct {
	fx.In

	Store  repository.Store
	Cards  processor.Authorizer
	Clock  clock.Clock
	IDs    ident.Generator
	Config *config.Config
}

func newOfferPurchaseUseCase(p offerPurchaseParams) *OfferPurchaseUseCase {
	return NewOfferPurchaseUseCase(p.Store, p.Cards, p.Clock, p.IDs, p.Config.OfferValidity)
}
