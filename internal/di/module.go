package di

import (
	"go.uber.org/fx"

	"github.com/rvslabs/membercore/internal/adapter/processor"
	"github.com/rvslabs/membercore/internal/app"
	"github.com/rvslabs/membercore/internal/config"
	"github.com/rvslabs/membercore/internal/logger"
	"github.com/rvslabs/membercore/internal/pkg/auth"
	"github.com/rvslabs/membercore/internal/pkg/clock"
	"github.com/rvslabs/membercore/internal/pkg/ident"
	"github.com/rvslabs/membercore/internal/server/http/handlers"
	"github.com/rvslabs/membercore/internal/server/http/router"
	"github.com/rvslabs/membercore/internal/storage/postgres"
	"github.com/rvslabs/membercore/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		clock.Module,
		ident.Module,
		processor.Module,
		postgres.Module,
		usecase.Module,
		app.Module,
		fx.Provide(func(facade *app.LoyaltyFacade) handlers.LoyaltyFacade { return facade }),
		router.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
