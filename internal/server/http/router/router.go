package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/rvslabs/membercore/internal/server/http/handlers"
	"github.com/rvslabs/membercore/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.LoyaltyFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	memberHandler := handlers.NewMemberHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	staff := api.Group("")
	staff.Use(middleware.AuthRequired(facade))

	members := staff.Group("/members")
	members.POST("", memberHandler.Enroll)
	members.GET("/:id", memberHandler.Get)
	members.DELETE("/:id", memberHandler.Archive)
	members.GET("/:id/history", memberHandler.History)
	members.POST("/:id/payments", paymentHandler.ProcessPayment)
	members.POST("/:id/rewards/redeem", paymentHandler.RedeemReward)
	members.POST("/:id/benefits/:benefitID/redeem", paymentHandler.RedeemBenefit)
	members.POST("/:id/offers/:offerID/purchase", paymentHandler.PurchaseOffer)
	members.POST("/:id/purchases/:purchaseID/redeem", paymentHandler.RedeemPurchasedOffer)

	tiers := staff.Group("/tiers")
	tiers.POST("", catalogHandler.CreateTier)
	tiers.GET("", catalogHandler.ListTiers)
	tiers.GET("/:id", catalogHandler.GetTier)

	offers := staff.Group("/offers")
	offers.POST("", catalogHandler.CreateOffer)
	offers.GET("", catalogHandler.ListOffers)
	offers.GET("/:id", catalogHandler.GetOffer)
	offers.PATCH("/:id/status", catalogHandler.SetOfferStatus)

	return engine
}
