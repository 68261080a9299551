package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rvslabs/membercore/internal/server/http/dto"
)

// PaymentHandler serves bill payments and redemption operations.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler creates PaymentHandler instance.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// ProcessPayment handles POST /api/members/:id/payments.
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.ProcessPayment(c.Request.Context(), c.Param("id"), req.Amount, req.Description, toInstrument(req.PaymentMethod, req.Card))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaymentResponse{
		TransactionID:  result.TransactionID,
		CashbackEarned: result.CashbackEarned,
	})
}

// RedeemReward handles POST /api/members/:id/rewards/redeem.
func (h *PaymentHandler) RedeemReward(c *gin.Context) {
	var req dto.RedeemRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	balance, err := h.facade.RedeemReward(c.Request.Context(), c.Param("id"), req.Amount, req.Note)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RedeemRewardResponse{RewardsBalance: balance})
}

// RedeemBenefit handles POST /api/members/:id/benefits/:benefitID/redeem.
func (h *PaymentHandler) RedeemBenefit(c *gin.Context) {
	if err := h.facade.RedeemBenefit(c.Request.Context(), c.Param("id"), c.Param("benefitID")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// RedeemPurchasedOffer handles POST /api/members/:id/purchases/:purchaseID/redeem.
func (h *PaymentHandler) RedeemPurchasedOffer(c *gin.Context) {
	if err := h.facade.RedeemPurchasedOffer(c.Request.Context(), c.Param("id"), c.Param("purchaseID")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// PurchaseOffer handles POST /api/members/:id/offers/:offerID/purchase.
func (h *PaymentHandler) PurchaseOffer(c *gin.Context) {
	var req dto.PurchaseOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.PurchaseOffer(c.Request.Context(), c.Param("id"), c.Param("offerID"), toInstrument(req.PaymentMethod, req.Card))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.PurchaseOfferResponse{
		PurchaseID:     result.PurchaseID,
		TransactionID:  result.TransactionID,
		ExpirationDate: result.ExpirationDate,
	})
}
