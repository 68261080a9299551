package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/server/http/dto"
)

// CatalogHandler serves tier and offer administration.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler creates CatalogHandler instance.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// CreateTier handles POST /api/tiers.
func (h *CatalogHandler) CreateTier(c *gin.Context) {
	var req dto.TierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tier, err := h.facade.CreateTier(c.Request.Context(), req.ToTierModel())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTierResponse(tier))
}

// GetTier handles GET /api/tiers/:id.
func (h *CatalogHandler) GetTier(c *gin.Context) {
	tier, err := h.facade.Tier(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTierResponse(tier))
}

// ListTiers handles GET /api/tiers.
func (h *CatalogHandler) ListTiers(c *gin.Context) {
	tiers, err := h.facade.Tiers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := make([]dto.TierResponse, 0, len(tiers))
	for i := range tiers {
		resp = append(resp, dto.ToTierResponse(&tiers[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateOffer handles POST /api/offers.
func (h *CatalogHandler) CreateOffer(c *gin.Context) {
	var req dto.OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	offer, err := h.facade.CreateOffer(c.Request.Context(), req.ToOfferModel())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOfferResponse(offer))
}

// GetOffer handles GET /api/offers/:id.
func (h *CatalogHandler) GetOffer(c *gin.Context) {
	offer, err := h.facade.Offer(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOfferResponse(offer))
}

// ListOffers handles GET /api/offers.
func (h *CatalogHandler) ListOffers(c *gin.Context) {
	offers, err := h.facade.Offers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := make([]dto.OfferResponse, 0, len(offers))
	for i := range offers {
		resp = append(resp, dto.ToOfferResponse(&offers[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// SetOfferStatus handles PATCH /api/offers/:id/status.
func (h *CatalogHandler) SetOfferStatus(c *gin.Context) {
	var req dto.OfferStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	status := model.OfferStatus(req.Status)
	switch status {
	case model.OfferStatusDraft, model.OfferStatusActive, model.OfferStatusPaused, model.OfferStatusExpired:
	default:
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.SetOfferStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
