package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rvslabs/membercore/internal/server/http/dto"
	"github.com/rvslabs/membercore/internal/usecase"
)

// MemberHandler serves member enrollment, lookup and history.
type MemberHandler struct {
	facade MemberFacade
}

// NewMemberHandler creates MemberHandler instance.
func NewMemberHandler(facade MemberFacade) *MemberHandler {
	return &MemberHandler{facade: facade}
}

// Enroll handles POST /api/members.
func (h *MemberHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	data := usecase.EnrollmentData{Name: req.Name, Email: req.Email, Phone: req.Phone}
	result, err := h.facade.EnrollMember(c.Request.Context(), data, req.TierID, toInstrument(req.PaymentMethod, req.Card))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.EnrollResponse{
		Member:        dto.ToMemberResponse(result.Member),
		TransactionID: result.TransactionID,
	})
}

// Get handles GET /api/members/:id.
func (h *MemberHandler) Get(c *gin.Context) {
	member, err := h.facade.Member(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// Archive handles DELETE /api/members/:id.
func (h *MemberHandler) Archive(c *gin.Context) {
	if err := h.facade.ArchiveMember(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// History handles GET /api/members/:id/history.
func (h *MemberHandler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.Status(http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	transactions, err := h.facade.MemberHistory(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(transactions) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		resp = append(resp, dto.ToTransactionResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}
