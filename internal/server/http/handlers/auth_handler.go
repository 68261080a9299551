package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/server/http/dto"
	"github.com/rvslabs/membercore/internal/server/http/middleware"
)

// AuthHandler processes staff registration and login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/auth/register. A fresh account is logged in
// immediately, so the response carries the session token.
func (h *AuthHandler) Register(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	token, err := h.facade.Register(c.Request.Context(), req.Login, req.Password)
	switch {
	case err == nil:
		issueSession(c, token)
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.Status(http.StatusBadRequest)
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.Status(http.StatusConflict)
	default:
		c.Status(http.StatusInternalServerError)
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	token, err := h.facade.Authenticate(c.Request.Context(), req.Login, req.Password)
	switch {
	case err == nil:
		issueSession(c, token)
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.Status(http.StatusUnauthorized)
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func bindCredentials(c *gin.Context) (dto.CredentialsRequest, bool) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func issueSession(c *gin.Context, token string) {
	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}
