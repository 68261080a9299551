package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rvslabs/membercore/internal/adapter/processor"
	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/server/http/dto"
	"github.com/rvslabs/membercore/internal/server/http/middleware"
	"github.com/rvslabs/membercore/internal/usecase"
)

// CurrentStaffID extracts the authenticated staff identifier from context.
func CurrentStaffID(c *gin.Context) string {
	val, ok := c.Get(middleware.StaffIDContextKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}

// statusForError maps the domain error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	var stateErr *domainErrors.StateError
	switch {
	case errors.Is(err, domainErrors.ErrValidation),
		errors.Is(err, processor.ErrCardInvalid),
		errors.Is(err, processor.ErrCardIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.As(err, &stateErr):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInsufficientFunds),
		errors.Is(err, processor.ErrCardDeclined),
		errors.Is(err, processor.ErrCardInsufficientFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the mapped status with a short error body.
func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusForError(err), gin.H{"error": err.Error()})
}

// toInstrument converts DTO payment fields into a use case instrument.
func toInstrument(method string, card *dto.CardRequest) usecase.PaymentInstrument {
	instrument := usecase.PaymentInstrument{Method: model.PaymentMethodType(method)}
	if card != nil {
		instrument.Card = &processor.Card{
			Number:     card.Number,
			ExpiryDate: card.ExpiryDate,
			CVV:        card.CVV,
		}
	}
	return instrument
}
