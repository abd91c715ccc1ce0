package handlers

import (
	"context"
	"net/http"

	"receptionist/models"
	"receptionist/services/booking"
	"receptionist/utils"

	"github.com/gin-gonic/gin"
)

// QuoteService creates and looks up per-call quotes.
type QuoteService interface {
	CreateQuote(ctx context.Context, in booking.QuoteInput) (*models.QuoteResult, error)
	GetQuote(ctx context.Context, callID string) (*models.QuoteResult, error)
}

type QuoteHandler struct {
	Service QuoteService
}

func NewQuoteHandler(svc QuoteService) *QuoteHandler {
	return &QuoteHandler{Service: svc}
}

// CreateQuoteHandler prices the collected arguments and stores the quote for the call.
func (h *QuoteHandler) CreateQuoteHandler(c *gin.Context) {
	var in booking.QuoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	quote, err := h.Service.CreateQuote(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *QuoteHandler) GetQuoteHandler(c *gin.Context) {
	quote, err := h.Service.GetQuote(c.Request.Context(), c.Param("callId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
