package handlers

import (
	"context"
	"errors"
	"net/http"

	"receptionist/models"
	"receptionist/services/booking"
	"receptionist/utils"

	"github.com/gin-gonic/gin"
)

// BookingConfirmer turns a call's quote into a booking.
type BookingConfirmer interface {
	Confirm(ctx context.Context, in models.ConfirmBookingInput) (*models.Booking, error)
}

// BookingFinder loads a stored booking.
type BookingFinder interface {
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
}

type BookingHandler struct {
	Service BookingConfirmer
	Finder  BookingFinder
}

func NewBookingHandler(svc BookingConfirmer, finder BookingFinder) *BookingHandler {
	return &BookingHandler{Service: svc, Finder: finder}
}

func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	var in models.ConfirmBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	b, err := h.Service.Confirm(c.Request.Context(), in)
	var depErr *booking.DepositError
	if errors.As(err, &depErr) && b != nil {
		c.JSON(http.StatusCreated, gin.H{
			"booking": b,
			"warning": "Booking confirmed but the deposit request failed; collect the deposit manually",
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Finder.GetByID(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}
