package handlers

import (
	"errors"
	"net/http"

	"receptionist/database"
	"receptionist/services/availability"
	"receptionist/services/booking"
	"receptionist/services/distance"
	"receptionist/services/pricing"
	"receptionist/services/voice"
	"receptionist/utils"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, pricing.ErrDistanceProvider):
		return http.StatusBadGateway, "Distance lookup failed"
	case errors.Is(err, pricing.ErrNoTierFound),
		errors.Is(err, pricing.ErrUnsupportedCombination),
		errors.Is(err, pricing.ErrNoTravelModel):
		return http.StatusUnprocessableEntity, "Unable to price this request"
	case errors.Is(err, availability.ErrSlotNoLongerAvailable),
		errors.Is(err, availability.ErrVersionConflict):
		return http.StatusConflict, "Slot no longer available"
	case errors.Is(err, availability.ErrAvailabilityDataMissing):
		return http.StatusNotFound, "No availability for this business"
	case errors.Is(err, booking.ErrQuoteNotFound):
		return http.StatusNotFound, "No quote for this call"
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, booking.ErrServiceMismatch),
		errors.Is(err, booking.ErrInvalidStartTime),
		errors.Is(err, availability.ErrInvalidCalendar),
		errors.Is(err, voice.ErrInvalidAudio),
		errors.Is(err, voice.ErrEmptyUtterance):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, distance.ErrMissingAPIKey):
		return http.StatusServiceUnavailable, "Service not configured"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func respondError(c *gin.Context, err error) {
	status, message := statusFor(err)
	utils.JSONError(c, status, message, err.Error())
}
