package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"receptionist/cron"
	"receptionist/models"
	"receptionist/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityChecker answers day availability questions.
type AvailabilityChecker interface {
	Check(ctx context.Context, businessID, date string, durationMins int) (models.DayAvailability, error)
}

type AvailabilityHandler struct {
	Checker AvailabilityChecker
	Queue   cron.Enqueuer
}

func NewAvailabilityHandler(checker AvailabilityChecker, queue cron.Enqueuer) *AvailabilityHandler {
	return &AvailabilityHandler{Checker: checker, Queue: queue}
}

// CheckAvailabilityHandler serves GET /api/availability/:businessId?date=YYYY-MM-DD&duration=60.
func (h *AvailabilityHandler) CheckAvailabilityHandler(c *gin.Context) {
	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date", "expected date=YYYY-MM-DD")
		return
	}
	duration := 0
	if raw := c.Query("duration"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.JSONError(c, http.StatusBadRequest, "Invalid duration", "duration must be a positive number of minutes")
			return
		}
		duration = n
	}

	result, err := h.Checker.Check(c.Request.Context(), c.Param("businessId"), date, duration)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RegenerateAvailabilityHandler queues a rebuild of the business slot table.
func (h *AvailabilityHandler) RegenerateAvailabilityHandler(c *gin.Context) {
	var body struct {
		From string `json:"from"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
			return
		}
	}
	if body.From != "" {
		if _, err := time.Parse("2006-01-02", body.From); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid from date", "expected YYYY-MM-DD")
			return
		}
	}

	businessID := c.Param("businessId")
	if err := cron.EnqueueRegeneration(c.Request.Context(), h.Queue, businessID, body.From); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Availability regeneration queued", "business_id": businessID})
}
