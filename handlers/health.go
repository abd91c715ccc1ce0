package handlers

import (
	"net/http"

	"receptionist/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Status func() utils.HealthStatus
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{Status: utils.GetHealthStatus}
}

// HealthCheckHandler reports the last dependency health snapshot.
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	status := h.Status()
	code := http.StatusOK
	state := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "dependencies": status})
}
