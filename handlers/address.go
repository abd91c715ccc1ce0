package handlers

import (
	"net/http"

	"receptionist/models"
	"receptionist/services/distance"
	"receptionist/services/pricing"
	"receptionist/utils"

	"github.com/gin-gonic/gin"
)

type AddressHandler struct {
	Validator distance.Validator
	Region    string
	Locale    models.Locale
}

func NewAddressHandler(validator distance.Validator, region string, locale models.Locale) *AddressHandler {
	return &AddressHandler{Validator: validator, Region: region, Locale: locale}
}

// ValidateAddressHandler geocodes a spoken address and returns it split into parts.
func (h *AddressHandler) ValidateAddressHandler(c *gin.Context) {
	var body struct {
		Address string `json:"address" binding:"required"`
		Region  string `json:"region"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing required field: address", err.Error())
		return
	}
	region := body.Region
	if region == "" {
		region = h.Region
	}

	validation, err := h.Validator.ValidateAddress(c.Request.Context(), body.Address, region)
	if err != nil {
		respondError(c, err)
		return
	}

	source := body.Address
	if validation.FormattedAddress != "" {
		source = validation.FormattedAddress
	}
	c.JSON(http.StatusOK, gin.H{
		"validation": validation,
		"parsed":     pricing.ParseAddress(source, h.Locale),
	})
}
