package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"receptionist/cron"
	"receptionist/models"
	"receptionist/services/availability"
	"receptionist/services/pricing"
	"receptionist/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogStore is the business and service side of the repository.
type CatalogStore interface {
	GetBusiness(ctx context.Context, businessID string) (*models.Business, error)
	ListServices(ctx context.Context, businessID string) ([]models.Service, error)
	UpsertBusiness(ctx context.Context, business *models.Business) error
	UpsertService(ctx context.Context, service *models.Service) error
}

// CalendarStore holds provider working hours.
type CalendarStore interface {
	ListCalendars(ctx context.Context, businessID string) ([]models.ProviderCalendar, error)
	UpsertCalendar(ctx context.Context, calendar *models.ProviderCalendar) error
	DeleteCalendar(ctx context.Context, businessID, providerID string) error
}

// CatalogHandler maintains the businesses, services and provider calendars
// the quote and availability engines read from.
type CatalogHandler struct {
	Catalog   CatalogStore
	Calendars CalendarStore
	Queue     cron.Enqueuer
}

func NewCatalogHandler(catalog CatalogStore, calendars CalendarStore, queue cron.Enqueuer) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, Calendars: calendars, Queue: queue}
}

func (h *CatalogHandler) UpsertBusinessHandler(c *gin.Context) {
	var business models.Business
	if err := c.ShouldBindJSON(&business); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	business.ID = c.Param("businessId")
	if business.Timezone != "" {
		if _, err := time.LoadLocation(business.Timezone); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid timezone", err.Error())
			return
		}
	}
	if _, err := pricing.ResolveTravelModel(models.Service{LocationType: models.MobileService}, business); err != nil {
		if business.TravelChargingModel != nil {
			respondError(c, err)
			return
		}
		utils.GetLogger().Info("business has no travel model, mobile services will need their own",
			zap.String("business", business.ID))
	}

	if err := h.Catalog.UpsertBusiness(c.Request.Context(), &business); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": business})
}

func (h *CatalogHandler) GetBusinessHandler(c *gin.Context) {
	ctx := c.Request.Context()
	businessID := c.Param("businessId")

	business, err := h.Catalog.GetBusiness(ctx, businessID)
	if err != nil {
		respondError(c, err)
		return
	}
	services, err := h.Catalog.ListServices(ctx, businessID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": business, "services": services})
}

func (h *CatalogHandler) UpsertServiceHandler(c *gin.Context) {
	var service models.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	service.BusinessID = c.Param("businessId")
	service.ID = c.Param("serviceId")
	if err := pricing.ValidatePricingConfig(service.PricingConfig); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	business, err := h.Catalog.GetBusiness(ctx, service.BusinessID)
	if err != nil {
		respondError(c, err)
		return
	}
	if service.TravelChargingModel != nil {
		if _, err := pricing.ResolveTravelModel(service, *business); err != nil {
			respondError(c, err)
			return
		}
	}
	if err := h.Catalog.UpsertService(ctx, &service); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": service})
}

func (h *CatalogHandler) ListCalendarsHandler(c *gin.Context) {
	calendars, err := h.Calendars.ListCalendars(c.Request.Context(), c.Param("businessId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": calendars})
}

// UpsertCalendarHandler stores a provider's hours and queues a rebuild of the slot table.
func (h *CatalogHandler) UpsertCalendarHandler(c *gin.Context) {
	var calendar models.ProviderCalendar
	if err := c.ShouldBindJSON(&calendar); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	calendar.BusinessID = c.Param("businessId")
	calendar.ProviderID = c.Param("providerId")
	if err := availability.ValidateCalendar(calendar); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.Calendars.UpsertCalendar(ctx, &calendar); err != nil {
		respondError(c, err)
		return
	}
	h.requestRegeneration(ctx, calendar.BusinessID)
	c.JSON(http.StatusOK, gin.H{"provider": calendar})
}

func (h *CatalogHandler) DeleteCalendarHandler(c *gin.Context) {
	ctx := c.Request.Context()
	businessID := c.Param("businessId")
	if err := h.Calendars.DeleteCalendar(ctx, businessID, c.Param("providerId")); err != nil {
		respondError(c, err)
		return
	}
	h.requestRegeneration(ctx, businessID)
	c.Status(http.StatusNoContent)
}

// requestRegeneration is best effort; the nightly sweep covers a failed enqueue.
func (h *CatalogHandler) requestRegeneration(ctx context.Context, businessID string) {
	if h.Queue == nil {
		return
	}
	if err := cron.EnqueueRegeneration(ctx, h.Queue, businessID, ""); err != nil {
		utils.GetLogger().Warn("failed to queue availability regeneration",
			zap.String("business", businessID),
			zap.Error(fmt.Errorf("after calendar change: %w", err)))
	}
}
