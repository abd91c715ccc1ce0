package routes

import (
	"time"

	"receptionist/handlers"
	"receptionist/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterQuoteRoutes registers quote endpoints.
func RegisterQuoteRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api := r.Group("/quotes")
	{
		api.POST("", hb.Quote.CreateQuoteHandler)
		api.GET("/:callId", hb.Quote.GetQuoteHandler)
	}
}

// RegisterAvailabilityRoutes registers availability lookups and regeneration.
func RegisterAvailabilityRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api := r.Group("/availability")
	{
		api.GET("/:businessId", hb.Availability.CheckAvailabilityHandler)
		api.POST("/:businessId/regenerate", hb.Availability.RegenerateAvailabilityHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for confirming bookings.
func RegisterBookingRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	r.POST("/bookings", hb.Booking.ConfirmBookingHandler)
	r.GET("/bookings/:bookingId", hb.Booking.GetBookingHandler)
}

// RegisterCatalogRoutes registers business, service and provider calendar maintenance.
func RegisterCatalogRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api := r.Group("/businesses/:businessId")
	{
		api.GET("", hb.Catalog.GetBusinessHandler)
		api.PUT("", hb.Catalog.UpsertBusinessHandler)
		api.PUT("/services/:serviceId", hb.Catalog.UpsertServiceHandler)
		api.GET("/providers", hb.Catalog.ListCalendarsHandler)
		api.PUT("/providers/:providerId", hb.Catalog.UpsertCalendarHandler)
		api.DELETE("/providers/:providerId", hb.Catalog.DeleteCalendarHandler)
	}
}

// RegisterAddressRoutes registers address validation.
func RegisterAddressRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	r.POST("/addresses/validate", hb.Address.ValidateAddressHandler)
}

// RegisterVoiceRoutes registers speech and extraction endpoints.
func RegisterVoiceRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api := r.Group("/voice")
	{
		api.POST("/transcribe", hb.Voice.TranscribeHandler)
		api.POST("/extract", hb.Voice.ExtractHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.HealthCheckHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, maxRequestsPerMin int, logger *zap.Logger) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(maxRequestsPerMin, logger))
	RegisterQuoteRoutes(api, hb)
	RegisterAvailabilityRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
	RegisterAddressRoutes(api, hb)
	RegisterVoiceRoutes(api, hb)
	RegisterCatalogRoutes(api, hb)
}
