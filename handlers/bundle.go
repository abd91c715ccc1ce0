package handlers

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Quote        *QuoteHandler
	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Address      *AddressHandler
	Voice        *VoiceHandler
	Catalog      *CatalogHandler
	Health       *HealthHandler
}
