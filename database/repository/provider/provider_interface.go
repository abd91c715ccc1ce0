package providerRepo

import (
	"context"

	"receptionist/models"
)

// ProviderRepository stores the working hours of a business's providers.
type ProviderRepository interface {
	// ListCalendars returns every provider calendar of a business.
	ListCalendars(ctx context.Context, businessID string) ([]models.ProviderCalendar, error)
	// UpsertCalendar creates or replaces one provider's calendar.
	UpsertCalendar(ctx context.Context, calendar *models.ProviderCalendar) error
	// DeleteCalendar removes a provider from a business.
	DeleteCalendar(ctx context.Context, businessID, providerID string) error
}
