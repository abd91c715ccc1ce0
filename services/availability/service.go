package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"receptionist/models"

	"go.uber.org/zap"
)

const maxReserveAttempts = 3

// Repository persists slot tables. CompareAndSwap must only write when the stored
// version equals expectedVersion, and must store slots with version expectedVersion+1.
type Repository interface {
	Get(ctx context.Context, businessID string) (*models.AvailabilitySlots, error)
	CompareAndSwap(ctx context.Context, slots *models.AvailabilitySlots, expectedVersion int) error
	Upsert(ctx context.Context, slots *models.AvailabilitySlots) error
}

// CalendarSource supplies provider working hours.
type CalendarSource interface {
	ListCalendars(ctx context.Context, businessID string) ([]models.ProviderCalendar, error)
}

// BookingLister returns confirmed bookings so regenerated tables keep their reservations.
type BookingLister interface {
	ListByBusinessBetween(ctx context.Context, businessID string, from, to time.Time) ([]models.Booking, error)
}

// Settings control generated tables.
type Settings struct {
	WindowDays   int
	Durations    []int
	IntervalMins int
}

// Service wraps the slot functions with persistence and concurrency control.
type Service struct {
	repo      Repository
	calendars CalendarSource
	bookings  BookingLister
	settings  Settings
	logger    *zap.Logger
}

func NewService(repo Repository, calendars CalendarSource, bookings BookingLister, settings Settings, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		calendars: calendars,
		bookings:  bookings,
		settings:  settings,
		logger:    logger,
	}
}

// Check reports open times for a business day.
func (s *Service) Check(ctx context.Context, businessID, date string, durationMins int) (models.DayAvailability, error) {
	slots, err := s.repo.Get(ctx, businessID)
	if errors.Is(err, ErrAvailabilityDataMissing) {
		return CheckDayAvailability(nil, date, durationMins), nil
	}
	if err != nil {
		return models.DayAvailability{}, fmt.Errorf("load availability: %w", err)
	}
	return CheckDayAvailability(slots, date, durationMins), nil
}

// Reservation is capacity taken for one booking. Before is the table it was taken from.
type Reservation struct {
	Booking  models.Booking
	Location *time.Location
	Before   *models.AvailabilitySlots
	After    *models.AvailabilitySlots
}

// Reserve removes capacity for booking with an optimistic read-modify-write,
// retrying when another writer got there first.
func (s *Service) Reserve(ctx context.Context, booking models.Booking, loc *time.Location) (*Reservation, error) {
	if loc == nil {
		loc = time.UTC
	}
	start := booking.StartAt.In(loc)
	date := start.Format(dateLayout)
	clock := FormatClock(start.Hour()*60 + start.Minute())
	durationMins := int(booking.EndAt.Sub(booking.StartAt).Minutes())

	for attempt := 1; attempt <= maxReserveAttempts; attempt++ {
		current, err := s.repo.Get(ctx, booking.BusinessID)
		if err != nil {
			return nil, fmt.Errorf("load availability: %w", err)
		}
		if !IsTimeAvailable(current, date, clock, durationMins) {
			return nil, fmt.Errorf("%w: %s %s for %d minutes", ErrSlotNoLongerAvailable, date, clock, durationMins)
		}

		next, err := UpdateAvailabilityAfterBooking(current, booking, loc)
		if err != nil {
			return nil, err
		}
		next.UpdatedAt = time.Now().UTC()

		err = s.repo.CompareAndSwap(ctx, next, current.Version)
		if errors.Is(err, ErrVersionConflict) {
			s.logger.Info("availability changed during reservation, retrying",
				zap.String("business", booking.BusinessID),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("save availability: %w", err)
		}
		next.Version = current.Version + 1
		return &Reservation{Booking: booking, Location: loc, Before: current, After: next}, nil
	}
	return nil, fmt.Errorf("reserve %s %s: %w", date, clock, ErrVersionConflict)
}

// Release hands a reservation's capacity back, for bookings that could not be stored.
func (s *Service) Release(ctx context.Context, r *Reservation) error {
	if r == nil {
		return nil
	}
	for attempt := 1; attempt <= maxReserveAttempts; attempt++ {
		current, err := s.repo.Get(ctx, r.Booking.BusinessID)
		if err != nil {
			return fmt.Errorf("load availability: %w", err)
		}
		next, err := ReleaseAvailability(current, r.Before, r.Booking, r.Location)
		if err != nil {
			return err
		}
		next.UpdatedAt = time.Now().UTC()

		err = s.repo.CompareAndSwap(ctx, next, current.Version)
		if errors.Is(err, ErrVersionConflict) {
			s.logger.Info("availability changed during release, retrying",
				zap.String("business", r.Booking.BusinessID),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return fmt.Errorf("save availability: %w", err)
		}
		s.logger.Info("reservation released",
			zap.String("business", r.Booking.BusinessID),
			zap.String("booking", r.Booking.ID))
		return nil
	}
	return fmt.Errorf("release booking %s: %w", r.Booking.ID, ErrVersionConflict)
}

// Regenerate rebuilds the table from provider calendars, replaying bookings inside the window.
func (s *Service) Regenerate(ctx context.Context, businessID string, from time.Time, loc *time.Location) (*models.AvailabilitySlots, error) {
	calendars, err := s.calendars.ListCalendars(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("load provider calendars: %w", err)
	}
	fresh, err := GenerateInitialBusinessAvailability(businessID, calendars, GenerationParams{
		Start:        from,
		Days:         s.settings.WindowDays,
		Durations:    s.settings.Durations,
		IntervalMins: s.settings.IntervalMins,
		Location:     loc,
	})
	if err != nil {
		return nil, err
	}

	windowEnd := from.AddDate(0, 0, s.settings.WindowDays)
	existing, err := s.bookings.ListByBusinessBetween(ctx, businessID, from, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	for _, b := range existing {
		fresh, err = UpdateAvailabilityAfterBooking(fresh, b, loc)
		if err != nil {
			return nil, fmt.Errorf("replay booking %s: %w", b.ID, err)
		}
	}
	fresh.UpdatedAt = time.Now().UTC()

	current, err := s.repo.Get(ctx, businessID)
	switch {
	case errors.Is(err, ErrAvailabilityDataMissing):
		if err := s.repo.Upsert(ctx, fresh); err != nil {
			return nil, fmt.Errorf("save availability: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load availability: %w", err)
	default:
		if err := s.repo.CompareAndSwap(ctx, fresh, current.Version); err != nil {
			return nil, fmt.Errorf("save availability: %w", err)
		}
		fresh.Version = current.Version + 1
	}

	s.logger.Info("availability regenerated",
		zap.String("business", businessID),
		zap.Int("days", len(fresh.Slots)),
		zap.Int("replayedBookings", len(existing)))
	return fresh, nil
}
