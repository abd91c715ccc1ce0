package booking

import (
	"context"
	"fmt"
	"time"

	"receptionist/models"
	"receptionist/services/availability"
	"receptionist/services/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository persists confirmed bookings.
type Repository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	SetDepositIntent(ctx context.Context, bookingID, intentID string) error
}

// Reserver removes capacity from the business slot table and gives it back.
type Reserver interface {
	Reserve(ctx context.Context, booking models.Booking, loc *time.Location) (*availability.Reservation, error)
	Release(ctx context.Context, reservation *availability.Reservation) error
}

type BookingService struct {
	quotes     QuoteStore
	businesses BusinessSource
	slots      Reserver
	repo       Repository
	deposits   DepositProcessor
	now        func() time.Time
	logger     *zap.Logger
}

func NewBookingService(quotes QuoteStore, businesses BusinessSource, slots Reserver, repo Repository, deposits DepositProcessor, logger *zap.Logger) *BookingService {
	if deposits == nil {
		deposits = NoopDepositProcessor{}
	}
	return &BookingService{
		quotes:     quotes,
		businesses: businesses,
		slots:      slots,
		repo:       repo,
		deposits:   deposits,
		now:        time.Now,
		logger:     logger,
	}
}

// Confirm turns the call's current quote into a booking at the requested start time.
// The slot is reserved before the booking is written and released again if the write
// fails. When the deposit request fails
// the stored booking is returned together with a *DepositError.
func (s *BookingService) Confirm(ctx context.Context, in models.ConfirmBookingInput) (*models.Booking, error) {
	quote, err := s.quotes.Get(ctx, in.CallID)
	if err != nil {
		return nil, err
	}
	if !in.StartAt.After(s.now()) {
		return nil, ErrInvalidStartTime
	}

	business, err := s.businesses.GetBusiness(ctx, quote.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("load business %s: %w", quote.BusinessID, err)
	}
	loc := business.Location()

	minutes := quote.TotalEstimateTimeInMinutes
	if minutes <= 0 {
		minutes = 60
	}
	start := in.StartAt.UTC()
	b := &models.Booking{
		ID:                  uuid.New().String(),
		BusinessID:          quote.BusinessID,
		ServiceID:           quote.ServiceID,
		QuoteID:             quote.QuoteID,
		CallID:              in.CallID,
		CustomerName:        in.CustomerName,
		CustomerPhone:       in.CustomerPhone,
		StartAt:             start,
		EndAt:               start.Add(time.Duration(minutes) * time.Minute),
		Status:              models.BookingStatusConfirmed,
		TotalEstimateAmount: quote.TotalEstimateAmount,
		DepositAmount:       quote.DepositAmount,
		RemainingBalance:    quote.RemainingBalance,
		Addresses:           pricing.AddressesFromSegments(quote.PriceBreakdown.Travel.RouteSegments, quote.ServiceID),
		PriceBreakdown:      quote.PriceBreakdown,
		CreatedAt:           s.now().UTC(),
	}
	if b.DepositAmount > 0 {
		b.Status = models.BookingStatusPending
	}

	reservation, err := s.slots.Reserve(ctx, *b, loc)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, b); err != nil {
		if relErr := s.slots.Release(ctx, reservation); relErr != nil {
			s.logger.Error("failed to release slot after booking save failed",
				zap.String("booking", b.ID),
				zap.Time("start", b.StartAt),
				zap.Error(relErr))
		}
		return nil, fmt.Errorf("save booking: %w", err)
	}
	s.logger.Info("booking confirmed",
		zap.String("booking", b.ID),
		zap.String("quote", b.QuoteID),
		zap.Time("start", b.StartAt))

	if err := s.quotes.Clear(ctx, in.CallID); err != nil {
		s.logger.Warn("failed to clear quote after booking", zap.String("call", in.CallID), zap.Error(err))
	}

	if b.DepositAmount <= 0 {
		return b, nil
	}
	intent, err := s.deposits.RequestDeposit(ctx, b, business.Currency)
	if err != nil {
		s.logger.Error("deposit request failed", zap.String("booking", b.ID), zap.Error(err))
		return b, &DepositError{BookingID: b.ID, Err: err}
	}
	if intent == nil {
		return b, nil
	}
	b.DepositPaymentIntentID = intent.ID
	b.DepositClientSecret = intent.ClientSecret
	if err := s.repo.SetDepositIntent(ctx, b.ID, intent.ID); err != nil {
		s.logger.Warn("failed to record deposit intent", zap.String("booking", b.ID), zap.Error(err))
	}
	return b, nil
}
