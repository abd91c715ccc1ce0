package booking

import (
	"context"
	"fmt"

	"receptionist/models"

	"go.uber.org/zap"
)

// BusinessSource loads the business and service records a quote is priced against.
type BusinessSource interface {
	GetBusiness(ctx context.Context, businessID string) (*models.Business, error)
	GetService(ctx context.Context, serviceID string) (*models.Service, error)
}

// Calculator prices one service for a business.
type Calculator interface {
	CalculateBooking(ctx context.Context, args models.QuoteRequestArgs, service models.Service, business models.Business, counter int64) (*models.QuoteResult, error)
}

// QuoteInput is what the receptionist has collected during a call.
type QuoteInput struct {
	CallID     string                  `json:"call_id" binding:"required"`
	BusinessID string                  `json:"business_id" binding:"required"`
	ServiceID  string                  `json:"service_id" binding:"required"`
	Args       models.QuoteRequestArgs `json:"args"`
}

type QuoteService struct {
	businesses BusinessSource
	calculator Calculator
	store      QuoteStore
	counter    QuoteCounter
	logger     *zap.Logger
}

func NewQuoteService(businesses BusinessSource, calculator Calculator, store QuoteStore, counter QuoteCounter, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		businesses: businesses,
		calculator: calculator,
		store:      store,
		counter:    counter,
		logger:     logger,
	}
}

// CreateQuote prices the request and keeps it as the call's current quote,
// replacing any earlier quote for the same call.
func (s *QuoteService) CreateQuote(ctx context.Context, in QuoteInput) (*models.QuoteResult, error) {
	business, err := s.businesses.GetBusiness(ctx, in.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("load business %s: %w", in.BusinessID, err)
	}
	service, err := s.businesses.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("load service %s: %w", in.ServiceID, err)
	}
	if service.BusinessID != business.ID {
		return nil, fmt.Errorf("%w: %s", ErrServiceMismatch, service.ID)
	}

	seq, err := s.counter.Next(ctx, business.ID)
	if err != nil {
		return nil, fmt.Errorf("allocate quote number: %w", err)
	}

	quote, err := s.calculator.CalculateBooking(ctx, in.Args, *service, *business, seq)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, in.CallID, quote); err != nil {
		return nil, fmt.Errorf("store quote: %w", err)
	}
	s.logger.Info("quote stored for call",
		zap.String("call", in.CallID),
		zap.String("quote", quote.QuoteID),
		zap.Float64("total", quote.TotalEstimateAmount))
	return quote, nil
}

// GetQuote returns the call's current quote.
func (s *QuoteService) GetQuote(ctx context.Context, callID string) (*models.QuoteResult, error) {
	return s.store.Get(ctx, callID)
}
