package pricing

import (
	"context"
	"math"
	"time"

	"receptionist/models"

	"go.uber.org/zap"
)

// Engine computes quotes. It holds no per-request state and is safe for concurrent use.
type Engine struct {
	travel *TravelCalculator
	now    func() time.Time
	logger *zap.Logger
}

func NewEngine(travel *TravelCalculator, logger *zap.Logger) *Engine {
	return &Engine{travel: travel, now: time.Now, logger: logger}
}

// CalculateBooking prices a service for the collected request arguments.
// Every failure is returned as a *CalculationError; no partial quote is produced.
func (e *Engine) CalculateBooking(
	ctx context.Context,
	args models.QuoteRequestArgs,
	service models.Service,
	business models.Business,
	counter int64,
) (*models.QuoteResult, error) {
	req := Normalize(args)
	quote, err := e.calculate(ctx, req, service, business, counter)
	if err != nil {
		e.logger.Warn("quote calculation failed",
			zap.String("business", business.ID),
			zap.String("service", service.ID),
			zap.Error(err))
		return nil, &CalculationError{Cause: err}
	}
	return quote, nil
}

func (e *Engine) calculate(
	ctx context.Context,
	req models.NormalizedQuoteRequest,
	service models.Service,
	business models.Business,
	counter int64,
) (*models.QuoteResult, error) {
	policy := business.FeePolicy
	addresses := BuildAddresses(business.BaseAddress, req, service.ID)

	travel, err := e.travel.CalculateBookingTravel(ctx, []models.Service{service}, addresses, business, req.Quantity)
	if err != nil {
		return nil, err
	}

	serviceBreakdown, err := CalculateServiceCost(service, req)
	if err != nil {
		return nil, err
	}

	serviceSubtotal := math.Round(serviceBreakdown.TotalCost)
	travelSubtotal := math.Round(travel.TotalTravelCost)
	subtotal := serviceSubtotal + travelSubtotal

	fees := CalculateFees(subtotal, policy)
	total := math.Round(subtotal + fees.TotalFees)

	total, minApplied := ApplyMinimumCharge(total, policy)
	var adjustment float64
	if minApplied {
		adjustment = total - math.Round(subtotal+fees.TotalFees)
	}

	deposit := CalculateDeposit(total, policy)

	minutes := int(math.Ceil(serviceBreakdown.TotalDurationMins + travel.TotalTravelTimeMins))

	quote := &models.QuoteResult{
		QuoteID:                    QuoteID(counter, service, serviceBreakdown),
		BusinessID:                 business.ID,
		ServiceID:                  service.ID,
		TotalEstimateAmount:        total,
		TotalEstimateTimeInMinutes: minutes,
		MinimumChargeApplied:       minApplied,
		DepositAmount:              deposit,
		RemainingBalance:           total,
		DepositPaid:                false,
		PriceBreakdown: models.PriceBreakdown{
			Services:                []models.ServiceBreakdown{serviceBreakdown},
			Travel:                  travel,
			BusinessFees:            fees,
			ServiceSubtotal:         serviceSubtotal,
			TravelSubtotal:          travelSubtotal,
			Subtotal:                subtotal,
			MinimumChargeAdjustment: adjustment,
		},
		CreatedAt: e.now().UTC(),
	}

	e.logger.Info("quote calculated",
		zap.String("quote", quote.QuoteID),
		zap.Float64("total", total),
		zap.Bool("minimumApplied", minApplied),
		zap.Int("minutes", minutes))
	return quote, nil
}

// ReproduceTotal recomputes a quote total from its breakdown.
func ReproduceTotal(b models.PriceBreakdown) float64 {
	return math.Round(b.ServiceSubtotal+b.TravelSubtotal+b.BusinessFees.TotalFees) + b.MinimumChargeAdjustment
}
