package booking

import (
	"context"
	"math"
	"strings"

	"receptionist/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// DepositIntent is a pending deposit payment the customer completes out of band.
type DepositIntent struct {
	ID           string
	ClientSecret string
}

// DepositProcessor requests payment of a booking deposit.
type DepositProcessor interface {
	RequestDeposit(ctx context.Context, booking *models.Booking, currency string) (*DepositIntent, error)
}

// StripeDepositProcessor creates a Stripe PaymentIntent per deposit.
type StripeDepositProcessor struct {
	api    *client.API
	logger *zap.Logger
}

func NewStripeDepositProcessor(secretKey string, logger *zap.Logger) *StripeDepositProcessor {
	return &StripeDepositProcessor{api: client.New(secretKey, nil), logger: logger}
}

func (p *StripeDepositProcessor) RequestDeposit(ctx context.Context, booking *models.Booking, currency string) (*DepositIntent, error) {
	if currency == "" {
		currency = string(stripe.CurrencyAUD)
	}
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(int64(math.Round(booking.DepositAmount * 100))),
		Currency:    stripe.String(strings.ToLower(currency)),
		Description: stripe.String("Booking deposit " + booking.ID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("booking_id", booking.ID)
	params.AddMetadata("quote_id", booking.QuoteID)
	params.AddMetadata("business_id", booking.BusinessID)

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}
	p.logger.Info("deposit payment intent created",
		zap.String("booking", booking.ID),
		zap.String("intent", pi.ID),
		zap.Int64("amount", pi.Amount))
	return &DepositIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// NoopDepositProcessor is used when no payment provider is configured; deposits are
// recorded on the booking and collected manually.
type NoopDepositProcessor struct{}

func (NoopDepositProcessor) RequestDeposit(context.Context, *models.Booking, string) (*DepositIntent, error) {
	return nil, nil
}
