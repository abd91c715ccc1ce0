package models

import "time"

const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusPending   = "PENDING_DEPOSIT"
)

// Booking represents a confirmed booking record.
type Booking struct {
	ID                     string           `bson:"id" json:"id"`
	BusinessID             string           `bson:"business_id" json:"business_id"`
	ServiceID              string           `bson:"service_id" json:"service_id"`
	QuoteID                string           `bson:"quote_id" json:"quote_id"`
	CallID                 string           `bson:"call_id" json:"call_id"`
	CustomerName           string           `bson:"customer_name" json:"customer_name"`
	CustomerPhone          string           `bson:"customer_phone,omitempty" json:"customer_phone,omitempty"`
	StartAt                time.Time        `bson:"start_at" json:"start_at"`
	EndAt                  time.Time        `bson:"end_at" json:"end_at"`
	Status                 string           `bson:"status" json:"status"`
	TotalEstimateAmount    float64          `bson:"total_estimate_amount" json:"total_estimate_amount"`
	DepositAmount          float64          `bson:"deposit_amount" json:"deposit_amount"`
	RemainingBalance       float64          `bson:"remaining_balance" json:"remaining_balance"`
	DepositPaid            bool             `bson:"deposit_paid" json:"deposit_paid"`
	DepositPaymentIntentID string           `bson:"deposit_payment_intent_id,omitempty" json:"deposit_payment_intent_id,omitempty"`
	DepositClientSecret    string           `bson:"-" json:"deposit_client_secret,omitempty"`
	Addresses              []BookingAddress `bson:"addresses" json:"addresses"`
	PriceBreakdown         PriceBreakdown   `bson:"price_breakdown" json:"price_breakdown"`
	CreatedAt              time.Time        `bson:"created_at" json:"created_at"`
}

// ConfirmBookingInput is what the caller supplies to turn a quote into a booking.
type ConfirmBookingInput struct {
	CallID        string    `json:"call_id" binding:"required"`
	StartAt       time.Time `json:"start_at" binding:"required"`
	CustomerName  string    `json:"customer_name" binding:"required"`
	CustomerPhone string    `json:"customer_phone"`
}

// RegeneratePayload is the task payload for rebuilding a business's slot table.
type RegeneratePayload struct {
	BusinessID string `json:"business_id"`
	From       string `json:"from,omitempty"`
}
