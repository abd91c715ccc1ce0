package models

import "time"

// RouteSegment is one address-to-address leg considered for travel billing.
type RouteSegment struct {
	From         string      `bson:"from" json:"from"`
	To           string      `bson:"to" json:"to"`
	FromRole     AddressRole `bson:"from_role" json:"from_role"`
	ToRole       AddressRole `bson:"to_role" json:"to_role"`
	DistanceKm   float64     `bson:"distance_km" json:"distance_km"`
	DurationMins float64     `bson:"duration_mins" json:"duration_mins"`
	Chargeable   bool        `bson:"chargeable" json:"chargeable"`
	Status       string      `bson:"status" json:"status"`
}

// TravelBreakdown is the shared travel line item of a booking.
type TravelBreakdown struct {
	TotalDistanceKm      float64             `bson:"total_distance_km" json:"total_distance_km"`
	TotalTravelTimeMins  float64             `bson:"total_travel_time_mins" json:"total_travel_time_mins"`
	TotalTravelCost      float64             `bson:"total_travel_cost" json:"total_travel_cost"`
	ChargingModel        TravelChargingModel `bson:"charging_model,omitempty" json:"charging_model,omitempty"`
	RouteSegments        []RouteSegment      `bson:"route_segments" json:"route_segments"`
	FreeTravelApplied    bool                `bson:"free_travel_applied" json:"free_travel_applied"`
	FreeTravelDistanceKm float64             `bson:"free_travel_distance_km" json:"free_travel_distance_km"`
}

// ComponentBreakdown records how one pricing component was priced.
type ComponentBreakdown struct {
	Name               string             `bson:"name" json:"name"`
	PricingCombination PricingCombination `bson:"pricing_combination" json:"pricing_combination"`
	TierIndex          int                `bson:"tier_index" json:"tier_index"`
	UnitPrice          float64            `bson:"unit_price" json:"unit_price"`
	DurationMins       float64            `bson:"duration_mins" json:"duration_mins"`
	Cost               float64            `bson:"cost" json:"cost"`
}

type ServiceBreakdown struct {
	ServiceID         string               `bson:"service_id" json:"service_id"`
	ServiceName       string               `bson:"service_name" json:"service_name"`
	Quantity          int                  `bson:"quantity" json:"quantity"`
	JobScope          string               `bson:"job_scope,omitempty" json:"job_scope,omitempty"`
	Components        []ComponentBreakdown `bson:"components" json:"components"`
	TotalCost         float64              `bson:"total_cost" json:"total_cost"`
	TotalDurationMins float64              `bson:"total_duration_mins" json:"total_duration_mins"`
}

type BusinessFeeBreakdown struct {
	GSTRate              float64 `bson:"gst_rate" json:"gst_rate"`
	GSTIncluded          bool    `bson:"gst_included" json:"gst_included"`
	GSTAmount            float64 `bson:"gst_amount" json:"gst_amount"`
	PlatformFee          float64 `bson:"platform_fee" json:"platform_fee"`
	PaymentProcessingFee float64 `bson:"payment_processing_fee" json:"payment_processing_fee"`
	TotalFees            float64 `bson:"total_fees" json:"total_fees"`
}

// PriceBreakdown is the auditable composition of a quote total.
type PriceBreakdown struct {
	Services                []ServiceBreakdown   `bson:"services" json:"services"`
	Travel                  TravelBreakdown      `bson:"travel" json:"travel"`
	BusinessFees            BusinessFeeBreakdown `bson:"business_fees" json:"business_fees"`
	ServiceSubtotal         float64              `bson:"service_subtotal" json:"service_subtotal"`
	TravelSubtotal          float64              `bson:"travel_subtotal" json:"travel_subtotal"`
	Subtotal                float64              `bson:"subtotal" json:"subtotal"`
	MinimumChargeAdjustment float64              `bson:"minimum_charge_adjustment" json:"minimum_charge_adjustment"`
}

// QuoteResult is a priced quote held in session storage until booked or superseded.
type QuoteResult struct {
	QuoteID                    string         `bson:"quote_id" json:"quote_id"`
	BusinessID                 string         `bson:"business_id" json:"business_id"`
	ServiceID                  string         `bson:"service_id" json:"service_id"`
	TotalEstimateAmount        float64        `bson:"total_estimate_amount" json:"total_estimate_amount"`
	TotalEstimateTimeInMinutes int            `bson:"total_estimate_time_in_minutes" json:"total_estimate_time_in_minutes"`
	MinimumChargeApplied       bool           `bson:"minimum_charge_applied" json:"minimum_charge_applied"`
	DepositAmount              float64        `bson:"deposit_amount" json:"deposit_amount"`
	RemainingBalance           float64        `bson:"remaining_balance" json:"remaining_balance"`
	DepositPaid                bool           `bson:"deposit_paid" json:"deposit_paid"`
	PriceBreakdown             PriceBreakdown `bson:"price_breakdown" json:"price_breakdown"`
	CreatedAt                  time.Time      `bson:"created_at" json:"created_at"`
}
