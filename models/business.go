package models

import "time"

// BusinessCategory drives the default travel-charging model.
type BusinessCategory string

const (
	CategoryRemovalist     BusinessCategory = "REMOVALIST"
	CategoryCleaning       BusinessCategory = "CLEANING"
	CategoryBeauty         BusinessCategory = "BEAUTY"
	CategoryHandyman       BusinessCategory = "HANDYMAN"
	CategoryMobileMechanic BusinessCategory = "MOBILE_MECHANIC"
	CategoryPlumbing       BusinessCategory = "PLUMBING"
	CategoryElectrical     BusinessCategory = "ELECTRICAL"
	CategoryGardening      BusinessCategory = "GARDENING"
	CategoryPetCare        BusinessCategory = "PET_CARE"
	CategoryOther          BusinessCategory = "OTHER"
)

// TravelChargingModel decides which legs of a route are billable.
type TravelChargingModel string

const (
	BetweenCustomerLocations      TravelChargingModel = "BETWEEN_CUSTOMER_LOCATIONS"
	FromBaseToCustomers           TravelChargingModel = "FROM_BASE_TO_CUSTOMERS"
	CustomersAndBackToBase        TravelChargingModel = "CUSTOMERS_AND_BACK_TO_BASE"
	FullRoute                     TravelChargingModel = "FULL_ROUTE"
	BetweenCustomersAndBackToBase TravelChargingModel = "BETWEEN_CUSTOMERS_AND_BACK_TO_BASE"
	FromBaseAndBetweenCustomers   TravelChargingModel = "FROM_BASE_AND_BETWEEN_CUSTOMERS"
)

// DepositType is how a business computes its booking deposit.
type DepositType string

const (
	DepositFixed      DepositType = "FIXED"
	DepositPercentage DepositType = "PERCENTAGE"
)

// FeePolicy holds the business charges applied on top of a subtotal.
type FeePolicy struct {
	GSTRate                        float64     `bson:"gst_rate" json:"gst_rate"`
	PricesIncludeGST               bool        `bson:"prices_include_gst" json:"prices_include_gst"`
	PlatformFeePercentage          float64     `bson:"platform_fee_percentage" json:"platform_fee_percentage"`
	PaymentProcessingFeePercentage float64     `bson:"payment_processing_fee_percentage" json:"payment_processing_fee_percentage"`
	MinimumCharge                  float64     `bson:"minimum_charge" json:"minimum_charge"`
	ChargesDeposit                 bool        `bson:"charges_deposit" json:"charges_deposit"`
	DepositType                    DepositType `bson:"deposit_type,omitempty" json:"deposit_type,omitempty"`
	DepositFixedAmount             float64     `bson:"deposit_fixed_amount" json:"deposit_fixed_amount"`
	DepositPercentage              float64     `bson:"deposit_percentage" json:"deposit_percentage"`
}

// Business is a service business taking bookings through the receptionist.
type Business struct {
	ID                  string               `bson:"id" json:"id"`
	Name                string               `bson:"name" json:"name"`
	Category            BusinessCategory     `bson:"category" json:"category"`
	BaseAddress         string               `bson:"base_address" json:"base_address"`
	Timezone            string               `bson:"timezone" json:"timezone"`
	Currency            string               `bson:"currency,omitempty" json:"currency,omitempty"`
	TravelChargingModel *TravelChargingModel `bson:"travel_charging_model,omitempty" json:"travel_charging_model,omitempty"`
	FreeTravelKm        float64              `bson:"free_travel_km,omitempty" json:"free_travel_km,omitempty"`
	FeePolicy           FeePolicy            `bson:"fee_policy" json:"fee_policy"`
}

// Location returns the business timezone, UTC when unset or unknown.
func (b Business) Location() *time.Location {
	if b.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ServiceLocationType tells whether a service needs the team to travel.
type ServiceLocationType string

const (
	BusinessLocation ServiceLocationType = "BUSINESS_LOCATION"
	MobileService    ServiceLocationType = "MOBILE"
)

// Service is a bookable offering of a business.
type Service struct {
	ID                    string               `bson:"id" json:"id"`
	BusinessID            string               `bson:"business_id" json:"business_id"`
	Name                  string               `bson:"name" json:"name"`
	LocationType          ServiceLocationType  `bson:"location_type" json:"location_type"`
	TravelChargingModel   *TravelChargingModel `bson:"travel_charging_model,omitempty" json:"travel_charging_model,omitempty"`
	PricingConfig         PricingConfig        `bson:"pricing_config" json:"pricing_config"`
	AIRequirementFields   []string             `bson:"ai_requirement_fields,omitempty" json:"ai_requirement_fields,omitempty"`
	JobScopes             []string             `bson:"job_scopes,omitempty" json:"job_scopes,omitempty"`
	EstimatedDurationMins int                  `bson:"estimated_duration_mins,omitempty" json:"estimated_duration_mins,omitempty"`
}

// IsMobile reports whether travel applies to the service.
func (s Service) IsMobile() bool {
	return s.LocationType == MobileService
}

// TravelComponent returns the first travel-tagged component, if any.
func (s Service) TravelComponent() (PricingComponent, bool) {
	for _, c := range s.PricingConfig.Components {
		if c.PricingCombination.IsTravel() {
			return c, true
		}
	}
	return PricingComponent{}, false
}
