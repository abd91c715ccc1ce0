package models

// AddressRole is the part an address plays in a booking route.
type AddressRole string

const (
	RoleBusinessBase AddressRole = "BUSINESS_BASE"
	RolePickup       AddressRole = "PICKUP"
	RoleDropoff      AddressRole = "DROPOFF"
	RoleService      AddressRole = "SERVICE"
)

// BookingAddress is one stop of a quote or booking route.
type BookingAddress struct {
	ID            string      `bson:"id" json:"id"`
	Address       string      `bson:"address" json:"address"`
	Role          AddressRole `bson:"role" json:"role"`
	SequenceOrder int         `bson:"sequence_order" json:"sequence_order"`
	ServiceID     string      `bson:"service_id,omitempty" json:"service_id,omitempty"`
}

// ParsedAddress is the positional breakdown of a "line1, city, state, postcode" string.
type ParsedAddress struct {
	Line1    string `json:"line1"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// AddressValidation is the outcome of validating a free-text address.
type AddressValidation struct {
	IsValid          bool     `json:"is_valid"`
	FormattedAddress string   `json:"formatted_address"`
	Confidence       float64  `json:"confidence"`
	Issues           []string `json:"issues,omitempty"`
}

// Locale fills address parts the caller left out.
type Locale struct {
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}
