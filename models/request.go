package models

// QuoteRequestArgs are requirement values as collected from the caller.
// Several fields overlap; Normalize in services/pricing collapses them.
type QuoteRequestArgs struct {
	Quantity          *int     `json:"quantity,omitempty"`
	NumberOfPeople    *int     `json:"number_of_people,omitempty"`
	NumberOfRooms     *int     `json:"number_of_rooms,omitempty"`
	NumberOfVehicles  *int     `json:"number_of_vehicles,omitempty"`
	JobScope          string   `json:"job_scope,omitempty"`
	PickupAddress     string   `json:"pickup_address,omitempty"`
	PickupAddresses   []string `json:"pickup_addresses,omitempty"`
	DropoffAddress    string   `json:"dropoff_address,omitempty"`
	DropoffAddresses  []string `json:"dropoff_addresses,omitempty"`
	ServiceAddress    string   `json:"service_address,omitempty"`
	CustomerAddress   string   `json:"customer_address,omitempty"`
	CustomerAddresses []string `json:"customer_addresses,omitempty"`
}

// NormalizedQuoteRequest is the single internal shape every quote is computed from.
type NormalizedQuoteRequest struct {
	Quantity          int      `json:"quantity"`
	JobScope          string   `json:"job_scope,omitempty"`
	Pickups           []string `json:"pickups,omitempty"`
	Dropoffs          []string `json:"dropoffs,omitempty"`
	ServiceAddresses  []string `json:"service_addresses,omitempty"`
	CustomerAddresses []string `json:"customer_addresses,omitempty"`
}
