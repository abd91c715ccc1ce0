package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// PricingCombination identifies the billing shape of a pricing component.
type PricingCombination string

const (
	LaborPerHourPerPerson     PricingCombination = "LABOR_PER_HOUR_PER_PERSON"
	LaborPerMinutePerPerson   PricingCombination = "LABOR_PER_MINUTE_PER_PERSON"
	LaborPerHourPerTeam       PricingCombination = "LABOR_PER_HOUR_PER_TEAM"
	LaborPerMinutePerTeam     PricingCombination = "LABOR_PER_MINUTE_PER_TEAM"
	LaborPerHourPerVehicle    PricingCombination = "LABOR_PER_HOUR_PER_VEHICLE"
	LaborPerMinutePerVehicle  PricingCombination = "LABOR_PER_MINUTE_PER_VEHICLE"
	ServicePerPerson          PricingCombination = "SERVICE_PER_PERSON"
	ServicePerVehicle         PricingCombination = "SERVICE_PER_VEHICLE"
	ServicePerRoom            PricingCombination = "SERVICE_PER_ROOM"
	ServicePerTeam            PricingCombination = "SERVICE_PER_TEAM"
	ServiceFixedPrice         PricingCombination = "SERVICE_FIXED_PRICE"
	ServicePerHour            PricingCombination = "SERVICE_PER_HOUR"
	ServicePerMinute          PricingCombination = "SERVICE_PER_MINUTE"
	TravelPerKm               PricingCombination = "TRAVEL_PER_KM"
	TravelPerMinute           PricingCombination = "TRAVEL_PER_MINUTE"
	TravelPerHour             PricingCombination = "TRAVEL_PER_HOUR"
	TravelPerKmPerPerson      PricingCombination = "TRAVEL_PER_KM_PER_PERSON"
	TravelPerMinutePerPerson  PricingCombination = "TRAVEL_PER_MINUTE_PER_PERSON"
	TravelPerHourPerPerson    PricingCombination = "TRAVEL_PER_HOUR_PER_PERSON"
	TravelPerKmPerVehicle     PricingCombination = "TRAVEL_PER_KM_PER_VEHICLE"
	TravelPerMinutePerVehicle PricingCombination = "TRAVEL_PER_MINUTE_PER_VEHICLE"
	TravelPerHourPerVehicle   PricingCombination = "TRAVEL_PER_HOUR_PER_VEHICLE"
	TravelPerKmTeam           PricingCombination = "TRAVEL_PER_KM_TEAM"
	TravelPerMinuteTeam       PricingCombination = "TRAVEL_PER_MINUTE_TEAM"
	TravelPerHourTeam         PricingCombination = "TRAVEL_PER_HOUR_TEAM"
)

// IsTravel reports whether the combination is billed by the travel calculator.
func (p PricingCombination) IsTravel() bool {
	return strings.HasPrefix(string(p), "TRAVEL_")
}

// PricingTier is a quantity-banded price/duration rule.
type PricingTier struct {
	MinQuantity          int              `bson:"min_quantity" json:"min_quantity"`
	MaxQuantity          int              `bson:"max_quantity" json:"max_quantity"`
	Price                float64          `bson:"price" json:"price"`
	DurationEstimateMins DurationEstimate `bson:"duration_estimate_mins" json:"duration_estimate_mins"`
}

// PricingComponent is one priced part (labor, service or travel) of a service.
type PricingComponent struct {
	Name               string             `bson:"name" json:"name"`
	PricingCombination PricingCombination `bson:"pricing_combination" json:"pricing_combination"`
	Tiers              []PricingTier      `bson:"tiers" json:"tiers"`
}

// PricingConfig is the ordered list of components that make up a service price.
type PricingConfig struct {
	Components []PricingComponent `bson:"components" json:"components"`
}

// DurationEstimate is either a flat number of minutes or a job-scope lookup table.
type DurationEstimate struct {
	Flat    *float64
	ByScope map[string]float64
}

// FlatDuration returns a DurationEstimate holding a single value.
func FlatDuration(mins float64) DurationEstimate {
	return DurationEstimate{Flat: &mins}
}

// ScopedDuration returns a DurationEstimate keyed by job scope.
func ScopedDuration(byScope map[string]float64) DurationEstimate {
	return DurationEstimate{ByScope: byScope}
}

// IsZero reports whether neither form is set.
func (d DurationEstimate) IsZero() bool {
	return d.Flat == nil && len(d.ByScope) == 0
}

func (d DurationEstimate) MarshalJSON() ([]byte, error) {
	if d.Flat != nil {
		return json.Marshal(*d.Flat)
	}
	if d.ByScope != nil {
		return json.Marshal(d.ByScope)
	}
	return []byte("null"), nil
}

func (d *DurationEstimate) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*d = DurationEstimate{}
		return nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var byScope map[string]float64
		if err := json.Unmarshal(data, &byScope); err != nil {
			return fmt.Errorf("duration estimate: %w", err)
		}
		*d = DurationEstimate{ByScope: byScope}
		return nil
	}
	var flat float64
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("duration estimate: %w", err)
	}
	*d = DurationEstimate{Flat: &flat}
	return nil
}

func (d DurationEstimate) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.Flat != nil {
		return bson.MarshalValue(*d.Flat)
	}
	if d.ByScope != nil {
		return bson.MarshalValue(d.ByScope)
	}
	return bson.TypeNull, nil, nil
}

func (d *DurationEstimate) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*d = DurationEstimate{}
	case bson.TypeEmbeddedDocument:
		var byScope map[string]float64
		if err := raw.Unmarshal(&byScope); err != nil {
			return fmt.Errorf("duration estimate: %w", err)
		}
		*d = DurationEstimate{ByScope: byScope}
	case bson.TypeDouble:
		flat := raw.Double()
		*d = DurationEstimate{Flat: &flat}
	case bson.TypeInt32:
		flat := float64(raw.Int32())
		*d = DurationEstimate{Flat: &flat}
	case bson.TypeInt64:
		flat := float64(raw.Int64())
		*d = DurationEstimate{Flat: &flat}
	default:
		return fmt.Errorf("duration estimate: unsupported bson type %s", t)
	}
	return nil
}
