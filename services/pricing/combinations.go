package pricing

import (
	"fmt"

	"receptionist/models"
)

// combinationRule is how a pricing tag turns a tier price into a cost.
type combinationRule struct {
	usesDuration       bool
	timeMultiplier     float64 // 60 per hour, 1 per minute, 0 not time based
	quantityMultiplier bool
}

var combinationRules = map[models.PricingCombination]combinationRule{
	models.LaborPerHourPerPerson:    {usesDuration: true, timeMultiplier: 60, quantityMultiplier: true},
	models.LaborPerMinutePerPerson:  {usesDuration: true, timeMultiplier: 1, quantityMultiplier: true},
	models.LaborPerHourPerTeam:      {usesDuration: true, timeMultiplier: 60},
	models.LaborPerMinutePerTeam:    {usesDuration: true, timeMultiplier: 1},
	models.LaborPerHourPerVehicle:   {usesDuration: true, timeMultiplier: 60, quantityMultiplier: true},
	models.LaborPerMinutePerVehicle: {usesDuration: true, timeMultiplier: 1, quantityMultiplier: true},
	models.ServicePerPerson:         {usesDuration: true, quantityMultiplier: true},
	models.ServicePerVehicle:        {usesDuration: true, quantityMultiplier: true},
	models.ServicePerRoom:           {usesDuration: true, quantityMultiplier: true},
	models.ServicePerTeam:           {usesDuration: true},
	models.ServiceFixedPrice:        {usesDuration: true},
	models.ServicePerHour:           {usesDuration: true, timeMultiplier: 60},
	models.ServicePerMinute:         {usesDuration: true, timeMultiplier: 1},
}

type travelUnit int

const (
	travelPerKm travelUnit = iota
	travelPerMinute
	travelPerHour
)

// travelRule is how a travel tag bills aggregated distance and time.
type travelRule struct {
	unit               travelUnit
	quantityMultiplier bool
}

var travelRules = map[models.PricingCombination]travelRule{
	models.TravelPerKm:               {unit: travelPerKm},
	models.TravelPerMinute:           {unit: travelPerMinute},
	models.TravelPerHour:             {unit: travelPerHour},
	models.TravelPerKmPerPerson:      {unit: travelPerKm, quantityMultiplier: true},
	models.TravelPerMinutePerPerson:  {unit: travelPerMinute, quantityMultiplier: true},
	models.TravelPerHourPerPerson:    {unit: travelPerHour, quantityMultiplier: true},
	models.TravelPerKmPerVehicle:     {unit: travelPerKm, quantityMultiplier: true},
	models.TravelPerMinutePerVehicle: {unit: travelPerMinute, quantityMultiplier: true},
	models.TravelPerHourPerVehicle:   {unit: travelPerHour, quantityMultiplier: true},
	models.TravelPerKmTeam:           {unit: travelPerKm},
	models.TravelPerMinuteTeam:       {unit: travelPerMinute},
	models.TravelPerHourTeam:         {unit: travelPerHour},
}

// IsSupported reports whether either calculator can price the tag.
func IsSupported(c models.PricingCombination) bool {
	if _, ok := combinationRules[c]; ok {
		return true
	}
	_, ok := travelRules[c]
	return ok
}

// ValidatePricingConfig rejects configs the calculators could never price:
// unknown tags, components without tiers and inverted tier bounds.
func ValidatePricingConfig(cfg models.PricingConfig) error {
	for _, c := range cfg.Components {
		if !IsSupported(c.PricingCombination) {
			return &CombinationError{Component: c.Name, Combination: c.PricingCombination}
		}
		if len(c.Tiers) == 0 {
			return fmt.Errorf("component %q has no tiers: %w", c.Name, ErrNoTierFound)
		}
		for i, t := range c.Tiers {
			if t.MinQuantity > t.MaxQuantity || t.Price < 0 {
				return fmt.Errorf("component %q tier %d is invalid: %w", c.Name, i+1, ErrNoTierFound)
			}
		}
	}
	return nil
}
