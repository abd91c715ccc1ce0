package pricing

import "receptionist/models"

const defaultDurationMins = 60

// durationFallbackScopes is consulted in order when the caller's job scope has no entry.
// Kept for callers that omit job scope on simple services; do not extend.
var durationFallbackScopes = []string{"multiple_items", "house_move_one_room"}

// ResolveTier returns the tier whose quantity band contains quantity, and its index.
// There is no fallback tier.
func ResolveTier(component models.PricingComponent, quantity int) (models.PricingTier, int, error) {
	for i, tier := range component.Tiers {
		if tier.MinQuantity <= quantity && quantity <= tier.MaxQuantity {
			return tier, i, nil
		}
	}
	return models.PricingTier{}, -1, &TierError{Component: component.Name, Quantity: quantity}
}

// LookupDuration returns the tier's duration for jobScope in minutes.
func LookupDuration(tier models.PricingTier, jobScope string) float64 {
	d := tier.DurationEstimateMins
	if d.Flat != nil {
		return *d.Flat
	}
	if d.ByScope == nil {
		return defaultDurationMins
	}
	if mins, ok := d.ByScope[jobScope]; ok && jobScope != "" {
		return mins
	}
	for _, scope := range durationFallbackScopes {
		if mins, ok := d.ByScope[scope]; ok {
			return mins
		}
	}
	return defaultDurationMins
}
