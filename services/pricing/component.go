package pricing

import "receptionist/models"

// CalculateComponentCost prices one non-travel component.
func CalculateComponentCost(component models.PricingComponent, quantity int, jobScope string) (models.ComponentBreakdown, error) {
	if component.PricingCombination.IsTravel() {
		return models.ComponentBreakdown{}, &CombinationError{Component: component.Name, Combination: component.PricingCombination}
	}
	rule, ok := combinationRules[component.PricingCombination]
	if !ok {
		return models.ComponentBreakdown{}, &CombinationError{Component: component.Name, Combination: component.PricingCombination}
	}

	tier, idx, err := ResolveTier(component, quantity)
	if err != nil {
		return models.ComponentBreakdown{}, err
	}

	var duration float64
	if rule.usesDuration {
		duration = LookupDuration(tier, jobScope)
	}

	cost := tier.Price
	if rule.timeMultiplier > 0 && duration > 0 {
		cost *= duration / rule.timeMultiplier
	}
	if rule.quantityMultiplier {
		cost *= float64(quantity)
	}

	return models.ComponentBreakdown{
		Name:               component.Name,
		PricingCombination: component.PricingCombination,
		TierIndex:          idx,
		UnitPrice:          tier.Price,
		DurationMins:       duration,
		Cost:               cost,
	}, nil
}

// CalculateServiceCost sums every non-travel component of a service.
// Duration is the longest component duration, or the service estimate when no component has one.
func CalculateServiceCost(service models.Service, req models.NormalizedQuoteRequest) (models.ServiceBreakdown, error) {
	out := models.ServiceBreakdown{
		ServiceID:   service.ID,
		ServiceName: service.Name,
		Quantity:    req.Quantity,
		JobScope:    req.JobScope,
	}
	for _, component := range service.PricingConfig.Components {
		if component.PricingCombination.IsTravel() {
			continue
		}
		line, err := CalculateComponentCost(component, req.Quantity, req.JobScope)
		if err != nil {
			return models.ServiceBreakdown{}, err
		}
		out.Components = append(out.Components, line)
		out.TotalCost += line.Cost
		if line.DurationMins > out.TotalDurationMins {
			out.TotalDurationMins = line.DurationMins
		}
	}
	if out.TotalDurationMins == 0 && service.EstimatedDurationMins > 0 {
		out.TotalDurationMins = float64(service.EstimatedDurationMins)
	}
	return out, nil
}
