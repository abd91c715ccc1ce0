package pricing

import (
	"context"
	"fmt"
	"math"
	"sort"

	"receptionist/models"
	"receptionist/services/distance"

	"go.uber.org/zap"
)

// segmentRule decides whether the leg from -> to is billable.
type segmentRule func(fromBase, toBase bool) bool

var segmentRules = map[models.TravelChargingModel]segmentRule{
	models.BetweenCustomerLocations: func(fromBase, toBase bool) bool {
		return !fromBase && !toBase
	},
	models.FromBaseToCustomers: func(bool, bool) bool {
		return true
	},
	models.CustomersAndBackToBase: func(fromBase, _ bool) bool {
		return !fromBase
	},
	models.FullRoute: func(bool, bool) bool {
		return true
	},
	models.BetweenCustomersAndBackToBase: func(fromBase, toBase bool) bool {
		return (!fromBase && !toBase) || toBase
	},
	models.FromBaseAndBetweenCustomers: func(_, toBase bool) bool {
		return !toBase
	},
}

// returnLegModels close the route with a leg back to the business base.
var returnLegModels = map[models.TravelChargingModel]bool{
	models.CustomersAndBackToBase:        true,
	models.FullRoute:                     true,
	models.BetweenCustomersAndBackToBase: true,
}

var categoryTravelModels = map[models.BusinessCategory]models.TravelChargingModel{
	models.CategoryRemovalist:     models.BetweenCustomerLocations,
	models.CategoryCleaning:       models.FromBaseToCustomers,
	models.CategoryBeauty:         models.FromBaseToCustomers,
	models.CategoryPetCare:        models.FromBaseToCustomers,
	models.CategoryGardening:      models.FromBaseToCustomers,
	models.CategoryHandyman:       models.FullRoute,
	models.CategoryPlumbing:       models.FullRoute,
	models.CategoryElectrical:     models.FullRoute,
	models.CategoryMobileMechanic: models.FullRoute,
}

// DefaultTravelModel returns the category default, if the category has one.
func DefaultTravelModel(category models.BusinessCategory) (models.TravelChargingModel, bool) {
	m, ok := categoryTravelModels[category]
	return m, ok
}

// ResolveTravelModel picks the service override, then the business setting, then the category default.
// An explicit model that is not one of the known models is an error, not a reason to fall through.
func ResolveTravelModel(service models.Service, business models.Business) (models.TravelChargingModel, error) {
	candidates := []struct {
		owner string
		model *models.TravelChargingModel
	}{
		{"service " + service.ID, service.TravelChargingModel},
		{"business " + business.ID, business.TravelChargingModel},
	}
	for _, c := range candidates {
		if c.model == nil {
			continue
		}
		if _, ok := segmentRules[*c.model]; !ok {
			return "", fmt.Errorf("%w: %s has unknown travel charging model %q", ErrNoTravelModel, c.owner, *c.model)
		}
		return *c.model, nil
	}
	if m, ok := DefaultTravelModel(business.Category); ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: business %s category %q", ErrNoTravelModel, business.ID, business.Category)
}

// TravelCalculator prices the shared travel line item of a booking.
type TravelCalculator struct {
	distances distance.Provider
	mockMode  bool
	logger    *zap.Logger
}

// NewTravelCalculator builds a calculator. mockMode substitutes synthetic distances for failed
// lookups and must only be enabled outside production.
func NewTravelCalculator(distances distance.Provider, mockMode bool, logger *zap.Logger) *TravelCalculator {
	return &TravelCalculator{distances: distances, mockMode: mockMode, logger: logger}
}

// CalculateBookingTravel computes the travel breakdown for every service on a booking.
func (c *TravelCalculator) CalculateBookingTravel(
	ctx context.Context,
	services []models.Service,
	addresses []models.BookingAddress,
	business models.Business,
	quantity int,
) (models.TravelBreakdown, error) {
	var mobile []models.Service
	for _, s := range services {
		if s.IsMobile() {
			mobile = append(mobile, s)
		}
	}
	if len(mobile) == 0 {
		return models.TravelBreakdown{RouteSegments: []models.RouteSegment{}}, nil
	}

	model, err := ResolveTravelModel(mobile[0], business)
	if err != nil {
		return models.TravelBreakdown{}, err
	}

	segments := buildSegments(addresses, model)
	breakdown := models.TravelBreakdown{
		ChargingModel: model,
		RouteSegments: segments,
	}
	if len(segments) == 0 {
		return breakdown, nil
	}

	reqs := make([]distance.Request, len(segments))
	for i, seg := range segments {
		reqs[i] = distance.Request{Origin: seg.From, Destination: seg.To, Units: "metric"}
	}
	results, err := c.distances.BatchDistances(ctx, reqs)
	if err != nil {
		if !c.mockMode {
			return models.TravelBreakdown{}, fmt.Errorf("%w: %v", ErrDistanceProvider, err)
		}
		c.logger.Warn("distance lookup failed, using synthetic distances", zap.Error(err))
		results = make([]distance.Result, len(segments))
		for i, r := range reqs {
			results[i] = distance.Synthetic(r.Origin, r.Destination)
		}
	}
	if len(results) != len(segments) {
		return models.TravelBreakdown{}, fmt.Errorf("%w: expected %d results, got %d", ErrDistanceProvider, len(segments), len(results))
	}

	for i := range segments {
		res := results[i]
		if res.Status != distance.StatusOK && c.mockMode {
			c.logger.Warn("substituting synthetic distance",
				zap.String("from", segments[i].From),
				zap.String("to", segments[i].To),
				zap.String("status", string(res.Status)))
			res = distance.Synthetic(segments[i].From, segments[i].To)
		}
		segments[i].Status = string(res.Status)
		if res.Status != distance.StatusOK {
			if segments[i].Chargeable {
				return models.TravelBreakdown{}, fmt.Errorf("%w: %s -> %s returned %s",
					ErrDistanceProvider, segments[i].From, segments[i].To, res.Status)
			}
			continue
		}
		segments[i].DistanceKm = res.DistanceKm
		segments[i].DurationMins = res.DurationMins
		if segments[i].Chargeable {
			breakdown.TotalDistanceKm += res.DistanceKm
			breakdown.TotalTravelTimeMins += res.DurationMins
		}
	}

	billableKm, billableMins := breakdown.TotalDistanceKm, breakdown.TotalTravelTimeMins
	if business.FreeTravelKm > 0 && billableKm > 0 {
		free := math.Min(business.FreeTravelKm, billableKm)
		billableMins *= (billableKm - free) / billableKm
		billableKm -= free
		breakdown.FreeTravelApplied = true
		breakdown.FreeTravelDistanceKm = free
	}

	cost, err := travelCost(mobile[0], billableKm, billableMins, quantity)
	if err != nil {
		return models.TravelBreakdown{}, err
	}
	breakdown.TotalTravelCost = cost

	c.logger.Debug("travel calculated",
		zap.String("model", string(model)),
		zap.Int("segments", len(segments)),
		zap.Float64("km", breakdown.TotalDistanceKm),
		zap.Float64("cost", cost))
	return breakdown, nil
}

// buildSegments walks the addresses in sequence order and tags each leg as chargeable or not.
func buildSegments(addresses []models.BookingAddress, model models.TravelChargingModel) []models.RouteSegment {
	ordered := make([]models.BookingAddress, len(addresses))
	copy(ordered, addresses)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceOrder < ordered[j].SequenceOrder
	})

	hasCustomer := false
	var base *models.BookingAddress
	for i := range ordered {
		if ordered[i].Role == models.RoleBusinessBase {
			if base == nil {
				base = &ordered[i]
			}
			continue
		}
		hasCustomer = true
	}
	if !hasCustomer {
		return []models.RouteSegment{}
	}
	if returnLegModels[model] && base != nil && ordered[len(ordered)-1].Role != models.RoleBusinessBase {
		ordered = append(ordered, *base)
	}

	rule := segmentRules[model]
	segments := make([]models.RouteSegment, 0, len(ordered)-1)
	for i := 0; i+1 < len(ordered); i++ {
		from, to := ordered[i], ordered[i+1]
		fromBase := from.Role == models.RoleBusinessBase
		toBase := to.Role == models.RoleBusinessBase
		segments = append(segments, models.RouteSegment{
			From:       from.Address,
			To:         to.Address,
			FromRole:   from.Role,
			ToRole:     to.Role,
			Chargeable: rule(fromBase, toBase),
		})
	}
	return segments
}

// travelCost bills aggregated distance/time using the service's travel component.
func travelCost(service models.Service, km, mins float64, quantity int) (float64, error) {
	component, ok := service.TravelComponent()
	if !ok {
		return 0, nil
	}
	rule, ok := travelRules[component.PricingCombination]
	if !ok {
		return 0, &CombinationError{Component: component.Name, Combination: component.PricingCombination}
	}
	tier, _, err := ResolveTier(component, quantity)
	if err != nil {
		return 0, err
	}

	var cost float64
	switch rule.unit {
	case travelPerKm:
		cost = tier.Price * km
	case travelPerMinute:
		cost = tier.Price * mins
	case travelPerHour:
		cost = tier.Price * mins / 60
	}
	if rule.quantityMultiplier {
		cost *= float64(quantity)
	}
	return cost, nil
}
