package pricing

import (
	"errors"
	"testing"

	"receptionist/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tiers(bands ...models.PricingTier) []models.PricingTier { return bands }

func TestResolveTier(t *testing.T) {
	component := models.PricingComponent{
		Name:               "movers",
		PricingCombination: models.LaborPerHourPerPerson,
		Tiers: tiers(
			models.PricingTier{MinQuantity: 1, MaxQuantity: 2, Price: 60},
			models.PricingTier{MinQuantity: 3, MaxQuantity: 5, Price: 50},
		),
	}

	for q := 1; q <= 5; q++ {
		tier, idx, err := ResolveTier(component, q)
		require.NoError(t, err, "quantity %d", q)
		if q <= 2 {
			assert.Equal(t, 0, idx)
			assert.Equal(t, 60.0, tier.Price)
		} else {
			assert.Equal(t, 1, idx)
			assert.Equal(t, 50.0, tier.Price)
		}
	}

	for _, q := range []int{0, 6, 100} {
		_, _, err := ResolveTier(component, q)
		assert.ErrorIs(t, err, ErrNoTierFound, "quantity %d", q)
		var tierErr *TierError
		require.True(t, errors.As(err, &tierErr))
		assert.Equal(t, q, tierErr.Quantity)
	}
}

func TestLookupDuration(t *testing.T) {
	cases := []struct {
		name     string
		estimate models.DurationEstimate
		scope    string
		want     float64
	}{
		{"flat", models.FlatDuration(90), "anything", 90},
		{"scoped hit", models.ScopedDuration(map[string]float64{"one_item": 30, "multiple_items": 120}), "one_item", 30},
		{"falls back to multiple_items", models.ScopedDuration(map[string]float64{"one_item": 30, "multiple_items": 120}), "piano", 120},
		{"falls back to one room", models.ScopedDuration(map[string]float64{"house_move_one_room": 180, "house_move_2_bedroom": 300}), "", 180},
		{"default 60", models.ScopedDuration(map[string]float64{"house_move_2_bedroom": 300}), "", 60},
		{"unset", models.DurationEstimate{}, "", 60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LookupDuration(models.PricingTier{DurationEstimateMins: tc.estimate}, tc.scope)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCalculateComponentCostLaborPerHourPerPerson(t *testing.T) {
	component := models.PricingComponent{
		Name:               "labour",
		PricingCombination: models.LaborPerHourPerPerson,
		Tiers: tiers(models.PricingTier{
			MinQuantity: 1, MaxQuantity: 10, Price: 50, DurationEstimateMins: models.FlatDuration(120),
		}),
	}

	line, err := CalculateComponentCost(component, 3, "")
	require.NoError(t, err)
	assert.Equal(t, 300.0, line.Cost)
	assert.Equal(t, 120.0, line.DurationMins)
}

func TestCalculateComponentCostShapes(t *testing.T) {
	tier := models.PricingTier{MinQuantity: 1, MaxQuantity: 10, Price: 40, DurationEstimateMins: models.FlatDuration(90)}
	cases := []struct {
		combination models.PricingCombination
		quantity    int
		want        float64
	}{
		{models.LaborPerMinutePerPerson, 2, 40 * 90 * 2},
		{models.LaborPerHourPerTeam, 4, 40 * 1.5},
		{models.ServicePerPerson, 3, 120},
		{models.ServicePerRoom, 2, 80},
		{models.ServiceFixedPrice, 5, 40},
		{models.ServicePerHour, 5, 60},
	}
	for _, tc := range cases {
		t.Run(string(tc.combination), func(t *testing.T) {
			c := models.PricingComponent{Name: "c", PricingCombination: tc.combination, Tiers: tiers(tier)}
			line, err := CalculateComponentCost(c, tc.quantity, "")
			require.NoError(t, err)
			assert.InDelta(t, tc.want, line.Cost, 1e-9)
		})
	}
}

func TestCalculateComponentCostRejectsTravelAndUnknown(t *testing.T) {
	tier := models.PricingTier{MinQuantity: 1, MaxQuantity: 10, Price: 1}
	for _, tag := range []models.PricingCombination{models.TravelPerKm, "LABOR_PER_FORTNIGHT"} {
		_, err := CalculateComponentCost(models.PricingComponent{Name: "x", PricingCombination: tag, Tiers: tiers(tier)}, 1, "")
		assert.ErrorIs(t, err, ErrUnsupportedCombination, string(tag))
	}
}

func TestCalculateServiceCostSkipsTravel(t *testing.T) {
	service := models.Service{
		ID:   "svc",
		Name: "Cleaning",
		PricingConfig: models.PricingConfig{Components: []models.PricingComponent{
			{Name: "clean", PricingCombination: models.ServicePerRoom, Tiers: tiers(models.PricingTier{MinQuantity: 1, MaxQuantity: 9, Price: 45, DurationEstimateMins: models.FlatDuration(45)})},
			{Name: "travel", PricingCombination: models.TravelPerKm, Tiers: tiers(models.PricingTier{MinQuantity: 1, MaxQuantity: 9, Price: 2})},
		}},
	}
	out, err := CalculateServiceCost(service, models.NormalizedQuoteRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Len(t, out.Components, 1)
	assert.Equal(t, 180.0, out.TotalCost)
	assert.Equal(t, 45.0, out.TotalDurationMins)
}

func TestCalculateServiceCostDurationIsLongestComponent(t *testing.T) {
	service := models.Service{
		ID:   "move",
		Name: "House move",
		PricingConfig: models.PricingConfig{Components: []models.PricingComponent{
			{Name: "movers", PricingCombination: models.LaborPerHourPerPerson, Tiers: tiers(models.PricingTier{MinQuantity: 1, MaxQuantity: 4, Price: 50, DurationEstimateMins: models.FlatDuration(120)})},
			{Name: "truck", PricingCombination: models.ServiceFixedPrice, Tiers: tiers(models.PricingTier{MinQuantity: 1, MaxQuantity: 4, Price: 90, DurationEstimateMins: models.FlatDuration(180)})},
		}},
	}
	out, err := CalculateServiceCost(service, models.NormalizedQuoteRequest{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 200.0+90.0, out.TotalCost)
	assert.Equal(t, 180.0, out.TotalDurationMins, "parallel components do not add up")

	service.PricingConfig.Components = []models.PricingComponent{
		{Name: "truck", PricingCombination: models.ServiceFixedPrice, Tiers: tiers(models.PricingTier{MinQuantity: 1, MaxQuantity: 4, Price: 90})},
	}
	service.EstimatedDurationMins = 0
	out, err = CalculateServiceCost(service, models.NormalizedQuoteRequest{Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 60.0, out.TotalDurationMins, "unset tier duration falls back to 60")
}

func TestFees(t *testing.T) {
	exclusive := models.FeePolicy{GSTRate: 10, PlatformFeePercentage: 2, MinimumCharge: 200}

	fees := CalculateFees(150, exclusive)
	assert.Equal(t, 15.0, fees.GSTAmount)
	assert.Equal(t, 3.0, fees.PlatformFee)
	assert.Zero(t, fees.PaymentProcessingFee)
	assert.Equal(t, 18.0, fees.TotalFees)

	total, applied := ApplyMinimumCharge(150+fees.TotalFees, exclusive)
	assert.True(t, applied)
	assert.Equal(t, 200.0, total)

	inclusive := models.FeePolicy{GSTRate: 10, PricesIncludeGST: true}
	fees = CalculateFees(110, inclusive)
	assert.Equal(t, 10.0, fees.GSTAmount)
	assert.Zero(t, fees.TotalFees)
	assert.Equal(t, 110.0, AddGSTIfRequired(110, inclusive))
	assert.Equal(t, 121.0, AddGSTIfRequired(110, models.FeePolicy{GSTRate: 10}))

	processing := models.FeePolicy{PaymentProcessingFeePercentage: 1.75}
	assert.Zero(t, CalculateFees(100, processing).PaymentProcessingFee)
	processing.ChargesDeposit = true
	assert.Equal(t, 2.0, CalculateFees(100, processing).PaymentProcessingFee)
}

func TestCalculateDeposit(t *testing.T) {
	assert.Zero(t, CalculateDeposit(500, models.FeePolicy{DepositType: models.DepositFixed, DepositFixedAmount: 50}))
	assert.Equal(t, 50.0, CalculateDeposit(500, models.FeePolicy{ChargesDeposit: true, DepositType: models.DepositFixed, DepositFixedAmount: 50}))
	assert.Equal(t, 125.0, CalculateDeposit(500, models.FeePolicy{ChargesDeposit: true, DepositType: models.DepositPercentage, DepositPercentage: 25}))
	assert.Zero(t, CalculateDeposit(500, models.FeePolicy{ChargesDeposit: true}))
}

func intPtr(v int) *int { return &v }

func TestNormalize(t *testing.T) {
	req := Normalize(models.QuoteRequestArgs{
		NumberOfRooms:    intPtr(3),
		NumberOfVehicles: intPtr(2),
		PickupAddress:    " 1 A St ",
		PickupAddresses:  []string{"1 A St", "2 B St", ""},
		DropoffAddresses: []string{"9 Z St"},
	})
	assert.Equal(t, 3, req.Quantity)
	assert.Equal(t, []string{"1 A St", "2 B St"}, req.Pickups)
	assert.Equal(t, []string{"9 Z St"}, req.Dropoffs)

	assert.Equal(t, 1, Normalize(models.QuoteRequestArgs{}).Quantity)
	assert.Equal(t, 4, Normalize(models.QuoteRequestArgs{Quantity: intPtr(4), NumberOfPeople: intPtr(9)}).Quantity)
}

func TestBuildAddresses(t *testing.T) {
	addrs := BuildAddresses("1 Depot Rd", models.NormalizedQuoteRequest{
		Pickups:  []string{"2 Pick St"},
		Dropoffs: []string{"3 Drop St"},
	}, "svc")
	require.Len(t, addrs, 3)
	assert.Equal(t, models.RoleBusinessBase, addrs[0].Role)
	assert.Equal(t, 0, addrs[0].SequenceOrder)
	assert.Empty(t, addrs[0].ServiceID)
	assert.Equal(t, models.RolePickup, addrs[1].Role)
	assert.Equal(t, models.RoleDropoff, addrs[2].Role)
	assert.Equal(t, 2, addrs[2].SequenceOrder)
	assert.Equal(t, "svc", addrs[2].ServiceID)
	assert.NotEmpty(t, addrs[1].ID)
}

func TestParseAddress(t *testing.T) {
	melbourne := models.Locale{City: "Melbourne", State: "VIC", Postcode: "3000", Country: "Australia"}

	got := ParseAddress("12 High St", melbourne)
	assert.Equal(t, models.ParsedAddress{Line1: "12 High St", City: "Melbourne", State: "VIC", Postcode: "3000", Country: "Australia"}, got)

	got = ParseAddress("12 High St, Fitzroy, VIC 3065", melbourne)
	assert.Equal(t, "Fitzroy", got.City)
	assert.Equal(t, "VIC", got.State)
	assert.Equal(t, "3065", got.Postcode)

	got = ParseAddress("12 Smith St, Fitzroy, VIC 3065, Australia", melbourne)
	assert.Equal(t, models.ParsedAddress{Line1: "12 Smith St", City: "Fitzroy", State: "VIC", Postcode: "3065", Country: "Australia"}, got)

	auckland := models.Locale{City: "Auckland", State: "AUK", Postcode: "1010", Country: "New Zealand"}
	got = ParseAddress("4 Queen St, Ponsonby", auckland)
	assert.Equal(t, "Ponsonby", got.City)
	assert.Equal(t, "AUK", got.State)
	assert.Equal(t, "New Zealand", got.Country)
}

func TestQuoteIDDescriptors(t *testing.T) {
	perPerson := models.Service{Name: "House Move!"}
	assert.Equal(t, "Q7-house-move-3person", QuoteID(7, perPerson, models.ServiceBreakdown{
		Quantity:   3,
		Components: []models.ComponentBreakdown{{PricingCombination: models.LaborPerHourPerPerson}},
	}))

	assert.Equal(t, "Q1-deep-clean-team2", QuoteID(1, models.Service{Name: "Deep Clean"}, models.ServiceBreakdown{
		Quantity:   2,
		Components: []models.ComponentBreakdown{{PricingCombination: models.LaborPerHourPerTeam}},
	}))

	tiered := models.Service{Name: "Haircut", PricingConfig: models.PricingConfig{Components: []models.PricingComponent{
		{Name: "cut", PricingCombination: models.ServiceFixedPrice, Tiers: tiers(models.PricingTier{MinQuantity: 1, MaxQuantity: 1}, models.PricingTier{MinQuantity: 2, MaxQuantity: 4})},
	}}}
	assert.Equal(t, "Q2-haircut-tier2", QuoteID(2, tiered, models.ServiceBreakdown{
		Quantity:   3,
		Components: []models.ComponentBreakdown{{Name: "cut", PricingCombination: models.ServiceFixedPrice, TierIndex: 1}},
	}))

	flat := models.Service{Name: "Tune"}
	assert.Equal(t, "Q3-tune-single", QuoteID(3, flat, models.ServiceBreakdown{Quantity: 1}))
	assert.Equal(t, "Q3-tune-2x", QuoteID(3, flat, models.ServiceBreakdown{Quantity: 2}))
}

func TestValidatePricingConfig(t *testing.T) {
	ok := models.PricingConfig{Components: []models.PricingComponent{
		{Name: "movers", PricingCombination: models.LaborPerHourPerPerson, Tiers: tiers(models.PricingTier{MinQuantity: 1, MaxQuantity: 4, Price: 50})},
		{Name: "travel", PricingCombination: models.TravelPerKm, Tiers: tiers(models.PricingTier{MinQuantity: 1, MaxQuantity: 4, Price: 2})},
	}}
	require.NoError(t, ValidatePricingConfig(ok))

	unknown := models.PricingConfig{Components: []models.PricingComponent{
		{Name: "x", PricingCombination: "LABOR_PER_FORTNIGHT", Tiers: tiers(models.PricingTier{MinQuantity: 1, MaxQuantity: 1})},
	}}
	assert.ErrorIs(t, ValidatePricingConfig(unknown), ErrUnsupportedCombination)

	empty := models.PricingConfig{Components: []models.PricingComponent{{Name: "x", PricingCombination: models.ServiceFixedPrice}}}
	assert.ErrorIs(t, ValidatePricingConfig(empty), ErrNoTierFound)

	inverted := models.PricingConfig{Components: []models.PricingComponent{
		{Name: "x", PricingCombination: models.ServiceFixedPrice, Tiers: tiers(models.PricingTier{MinQuantity: 5, MaxQuantity: 2})},
	}}
	assert.ErrorIs(t, ValidatePricingConfig(inverted), ErrNoTierFound)
}
