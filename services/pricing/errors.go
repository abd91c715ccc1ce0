package pricing

import (
	"errors"
	"fmt"

	"receptionist/models"
)

var (
	ErrNoTierFound            = errors.New("no pricing tier found")
	ErrUnsupportedCombination = errors.New("unsupported pricing combination")
	ErrNoTravelModel          = errors.New("no travel charging model resolvable")
	ErrDistanceProvider       = errors.New("distance provider failure")
)

// TierError reports a quantity outside every tier of a component.
type TierError struct {
	Component string
	Quantity  int
}

func (e *TierError) Error() string {
	return fmt.Sprintf("%s: component %q has no tier for quantity %d", ErrNoTierFound, e.Component, e.Quantity)
}

func (e *TierError) Unwrap() error { return ErrNoTierFound }

// CombinationError reports a pricing tag the calculator cannot price.
type CombinationError struct {
	Component   string
	Combination models.PricingCombination
}

func (e *CombinationError) Error() string {
	return fmt.Sprintf("%s: %q on component %q", ErrUnsupportedCombination, e.Combination, e.Component)
}

func (e *CombinationError) Unwrap() error { return ErrUnsupportedCombination }

// CalculationError wraps any failure that prevented a quote from being produced.
type CalculationError struct {
	Cause error
}

func (e *CalculationError) Error() string {
	return "booking calculation failed: " + e.Cause.Error()
}

func (e *CalculationError) Unwrap() error { return e.Cause }
