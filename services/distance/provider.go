package distance

import (
	"context"

	"receptionist/models"
)

// Status is the per-pair outcome reported by a distance lookup.
type Status string

const (
	StatusOK                     Status = "OK"
	StatusNotFound               Status = "NOT_FOUND"
	StatusZeroResults            Status = "ZERO_RESULTS"
	StatusMaxRouteLengthExceeded Status = "MAX_ROUTE_LENGTH_EXCEEDED"
	StatusOverQueryLimit         Status = "OVER_QUERY_LIMIT"
	StatusRequestDenied          Status = "REQUEST_DENIED"
	StatusInvalidRequest         Status = "INVALID_REQUEST"
	StatusUnknownError           Status = "UNKNOWN_ERROR"
)

// Request is one origin/destination pair.
type Request struct {
	Origin      string
	Destination string
	Units       string
}

// Result mirrors the Request at the same index.
type Result struct {
	DistanceKm   float64
	DurationMins float64
	Status       Status
}

// Provider returns distance and travel time for a batch of address pairs in one call.
// Results are positional; len(results) == len(requests) on success.
type Provider interface {
	BatchDistances(ctx context.Context, reqs []Request) ([]Result, error)
}

// Validator checks a free-text address against a region hint.
type Validator interface {
	ValidateAddress(ctx context.Context, address, region string) (*models.AddressValidation, error)
}
