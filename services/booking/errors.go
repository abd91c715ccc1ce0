package booking

import (
	"errors"
	"fmt"
)

var (
	ErrQuoteNotFound    = errors.New("no quote found for this call")
	ErrServiceMismatch  = errors.New("service does not belong to business")
	ErrInvalidStartTime = errors.New("booking start time is in the past")
)

// DepositError reports that a booking was stored but the deposit request failed.
type DepositError struct {
	BookingID string
	Err       error
}

func (e *DepositError) Error() string {
	return fmt.Sprintf("booking %s created but deposit request failed: %v", e.BookingID, e.Err)
}

func (e *DepositError) Unwrap() error { return e.Err }
