package availability

import "errors"

var (
	ErrAvailabilityDataMissing = errors.New("availability data missing")
	ErrSlotNoLongerAvailable   = errors.New("slot no longer available")
	ErrVersionConflict         = errors.New("availability was modified concurrently")
	ErrInvalidCalendar         = errors.New("invalid provider calendar")
)
