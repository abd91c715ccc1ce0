package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// SlotEntry is a start time and the number of providers free for it.
// On the wire it is the pair ["10:00", 2].
type SlotEntry struct {
	Time          string
	ProviderCount int
}

func (e SlotEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{e.Time, e.ProviderCount})
}

func (e *SlotEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("slot entry: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("slot entry: expected [time, count], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Time); err != nil {
		return fmt.Errorf("slot entry time: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.ProviderCount); err != nil {
		return fmt.Errorf("slot entry count: %w", err)
	}
	return nil
}

func (e SlotEntry) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(bson.A{e.Time, int32(e.ProviderCount)})
}

func (e *SlotEntry) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t != bson.TypeArray {
		return fmt.Errorf("slot entry: unsupported bson type %s", t)
	}
	values, err := bson.RawValue{Type: t, Value: data}.Array().Values()
	if err != nil {
		return fmt.Errorf("slot entry: %w", err)
	}
	if len(values) != 2 {
		return fmt.Errorf("slot entry: expected [time, count], got %d elements", len(values))
	}
	timeStr, ok := values[0].StringValueOK()
	if !ok {
		return fmt.Errorf("slot entry: time is not a string")
	}
	e.Time = timeStr
	switch values[1].Type {
	case bson.TypeInt32:
		e.ProviderCount = int(values[1].Int32())
	case bson.TypeInt64:
		e.ProviderCount = int(values[1].Int64())
	case bson.TypeDouble:
		e.ProviderCount = int(values[1].Double())
	default:
		return fmt.Errorf("slot entry: count has bson type %s", values[1].Type)
	}
	return nil
}

// DaySlots maps a duration key ("30", "60", ...) to its slot bucket.
type DaySlots map[string][]SlotEntry

// AvailabilitySlots is a business's open capacity, by date then duration bucket.
type AvailabilitySlots struct {
	BusinessID string              `bson:"business_id" json:"business_id"`
	Slots      map[string]DaySlots `bson:"slots" json:"slots"`
	Version    int                 `bson:"version" json:"version"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`
}

// DayAvailability answers "what is open on this day for this duration".
type DayAvailability struct {
	Success        bool        `json:"success"`
	Date           string      `json:"date"`
	DurationKey    string      `json:"duration_key,omitempty"`
	AvailableSlots []SlotEntry `json:"available_slots"`
	Message        string      `json:"message"`
}

// WorkingWindow is a provider's working interval on a weekday, "HH:MM" bounds.
type WorkingWindow struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// ProviderCalendar is the working-hours definition used to seed availability.
type ProviderCalendar struct {
	ProviderID   string                           `bson:"provider_id" json:"provider_id"`
	BusinessID   string                           `bson:"business_id" json:"business_id"`
	WorkingHours map[time.Weekday][]WorkingWindow `bson:"working_hours" json:"working_hours"`
}
