package availability

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"receptionist/models"
)

const (
	dateLayout         = "2006-01-02"
	DefaultDurationKey = "60"
	minutesPerDay      = 24 * 60
)

// ParseClock converts "HH:MM" into minutes from midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

func durationKey(mins int) string {
	return strconv.Itoa(mins)
}

// overlaps is the half-open interval test.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// fittingBucket is the exact bucket for durationMins, else the shortest bucket at least as long.
func fittingBucket(day models.DaySlots, durationMins int) (string, bool) {
	if durationMins <= 0 {
		return "", false
	}
	if _, ok := day[durationKey(durationMins)]; ok {
		return durationKey(durationMins), true
	}
	best := -1
	for key := range day {
		mins, err := strconv.Atoi(key)
		if err != nil || mins < durationMins {
			continue
		}
		if best == -1 || mins < best {
			best = mins
		}
	}
	if best == -1 {
		return "", false
	}
	return durationKey(best), true
}

// pickBucket chooses the bucket shown for a requested duration: the fitting bucket, else the
// default bucket, else the shortest bucket.
func pickBucket(day models.DaySlots, durationMins int) (string, bool) {
	if len(day) == 0 {
		return "", false
	}
	if key, ok := fittingBucket(day, durationMins); ok {
		return key, true
	}
	if _, ok := day[DefaultDurationKey]; ok {
		return DefaultDurationKey, true
	}
	keys := sortedKeys(day)
	return keys[0], true
}

func sortedKeys(day models.DaySlots) []string {
	keys := make([]string, 0, len(day))
	for k := range day {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})
	return keys
}

// CheckDayAvailability lists the open start times on date for a service duration.
// A missing table or date is reported as an unsuccessful result, not an error.
func CheckDayAvailability(slots *models.AvailabilitySlots, date string, durationMins int) models.DayAvailability {
	out := models.DayAvailability{Date: date, AvailableSlots: []models.SlotEntry{}}
	if slots == nil || slots.Slots == nil {
		out.Message = "No availability data found for this business"
		return out
	}
	day, ok := slots.Slots[date]
	if !ok {
		out.Message = fmt.Sprintf("No availability found for %s", date)
		return out
	}
	key, ok := pickBucket(day, durationMins)
	if !ok {
		out.Message = fmt.Sprintf("No availability found for %s", date)
		return out
	}
	out.DurationKey = key
	for _, e := range day[key] {
		if e.ProviderCount > 0 {
			out.AvailableSlots = append(out.AvailableSlots, e)
		}
	}
	if len(out.AvailableSlots) == 0 {
		out.Message = fmt.Sprintf("%s is fully booked", date)
		return out
	}
	out.Success = true
	out.Message = fmt.Sprintf("%d available times on %s", len(out.AvailableSlots), date)
	return out
}

// IsTimeAvailable reports whether a provider is free at clock on date for the whole duration.
// Unlike CheckDayAvailability there is no fallback: only a bucket at least as long as the
// duration can vouch for it.
func IsTimeAvailable(slots *models.AvailabilitySlots, date, clock string, durationMins int) bool {
	if slots == nil {
		return false
	}
	day, ok := slots.Slots[date]
	if !ok {
		return false
	}
	key, ok := fittingBucket(day, durationMins)
	if !ok {
		return false
	}
	for _, e := range day[key] {
		if e.Time == clock && e.ProviderCount > 0 {
			return true
		}
	}
	return false
}

// daySpan is the part of a booking that falls on one local date, in minutes from midnight.
type daySpan struct {
	date       string
	start, end int
}

// bookingSpans splits a booking at local midnights, in wall-clock minutes.
func bookingSpans(booking models.Booking, loc *time.Location) ([]daySpan, error) {
	if !booking.EndAt.After(booking.StartAt) {
		return nil, fmt.Errorf("booking %s ends before it starts", booking.ID)
	}
	start := booking.StartAt.In(loc)
	end := booking.EndAt.In(loc)
	endDate := end.Format(dateLayout)
	endClock := end.Hour()*60 + end.Minute()

	var spans []daySpan
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	from := start.Hour()*60 + start.Minute()
	for {
		date := day.Format(dateLayout)
		to := minutesPerDay
		if date == endDate {
			to = endClock
		}
		if to > from {
			spans = append(spans, daySpan{date: date, start: from, end: to})
		}
		if date >= endDate {
			return spans, nil
		}
		day = time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc)
		from = 0
	}
}

// UpdateAvailabilityAfterBooking returns a copy of slots with one provider removed from every
// slot, in every bucket, that overlaps the booking. Entries reaching zero are dropped; a bucket
// emptied this way stays as an empty array. A booking running past midnight also reduces the
// next date. Other dates are copied unchanged. The version is left as is; persisting the copy
// bumps it.
func UpdateAvailabilityAfterBooking(slots *models.AvailabilitySlots, booking models.Booking, loc *time.Location) (*models.AvailabilitySlots, error) {
	if slots == nil {
		return nil, ErrAvailabilityDataMissing
	}
	if loc == nil {
		loc = time.UTC
	}
	spans, err := bookingSpans(booking, loc)
	if err != nil {
		return nil, err
	}

	next := cloneSlots(slots)
	for _, span := range spans {
		day, ok := next.Slots[span.date]
		if !ok {
			continue
		}
		for key, entries := range day {
			bucketMins, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("invalid duration bucket %q on %s", key, span.date)
			}
			kept := make([]models.SlotEntry, 0, len(entries))
			for _, e := range entries {
				slotStart, err := ParseClock(e.Time)
				if err != nil {
					return nil, fmt.Errorf("bucket %s on %s: %w", key, span.date, err)
				}
				if overlaps(slotStart, slotStart+bucketMins, span.start, span.end) {
					e.ProviderCount--
				}
				if e.ProviderCount > 0 {
					kept = append(kept, e)
				}
			}
			day[key] = kept
		}
	}
	return next, nil
}

// ReleaseAvailability gives back the capacity UpdateAvailabilityAfterBooking took for booking.
// before is the table the reservation was computed from: every entry of it that overlaps the
// booking gains one provider in slots, re-added when it had been dropped, and never exceeds
// its count in before.
func ReleaseAvailability(slots, before *models.AvailabilitySlots, booking models.Booking, loc *time.Location) (*models.AvailabilitySlots, error) {
	if slots == nil || before == nil {
		return nil, ErrAvailabilityDataMissing
	}
	if loc == nil {
		loc = time.UTC
	}
	spans, err := bookingSpans(booking, loc)
	if err != nil {
		return nil, err
	}

	next := cloneSlots(slots)
	for _, span := range spans {
		prev, ok := before.Slots[span.date]
		if !ok {
			continue
		}
		day, ok := next.Slots[span.date]
		if !ok {
			day = models.DaySlots{}
			next.Slots[span.date] = day
		}
		for key, prevEntries := range prev {
			bucketMins, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("invalid duration bucket %q on %s", key, span.date)
			}
			entries := day[key]
			for _, p := range prevEntries {
				slotStart, err := ParseClock(p.Time)
				if err != nil {
					return nil, fmt.Errorf("bucket %s on %s: %w", key, span.date, err)
				}
				if !overlaps(slotStart, slotStart+bucketMins, span.start, span.end) {
					continue
				}
				entries = restoreEntry(entries, p)
			}
			sort.SliceStable(entries, func(a, b int) bool {
				ma, _ := ParseClock(entries[a].Time)
				mb, _ := ParseClock(entries[b].Time)
				return ma < mb
			})
			if entries == nil {
				entries = []models.SlotEntry{}
			}
			day[key] = entries
		}
	}
	return next, nil
}

// restoreEntry adds one provider at prev.Time, capped at prev's count.
func restoreEntry(entries []models.SlotEntry, prev models.SlotEntry) []models.SlotEntry {
	for i := range entries {
		if entries[i].Time != prev.Time {
			continue
		}
		if entries[i].ProviderCount < prev.ProviderCount {
			entries[i].ProviderCount++
		}
		return entries
	}
	return append(entries, models.SlotEntry{Time: prev.Time, ProviderCount: 1})
}

func cloneSlots(in *models.AvailabilitySlots) *models.AvailabilitySlots {
	out := &models.AvailabilitySlots{
		BusinessID: in.BusinessID,
		Version:    in.Version,
		UpdatedAt:  in.UpdatedAt,
		Slots:      make(map[string]models.DaySlots, len(in.Slots)),
	}
	for date, day := range in.Slots {
		copied := make(models.DaySlots, len(day))
		for key, entries := range day {
			copied[key] = append(make([]models.SlotEntry, 0, len(entries)), entries...)
		}
		out.Slots[date] = copied
	}
	return out
}

// GenerationParams shapes a freshly generated slot table.
type GenerationParams struct {
	Start        time.Time
	Days         int
	Durations    []int
	IntervalMins int
	Location     *time.Location
}

// ValidateCalendar checks every working window parses and ends after it starts.
func ValidateCalendar(cal models.ProviderCalendar) error {
	if cal.ProviderID == "" || cal.BusinessID == "" {
		return fmt.Errorf("%w: provider and business ids are required", ErrInvalidCalendar)
	}
	for day, windows := range cal.WorkingHours {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: unknown weekday %d", ErrInvalidCalendar, day)
		}
		for _, w := range windows {
			start, err := ParseClock(w.Start)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidCalendar, err)
			}
			end, err := ParseClock(w.End)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidCalendar, err)
			}
			if end <= start {
				return fmt.Errorf("%w: %s window %s-%s ends before it starts", ErrInvalidCalendar, day, w.Start, w.End)
			}
		}
	}
	return nil
}

// GenerateInitialBusinessAvailability counts, for each day, bucket and start time, the providers
// whose working hours fully cover the slot. A day with no working providers gets an empty array
// for every bucket.
func GenerateInitialBusinessAvailability(businessID string, calendars []models.ProviderCalendar, p GenerationParams) (*models.AvailabilitySlots, error) {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	interval := p.IntervalMins
	if interval <= 0 {
		interval = 30
	}

	type window struct{ start, end int }
	out := &models.AvailabilitySlots{
		BusinessID: businessID,
		Slots:      make(map[string]models.DaySlots, p.Days),
	}

	first := p.Start.In(loc)
	first = time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc)
	for d := 0; d < p.Days; d++ {
		date := first.AddDate(0, 0, d)
		weekday := date.Weekday()

		perProvider := make([][]window, 0, len(calendars))
		for _, cal := range calendars {
			var windows []window
			for _, w := range cal.WorkingHours[weekday] {
				s, err := ParseClock(w.Start)
				if err != nil {
					return nil, fmt.Errorf("provider %s: %w", cal.ProviderID, err)
				}
				e, err := ParseClock(w.End)
				if err != nil {
					return nil, fmt.Errorf("provider %s: %w", cal.ProviderID, err)
				}
				if e > s {
					windows = append(windows, window{s, e})
				}
			}
			if len(windows) > 0 {
				perProvider = append(perProvider, windows)
			}
		}

		day := make(models.DaySlots, len(p.Durations))
		for _, dur := range p.Durations {
			entries := []models.SlotEntry{}
			for t := 0; t+dur <= 24*60; t += interval {
				count := 0
				for _, windows := range perProvider {
					for _, w := range windows {
						if w.start <= t && t+dur <= w.end {
							count++
							break
						}
					}
				}
				if count > 0 {
					entries = append(entries, models.SlotEntry{Time: FormatClock(t), ProviderCount: count})
				}
			}
			day[durationKey(dur)] = entries
		}
		out.Slots[date.Format(dateLayout)] = day
	}
	return out, nil
}
