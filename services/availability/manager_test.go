package availability

import (
	"testing"
	"time"

	"receptionist/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func e(clock string, count int) models.SlotEntry {
	return models.SlotEntry{Time: clock, ProviderCount: count}
}

func bookingAt(date, clock string, mins int) models.Booking {
	start, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		panic(err)
	}
	return models.Booking{ID: "b", StartAt: start, EndAt: start.Add(time.Duration(mins) * time.Minute)}
}

func TestSingleProviderSlotRemoved(t *testing.T) {
	slots := &models.AvailabilitySlots{Slots: map[string]models.DaySlots{
		"2025-03-03": {"60": {e("14:00", 1)}},
	}}

	next, err := UpdateAvailabilityAfterBooking(slots, bookingAt("2025-03-03", "14:00", 60), time.UTC)
	require.NoError(t, err)
	assert.Empty(t, next.Slots["2025-03-03"]["60"])
	assert.NotNil(t, next.Slots["2025-03-03"]["60"], "exhausted bucket stays an empty array")
	assert.Equal(t, []models.SlotEntry{e("14:00", 1)}, slots.Slots["2025-03-03"]["60"], "input untouched")
}

func TestTwoProvidersDecrementThenRemove(t *testing.T) {
	slots := &models.AvailabilitySlots{Slots: map[string]models.DaySlots{
		"2025-03-03": {"60": {e("10:00", 2)}},
	}}
	b := bookingAt("2025-03-03", "10:00", 60)

	once, err := UpdateAvailabilityAfterBooking(slots, b, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []models.SlotEntry{e("10:00", 1)}, once.Slots["2025-03-03"]["60"])

	twice, err := UpdateAvailabilityAfterBooking(once, b, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, twice.Slots["2025-03-03"]["60"])
}

func TestCrossBucketInvalidation(t *testing.T) {
	date := "2025-03-04"
	slots := &models.AvailabilitySlots{Slots: map[string]models.DaySlots{
		date: {
			"30":  {e("07:00", 2), e("09:30", 2), e("10:00", 2), e("11:30", 2), e("12:00", 2), e("16:00", 2)},
			"60":  {e("07:00", 2), e("09:00", 2), e("11:00", 2), e("12:00", 2), e("16:00", 2)},
			"90":  {e("07:00", 1), e("08:30", 1), e("09:00", 1), e("11:30", 1), e("16:00", 1)},
			"120": {e("07:00", 2), e("10:00", 2), e("16:00", 2)},
		},
		"2025-03-05": {
			"60": {e("10:00", 2)},
		},
	}}

	next, err := UpdateAvailabilityAfterBooking(slots, bookingAt(date, "10:00", 120), time.UTC)
	require.NoError(t, err)

	day := next.Slots[date]
	assert.Equal(t, []models.SlotEntry{e("07:00", 2), e("09:30", 2), e("10:00", 1), e("11:30", 1), e("12:00", 2), e("16:00", 2)}, day["30"])
	assert.Equal(t, []models.SlotEntry{e("07:00", 2), e("09:00", 2), e("11:00", 1), e("12:00", 2), e("16:00", 2)}, day["60"])
	assert.Equal(t, []models.SlotEntry{e("07:00", 1), e("08:30", 1), e("16:00", 1)}, day["90"])
	assert.Equal(t, []models.SlotEntry{e("07:00", 2), e("10:00", 1), e("16:00", 2)}, day["120"])

	assert.Equal(t, slots.Slots["2025-03-05"], next.Slots["2025-03-05"], "other days untouched")
}

func TestNoZeroCountsSurvive(t *testing.T) {
	slots := &models.AvailabilitySlots{Slots: map[string]models.DaySlots{
		"2025-03-03": {
			"30": {e("09:00", 1), e("09:30", 1), e("10:00", 3)},
			"60": {e("09:00", 1), e("10:00", 1)},
		},
	}}
	next, err := UpdateAvailabilityAfterBooking(slots, bookingAt("2025-03-03", "09:00", 90), time.UTC)
	require.NoError(t, err)
	for key, entries := range next.Slots["2025-03-03"] {
		for _, entry := range entries {
			assert.Greater(t, entry.ProviderCount, 0, "bucket %s time %s", key, entry.Time)
		}
	}
	assert.Equal(t, []models.SlotEntry{e("10:00", 2)}, next.Slots["2025-03-03"]["30"])
}

func TestFullExhaustion(t *testing.T) {
	date := "2025-03-03"
	slots := &models.AvailabilitySlots{Slots: map[string]models.DaySlots{
		date: {"60": {e("09:00", 1), e("10:00", 1), e("11:00", 1)}},
	}}
	var err error
	for _, clock := range []string{"09:00", "10:00", "11:00"} {
		slots, err = UpdateAvailabilityAfterBooking(slots, bookingAt(date, clock, 60), time.UTC)
		require.NoError(t, err)
	}
	bucket, ok := slots.Slots[date]["60"]
	require.True(t, ok)
	assert.NotNil(t, bucket)
	assert.Len(t, bucket, 0)
}

func TestUpdateUsesBusinessTimezone(t *testing.T) {
	melbourne, err := time.LoadLocation("Australia/Melbourne")
	require.NoError(t, err)

	slots := &models.AvailabilitySlots{Slots: map[string]models.DaySlots{
		"2025-03-03": {"60": {e("10:00", 1)}},
	}}
	start := time.Date(2025, 3, 3, 10, 0, 0, 0, melbourne).UTC()
	b := models.Booking{StartAt: start, EndAt: start.Add(time.Hour)}

	next, err := UpdateAvailabilityAfterBooking(slots, b, melbourne)
	require.NoError(t, err)
	assert.Empty(t, next.Slots["2025-03-03"]["60"])
}

func TestUpdateRequiresTable(t *testing.T) {
	_, err := UpdateAvailabilityAfterBooking(nil, bookingAt("2025-03-03", "10:00", 60), time.UTC)
	assert.ErrorIs(t, err, ErrAvailabilityDataMissing)
}

func TestCheckDayAvailability(t *testing.T) {
	slots := &models.AvailabilitySlots{Slots: map[string]models.DaySlots{
		"2025-03-03": {
			"30":  {e("09:00", 2), e("09:30", 1)},
			"60":  {e("09:00", 1)},
			"120": {},
		},
	}}

	res := CheckDayAvailability(slots, "2025-03-03", 30)
	assert.True(t, res.Success)
	assert.Equal(t, "30", res.DurationKey)
	assert.Len(t, res.AvailableSlots, 2)

	res = CheckDayAvailability(slots, "2025-03-03", 45)
	assert.Equal(t, "60", res.DurationKey, "shortest bucket that fits")

	res = CheckDayAvailability(slots, "2025-03-03", 0)
	assert.Equal(t, DefaultDurationKey, res.DurationKey)

	res = CheckDayAvailability(slots, "2025-03-03", 120)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "fully booked")

	res = CheckDayAvailability(slots, "2025-03-04", 60)
	assert.False(t, res.Success)
	assert.Empty(t, res.AvailableSlots)

	res = CheckDayAvailability(nil, "2025-03-04", 60)
	assert.False(t, res.Success)

	assert.True(t, IsTimeAvailable(slots, "2025-03-03", "09:30", 30))
	assert.False(t, IsTimeAvailable(slots, "2025-03-03", "09:30", 60))
}

func TestGenerateInitialBusinessAvailability(t *testing.T) {
	// 2025-03-03 is a Monday
	calendars := []models.ProviderCalendar{
		{ProviderID: "p1", WorkingHours: map[time.Weekday][]models.WorkingWindow{
			time.Monday: {{Start: "09:00", End: "12:00"}},
		}},
		{ProviderID: "p2", WorkingHours: map[time.Weekday][]models.WorkingWindow{
			time.Monday:  {{Start: "10:00", End: "11:00"}},
			time.Tuesday: {{Start: "13:00", End: "14:00"}},
		}},
	}

	out, err := GenerateInitialBusinessAvailability("biz", calendars, GenerationParams{
		Start:        time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC),
		Days:         3,
		Durations:    []int{60, 120},
		IntervalMins: 60,
	})
	require.NoError(t, err)
	require.Len(t, out.Slots, 3)

	monday := out.Slots["2025-03-03"]
	assert.Equal(t, []models.SlotEntry{e("09:00", 1), e("10:00", 2), e("11:00", 1)}, monday["60"])
	assert.Equal(t, []models.SlotEntry{e("09:00", 1), e("10:00", 1)}, monday["120"])

	tuesday := out.Slots["2025-03-04"]
	assert.Equal(t, []models.SlotEntry{e("13:00", 1)}, tuesday["60"])
	assert.Equal(t, []models.SlotEntry{}, tuesday["120"])

	wednesday, ok := out.Slots["2025-03-05"]
	require.True(t, ok)
	assert.Equal(t, []models.SlotEntry{}, wednesday["60"])
	assert.Equal(t, []models.SlotEntry{}, wednesday["120"])
}

func TestClock(t *testing.T) {
	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)
	assert.Equal(t, "09:30", FormatClock(570))

	_, err = ParseClock("9h30")
	assert.Error(t, err)
}

func TestValidateCalendar(t *testing.T) {
	cal := models.ProviderCalendar{
		ProviderID: "p1",
		BusinessID: "biz",
		WorkingHours: map[time.Weekday][]models.WorkingWindow{
			time.Monday: {{Start: "09:00", End: "12:00"}, {Start: "13:00", End: "17:00"}},
		},
	}
	require.NoError(t, ValidateCalendar(cal))

	cal.WorkingHours[time.Tuesday] = []models.WorkingWindow{{Start: "17:00", End: "09:00"}}
	assert.ErrorIs(t, ValidateCalendar(cal), ErrInvalidCalendar)

	cal.WorkingHours[time.Tuesday] = []models.WorkingWindow{{Start: "9am", End: "17:00"}}
	assert.ErrorIs(t, ValidateCalendar(cal), ErrInvalidCalendar)

	assert.ErrorIs(t, ValidateCalendar(models.ProviderCalendar{BusinessID: "biz"}), ErrInvalidCalendar)
}

func TestIsTimeAvailableNeedsLongEnoughBucket(t *testing.T) {
	// one provider, Monday 10:00-11:00
	calendars := []models.ProviderCalendar{
		{ProviderID: "p1", WorkingHours: map[time.Weekday][]models.WorkingWindow{
			time.Monday: {{Start: "10:00", End: "11:00"}},
		}},
	}
	slots, err := GenerateInitialBusinessAvailability("biz", calendars, GenerationParams{
		Start:        time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Days:         1,
		Durations:    []int{30, 60, 90, 120, 180, 240},
		IntervalMins: 30,
	})
	require.NoError(t, err)

	assert.True(t, IsTimeAvailable(slots, "2025-03-03", "10:00", 60))
	assert.False(t, IsTimeAvailable(slots, "2025-03-03", "10:00", 150))
	assert.False(t, IsTimeAvailable(slots, "2025-03-03", "10:00", 300))
	assert.False(t, IsTimeAvailable(slots, "2025-03-03", "10:00", 0))

	// browsing still falls back to a shorter bucket
	res := CheckDayAvailability(slots, "2025-03-03", 300)
	assert.Equal(t, DefaultDurationKey, res.DurationKey)
}

func TestUpdateCrossesMidnight(t *testing.T) {
	slots := &models.AvailabilitySlots{Slots: map[string]models.DaySlots{
		"2025-03-03": {"60": {e("22:00", 1), e("23:00", 1)}},
		"2025-03-04": {"60": {e("00:00", 1), e("01:00", 1)}, "120": {e("00:00", 1)}},
	}}

	next, err := UpdateAvailabilityAfterBooking(slots, bookingAt("2025-03-03", "23:00", 120), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []models.SlotEntry{e("22:00", 1)}, next.Slots["2025-03-03"]["60"])
	assert.Equal(t, []models.SlotEntry{e("01:00", 1)}, next.Slots["2025-03-04"]["60"])
	assert.Empty(t, next.Slots["2025-03-04"]["120"])

	// ending exactly at midnight leaves the next day alone
	next, err = UpdateAvailabilityAfterBooking(slots, bookingAt("2025-03-03", "23:00", 60), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []models.SlotEntry{e("00:00", 1), e("01:00", 1)}, next.Slots["2025-03-04"]["60"])
}

func TestReleaseAvailabilityRestoresReservedSlots(t *testing.T) {
	before := &models.AvailabilitySlots{Slots: map[string]models.DaySlots{
		"2025-03-03": {
			"30": {e("09:30", 1), e("10:00", 2), e("10:30", 1)},
			"60": {e("09:00", 1), e("10:00", 1), e("11:00", 1)},
		},
	}}
	b := bookingAt("2025-03-03", "10:00", 60)

	after, err := UpdateAvailabilityAfterBooking(before, b, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []models.SlotEntry{e("09:00", 1), e("11:00", 1)}, after.Slots["2025-03-03"]["60"])

	restored, err := ReleaseAvailability(after, before, b, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, before.Slots, restored.Slots)

	// releasing twice never exceeds the original counts
	again, err := ReleaseAvailability(restored, before, b, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, before.Slots, again.Slots)

	_, err = ReleaseAvailability(after, nil, b, time.UTC)
	assert.ErrorIs(t, err, ErrAvailabilityDataMissing)
}
