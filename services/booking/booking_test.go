package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"receptionist/models"
	"receptionist/services/availability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryQuotes map[string]*models.QuoteResult

func (m memoryQuotes) Get(_ context.Context, callID string) (*models.QuoteResult, error) {
	q, ok := m[callID]
	if !ok {
		return nil, ErrQuoteNotFound
	}
	return q, nil
}

func (m memoryQuotes) Save(_ context.Context, callID string, q *models.QuoteResult) error {
	m[callID] = q
	return nil
}

func (m memoryQuotes) Clear(_ context.Context, callID string) error {
	delete(m, callID)
	return nil
}

type fixedCounter int64

func (c fixedCounter) Next(context.Context, string) (int64, error) { return int64(c), nil }

type staticBusinesses struct {
	business models.Business
	services map[string]models.Service
}

func (s staticBusinesses) GetBusiness(_ context.Context, id string) (*models.Business, error) {
	if id != s.business.ID {
		return nil, errors.New("not found")
	}
	b := s.business
	return &b, nil
}

func (s staticBusinesses) GetService(_ context.Context, id string) (*models.Service, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &svc, nil
}

type stubCalculator struct {
	calls int
}

func (c *stubCalculator) CalculateBooking(_ context.Context, _ models.QuoteRequestArgs, svc models.Service, biz models.Business, counter int64) (*models.QuoteResult, error) {
	c.calls++
	return &models.QuoteResult{
		QuoteID:                    "Q1-test",
		BusinessID:                 biz.ID,
		ServiceID:                  svc.ID,
		TotalEstimateAmount:        float64(100 * counter),
		TotalEstimateTimeInMinutes: 90,
	}, nil
}

type recordingReserver struct {
	err      error
	reserved []models.Booking
	released []*availability.Reservation
	loc      *time.Location
}

func (r *recordingReserver) Reserve(_ context.Context, b models.Booking, loc *time.Location) (*availability.Reservation, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.reserved = append(r.reserved, b)
	r.loc = loc
	return &availability.Reservation{Booking: b, Location: loc}, nil
}

func (r *recordingReserver) Release(_ context.Context, res *availability.Reservation) error {
	r.released = append(r.released, res)
	return nil
}

type memoryBookings struct {
	err     error
	saved   map[string]*models.Booking
	intents map[string]string
}

func newMemoryBookings() *memoryBookings {
	return &memoryBookings{saved: map[string]*models.Booking{}, intents: map[string]string{}}
}

func (m *memoryBookings) Insert(_ context.Context, b *models.Booking) error {
	if m.err != nil {
		return m.err
	}
	m.saved[b.ID] = b
	return nil
}

func (m *memoryBookings) SetDepositIntent(_ context.Context, id, intent string) error {
	m.intents[id] = intent
	return nil
}

type fakeDeposits struct {
	err      error
	currency string
}

func (f *fakeDeposits) RequestDeposit(_ context.Context, b *models.Booking, currency string) (*DepositIntent, error) {
	f.currency = currency
	if f.err != nil {
		return nil, f.err
	}
	return &DepositIntent{ID: "pi_" + b.ID, ClientSecret: "secret"}, nil
}

var testBusiness = models.Business{ID: "biz", Name: "Fast Movers", Timezone: "Australia/Melbourne", Currency: "AUD"}

func testQuote() *models.QuoteResult {
	return &models.QuoteResult{
		QuoteID:                    "Q7-house-move-2person",
		BusinessID:                 "biz",
		ServiceID:                  "svc",
		TotalEstimateAmount:        258,
		TotalEstimateTimeInMinutes: 160,
		DepositAmount:              51.6,
		RemainingBalance:           258,
		PriceBreakdown: models.PriceBreakdown{Travel: models.TravelBreakdown{
			RouteSegments: []models.RouteSegment{
				{From: "1 Pickup St", To: "2 Dropoff Rd", FromRole: models.RolePickup, ToRole: models.RoleDropoff},
			},
		}},
	}
}

func newBookingFixture() (*BookingService, memoryQuotes, *recordingReserver, *memoryBookings, *fakeDeposits) {
	quotes := memoryQuotes{"call-1": testQuote()}
	reserver := &recordingReserver{}
	repo := newMemoryBookings()
	deposits := &fakeDeposits{}
	svc := NewBookingService(quotes, staticBusinesses{business: testBusiness}, reserver, repo, deposits, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	return svc, quotes, reserver, repo, deposits
}

func TestConfirmBooking(t *testing.T) {
	svc, quotes, reserver, repo, deposits := newBookingFixture()
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	b, err := svc.Confirm(context.Background(), models.ConfirmBookingInput{
		CallID:       "call-1",
		StartAt:      start,
		CustomerName: "Sam",
	})
	require.NoError(t, err)

	assert.Equal(t, start.Add(160*time.Minute), b.EndAt)
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, "pi_"+b.ID, b.DepositPaymentIntentID)
	assert.Equal(t, "AUD", deposits.currency)
	assert.Equal(t, "pi_"+b.ID, repo.intents[b.ID])
	assert.Contains(t, repo.saved, b.ID)
	require.Len(t, reserver.reserved, 1)
	assert.Equal(t, "Australia/Melbourne", reserver.loc.String())
	require.Len(t, b.Addresses, 2)
	assert.Equal(t, models.RolePickup, b.Addresses[0].Role)
	assert.NotContains(t, quotes, "call-1", "quote is consumed")
}

func TestConfirmWithoutDeposit(t *testing.T) {
	svc, quotes, _, repo, _ := newBookingFixture()
	quotes["call-1"].DepositAmount = 0

	b, err := svc.Confirm(context.Background(), models.ConfirmBookingInput{
		CallID:       "call-1",
		StartAt:      time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		CustomerName: "Sam",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Empty(t, repo.intents)
}

func TestConfirmSlotTaken(t *testing.T) {
	svc, quotes, reserver, repo, _ := newBookingFixture()
	reserver.err = availability.ErrSlotNoLongerAvailable

	_, err := svc.Confirm(context.Background(), models.ConfirmBookingInput{
		CallID:       "call-1",
		StartAt:      time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		CustomerName: "Sam",
	})
	assert.ErrorIs(t, err, availability.ErrSlotNoLongerAvailable)
	assert.Empty(t, repo.saved)
	assert.Contains(t, quotes, "call-1", "quote kept so the caller can pick another time")
}

func TestConfirmDepositFailure(t *testing.T) {
	svc, _, _, repo, deposits := newBookingFixture()
	deposits.err = errors.New("card network down")

	b, err := svc.Confirm(context.Background(), models.ConfirmBookingInput{
		CallID:       "call-1",
		StartAt:      time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		CustomerName: "Sam",
	})
	var depErr *DepositError
	require.ErrorAs(t, err, &depErr)
	require.NotNil(t, b)
	assert.Equal(t, b.ID, depErr.BookingID)
	assert.Contains(t, repo.saved, b.ID)
}

func TestConfirmRejectsPastStart(t *testing.T) {
	svc, _, reserver, _, _ := newBookingFixture()
	_, err := svc.Confirm(context.Background(), models.ConfirmBookingInput{
		CallID:       "call-1",
		StartAt:      time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
		CustomerName: "Sam",
	})
	assert.ErrorIs(t, err, ErrInvalidStartTime)
	assert.Empty(t, reserver.reserved)
}

func TestConfirmUnknownCall(t *testing.T) {
	svc, _, _, _, _ := newBookingFixture()
	_, err := svc.Confirm(context.Background(), models.ConfirmBookingInput{CallID: "nope", StartAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestCreateQuote(t *testing.T) {
	quotes := memoryQuotes{}
	calc := &stubCalculator{}
	businesses := staticBusinesses{
		business: testBusiness,
		services: map[string]models.Service{
			"svc":   {ID: "svc", BusinessID: "biz"},
			"other": {ID: "other", BusinessID: "someone-else"},
		},
	}
	svc := NewQuoteService(businesses, calc, quotes, fixedCounter(3), zap.NewNop())

	q, err := svc.CreateQuote(context.Background(), QuoteInput{CallID: "c", BusinessID: "biz", ServiceID: "svc"})
	require.NoError(t, err)
	assert.Equal(t, 300.0, q.TotalEstimateAmount)

	stored, err := svc.GetQuote(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, q, stored)

	_, err = svc.CreateQuote(context.Background(), QuoteInput{CallID: "c", BusinessID: "biz", ServiceID: "other"})
	assert.ErrorIs(t, err, ErrServiceMismatch)
	assert.Equal(t, 1, calc.calls)
}

func TestConfirmReleasesSlotWhenSaveFails(t *testing.T) {
	svc, quotes, reserver, repo, deposits := newBookingFixture()
	repo.err = errors.New("write concern timeout")

	_, err := svc.Confirm(context.Background(), models.ConfirmBookingInput{
		CallID:       "call-1",
		StartAt:      time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		CustomerName: "Sam",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.err)

	require.Len(t, reserver.reserved, 1)
	require.Len(t, reserver.released, 1)
	assert.Equal(t, reserver.reserved[0].ID, reserver.released[0].Booking.ID)
	assert.Empty(t, repo.saved)
	assert.Empty(t, deposits.currency, "no deposit requested")
	assert.Contains(t, quotes, "call-1", "quote kept for a retry")
}
