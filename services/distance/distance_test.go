package distance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMockProviderIsDeterministic(t *testing.T) {
	p := NewMockProvider()
	reqs := []Request{
		{Origin: "1 Base St, Melbourne", Destination: "5 Smith St, Fitzroy"},
		{Origin: "5 Smith St, Fitzroy", Destination: "1 Base St, Melbourne"},
		{Origin: "5 Smith St, Fitzroy", Destination: "5  smith st, fitzroy"},
	}

	first, err := p.BatchDistances(context.Background(), reqs)
	require.NoError(t, err)
	second, err := p.BatchDistances(context.Background(), reqs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first[0], first[1], "pair should be symmetric")
	assert.Equal(t, StatusOK, first[0].Status)
	assert.GreaterOrEqual(t, first[0].DistanceKm, 2.0)
	assert.Less(t, first[0].DistanceKm, 40.0)
	assert.Zero(t, first[2].DistanceKm)
}

func TestGoogleProviderBatchesOneRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "A|B", r.URL.Query().Get("origins"))
		assert.Equal(t, "B|C", r.URL.Query().Get("destinations"))
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"rows": [
				{"elements": [
					{"status": "OK", "distance": {"value": 12000}, "duration": {"value": 1200}},
					{"status": "OK", "distance": {"value": 30000}, "duration": {"value": 2400}}
				]},
				{"elements": [
					{"status": "OK", "distance": {"value": 0}, "duration": {"value": 0}},
					{"status": "ZERO_RESULTS"}
				]}
			]
		}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider("k", zap.NewNop(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	res, err := p.BatchDistances(context.Background(), []Request{
		{Origin: "A", Destination: "B"},
		{Origin: "B", Destination: "C"},
	})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 1, calls)

	assert.InDelta(t, 12.0, res[0].DistanceKm, 1e-9)
	assert.InDelta(t, 20.0, res[0].DurationMins, 1e-9)
	assert.Equal(t, StatusZeroResults, res[1].Status)
}

func TestGoogleProviderTopLevelFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "bad key"}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider("k", zap.NewNop(), WithBaseURL(srv.URL))
	_, err := p.BatchDistances(context.Background(), []Request{{Origin: "A", Destination: "B"}})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "REQUEST_DENIED"))
}

func TestGoogleProviderRequiresKey(t *testing.T) {
	p := NewGoogleProvider("", zap.NewNop())
	_, err := p.BatchDistances(context.Background(), []Request{{Origin: "A", Destination: "B"}})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGoogleValidator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "au", r.URL.Query().Get("region"))
		_, _ = w.Write([]byte(`{"status": "OK", "results": [
			{"formatted_address": "5 Smith St, Fitzroy VIC 3065, Australia", "geometry": {"location_type": "ROOFTOP"}}
		]}`))
	}))
	defer srv.Close()

	v := NewGoogleValidator("k")
	v.baseURL = srv.URL

	out, err := v.ValidateAddress(context.Background(), "5 smith st fitzroy", "AU")
	require.NoError(t, err)
	assert.True(t, out.IsValid)
	assert.Equal(t, 1.0, out.Confidence)
	assert.Empty(t, out.Issues)
}
