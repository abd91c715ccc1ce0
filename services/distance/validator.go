package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"receptionist/models"
)

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

var locationConfidence = map[string]float64{
	"ROOFTOP":            1.0,
	"RANGE_INTERPOLATED": 0.8,
	"GEOMETRIC_CENTER":   0.6,
	"APPROXIMATE":        0.4,
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		PartialMatch     bool   `json:"partial_match"`
		Geometry         struct {
			LocationType string `json:"location_type"`
		} `json:"geometry"`
	} `json:"results"`
}

// GoogleValidator validates addresses with the Geocoding API.
type GoogleValidator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGoogleValidator(apiKey string) *GoogleValidator {
	return &GoogleValidator{
		apiKey:  apiKey,
		baseURL: defaultGeocodeURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *GoogleValidator) ValidateAddress(ctx context.Context, address, region string) (*models.AddressValidation, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return &models.AddressValidation{Issues: []string{"address is empty"}}, nil
	}
	if v.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("address", address)
	if region != "" {
		q.Set("region", strings.ToLower(region))
	}
	q.Set("key", v.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer resp.Body.Close()

	var data geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("geocode: decode response: %w", err)
	}

	switch Status(data.Status) {
	case StatusOK:
		if len(data.Results) == 0 {
			return &models.AddressValidation{Issues: []string{"address not found"}}, nil
		}
	case StatusZeroResults:
		return &models.AddressValidation{Issues: []string{"address not found"}}, nil
	default:
		return nil, fmt.Errorf("geocode: status %s", data.Status)
	}

	best := data.Results[0]
	out := &models.AddressValidation{
		IsValid:          true,
		FormattedAddress: best.FormattedAddress,
		Confidence:       locationConfidence[best.Geometry.LocationType],
	}
	if best.PartialMatch {
		out.Issues = append(out.Issues, "partial match")
		out.Confidence /= 2
	}
	if len(data.Results) > 1 {
		out.Issues = append(out.Issues, "ambiguous address")
	}
	if out.Confidence < 0.5 {
		out.IsValid = false
	}
	return out, nil
}
