package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultMatrixURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

var ErrMissingAPIKey = errors.New("distance: google api key not configured")

// matrixResponse is the subset of the Distance Matrix payload we read.
type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"` // metres
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"` // seconds
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// GoogleProvider resolves distances with the Google Distance Matrix API.
type GoogleProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// Option configures a GoogleProvider.
type Option func(*GoogleProvider)

// WithBaseURL points the provider at a different endpoint.
func WithBaseURL(u string) Option {
	return func(p *GoogleProvider) {
		p.baseURL = u
	}
}

// WithHTTPClient overrides the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *GoogleProvider) {
		p.client = c
	}
}

func NewGoogleProvider(apiKey string, logger *zap.Logger, opts ...Option) *GoogleProvider {
	p := &GoogleProvider{
		apiKey:  apiKey,
		baseURL: defaultMatrixURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BatchDistances issues a single matrix request covering every pair.
func (p *GoogleProvider) BatchDistances(ctx context.Context, reqs []Request) ([]Result, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	origins, originIdx := uniqueIndex(reqs, func(r Request) string { return r.Origin })
	destinations, destIdx := uniqueIndex(reqs, func(r Request) string { return r.Destination })

	units := reqs[0].Units
	if units == "" {
		units = "metric"
	}
	q := url.Values{}
	q.Set("origins", strings.Join(origins, "|"))
	q.Set("destinations", strings.Join(destinations, "|"))
	q.Set("units", units)
	q.Set("key", p.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("distance: build request: %w", err)
	}
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("distance: matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("distance: matrix request returned http %d", resp.StatusCode)
	}

	var matrix matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&matrix); err != nil {
		return nil, fmt.Errorf("distance: decode matrix response: %w", err)
	}
	if Status(matrix.Status) != StatusOK {
		p.logger.Warn("distance matrix rejected request",
			zap.String("status", matrix.Status),
			zap.String("error", matrix.ErrorMessage))
		return nil, fmt.Errorf("distance: matrix status %s: %s", matrix.Status, matrix.ErrorMessage)
	}

	results := make([]Result, len(reqs))
	for i, r := range reqs {
		oi, di := originIdx[r.Origin], destIdx[r.Destination]
		if oi >= len(matrix.Rows) || di >= len(matrix.Rows[oi].Elements) {
			results[i] = Result{Status: StatusUnknownError}
			continue
		}
		el := matrix.Rows[oi].Elements[di]
		results[i] = Result{
			DistanceKm:   el.Distance.Value / 1000,
			DurationMins: el.Duration.Value / 60,
			Status:       Status(el.Status),
		}
	}
	return results, nil
}

func uniqueIndex(reqs []Request, key func(Request) string) ([]string, map[string]int) {
	var out []string
	idx := make(map[string]int, len(reqs))
	for _, r := range reqs {
		k := key(r)
		if _, ok := idx[k]; ok {
			continue
		}
		idx[k] = len(out)
		out = append(out, k)
	}
	return out, idx
}
