package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pinmap/platform/logger"
)

// DefaultGoogleURL is the Google Maps Platform base URL.
const DefaultGoogleURL = "https://maps.googleapis.com"

// GoogleProvider reverse-geocodes with the Google Geocoding API.
type GoogleProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     *logger.Logger
}

// NewGoogleProvider creates a Google provider. An empty baseURL uses DefaultGoogleURL.
func NewGoogleProvider(baseURL, apiKey string, log *logger.Logger) *GoogleProvider {
	if baseURL == "" {
		baseURL = DefaultGoogleURL
	}
	return &GoogleProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		log:     log,
	}
}

// Name identifies the provider in logs.
func (p *GoogleProvider) Name() string {
	return "google"
}

// Reverse looks up addresses for the coordinates.
func (p *GoogleProvider) Reverse(ctx context.Context, lat, lng float64) ([]Result, error) {
	params := url.Values{}
	params.Set("latlng", formatFloat(lat)+","+formatFloat(lng))
	params.Set("key", p.apiKey)

	reqURL := fmt.Sprintf("%s/maps/api/geocode/json?%s", p.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google geocode request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		p.log.Error("google geocode upstream error", "status", resp.StatusCode)
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var payload googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode google geocode payload: %w", err)
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrNoResults
	default:
		return nil, fmt.Errorf("google geocode status %s: %s", payload.Status, payload.ErrorMessage)
	}

	results := make([]Result, 0, len(payload.Results))
	for _, raw := range payload.Results {
		results = append(results, Result{FormattedAddress: raw.FormattedAddress, Types: raw.Types})
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	return results, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
