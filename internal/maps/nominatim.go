package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pinmap/platform/logger"

	"golang.org/x/time/rate"
)

// DefaultNominatimURL is the public OSM Nominatim instance.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimProvider reverse-geocodes with OpenStreetMap Nominatim. The public
// instance allows at most one request per second, so calls wait on a limiter.
type NominatimProvider struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	log       *logger.Logger
}

// NewNominatimProvider creates a Nominatim provider. An empty baseURL uses DefaultNominatimURL.
func NewNominatimProvider(baseURL, userAgent string, log *logger.Logger) *NominatimProvider {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if userAgent == "" {
		userAgent = "pinmap/1.0"
	}
	return &NominatimProvider{
		client:    &http.Client{Timeout: 5 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		log:       log,
	}
}

// Name identifies the provider in logs.
func (p *NominatimProvider) Name() string {
	return "nominatim"
}

// Reverse looks up the address closest to the coordinates.
func (p *NominatimProvider) Reverse(ctx context.Context, lat, lng float64) ([]Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Add("lat", formatFloat(lat))
	params.Add("lon", formatFloat(lng))
	params.Add("format", "jsonv2")
	params.Add("addressdetails", "1")

	reqURL := fmt.Sprintf("%s/reverse?%s", p.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		p.log.Error("nominatim upstream error", "status", resp.StatusCode)
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var raw nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode nominatim payload: %w", err)
	}

	// Nominatim answers 200 with an error body when nothing is nearby.
	if raw.Error != "" {
		return nil, ErrNoResults
	}

	result, ok := buildResult(raw)
	if !ok {
		return nil, ErrNoResults
	}

	return []Result{result}, nil
}

func buildResult(raw nominatimResponse) (Result, bool) {
	if raw.Address.Road != "" && raw.Address.HouseNumber != "" {
		if label := buildLabel(raw.Address); label != "" {
			return Result{FormattedAddress: label, Types: []string{StreetAddressType, raw.AddressType}}, true
		}
	}

	display := strings.TrimSpace(raw.DisplayName)
	if display == "" {
		return Result{}, false
	}

	var types []string
	if raw.AddressType != "" {
		types = []string{raw.AddressType}
	}
	return Result{FormattedAddress: display, Types: types}, true
}

func pickCity(address nominatimAddress) string {
	if address.City != "" {
		return address.City
	}
	if address.Town != "" {
		return address.Town
	}
	if address.Village != "" {
		return address.Village
	}
	if address.Municipality != "" {
		return address.Municipality
	}
	return address.Hamlet
}

// buildLabel renders "Road 12, 1234 AB City, Country", skipping empty parts.
func buildLabel(address nominatimAddress) string {
	street := strings.TrimSpace(address.Road + " " + address.HouseNumber)
	locality := strings.TrimSpace(address.Postcode + " " + pickCity(address))

	segments := make([]string, 0, 3)
	for _, segment := range []string{street, locality, strings.TrimSpace(address.Country)} {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return strings.Join(segments, ", ")
}
