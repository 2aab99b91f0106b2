package maps

import (
	"context"
	"errors"
)

// StreetAddressType marks a provider result as a precise postal address.
const StreetAddressType = "street_address"

// ErrNoResults is returned by providers that answered successfully without any match.
// The resolver folds it into the fallback address.
var ErrNoResults = errors.New("geocoder returned no results")

// Provider performs one reverse geocoding lookup.
type Provider interface {
	Name() string
	Reverse(ctx context.Context, lat, lng float64) ([]Result, error)
}

// Result is one candidate returned by a provider.
type Result struct {
	FormattedAddress string   `json:"formattedAddress"`
	Types            []string `json:"types"`
}

// IsStreetAddress reports whether the provider classified the result as a street address.
func (r Result) IsStreetAddress() bool {
	for _, t := range r.Types {
		if t == StreetAddressType {
			return true
		}
	}
	return false
}

// GeocodeResult is the display address for a pin. Lat and Lng always echo the
// coordinates that were looked up, never the provider's.
type GeocodeResult struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// ReverseRequest represents the query parameters of the reverse lookup endpoint.
type ReverseRequest struct {
	Lat *float64 `form:"lat" binding:"required"`
	Lng *float64 `form:"lng" binding:"required"`
}

type nominatimAddress struct {
	Road         string `json:"road"`
	HouseNumber  string `json:"house_number"`
	Postcode     string `json:"postcode"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	Hamlet       string `json:"hamlet"`
	Country      string `json:"country"`
}

// nominatimResponse mirrors the relevant parts of the OSM reverse payload.
type nominatimResponse struct {
	Error       string           `json:"error"`
	DisplayName string           `json:"display_name"`
	AddressType string           `json:"addresstype"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Address     nominatimAddress `json:"address"`
}

// googleResponse mirrors the relevant parts of the Google geocode JSON payload.
type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string   `json:"formatted_address"`
		Types            []string `json:"types"`
	} `json:"results"`
}
