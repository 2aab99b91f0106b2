package transport

import "time"

// CreateLocationRequest contains data for saving a dropped pin.
type CreateLocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,finite"`
	Longitude *float64 `json:"longitude" validate:"required,finite"`
	Address   string   `json:"address" validate:"required,notblank"`
}

// ListLocationsRequest holds the raw paging query parameters. They are parsed
// leniently: anything unparsable falls back to the default.
type ListLocationsRequest struct {
	Limit  string `form:"limit"`
	Offset string `form:"offset"`
}

// LocationResponse represents a saved location in API responses.
type LocationResponse struct {
	ID        int64     `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}
