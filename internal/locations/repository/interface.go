package repository

import (
	"context"
	"time"
)

// Location is a saved pin.
type Location struct {
	ID        int64     `db:"id"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
}

// CreateParams contains parameters for creating a location.
type CreateParams struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// ListParams contains paging parameters for listing locations newest first.
type ListParams struct {
	Limit  int
	Offset int
}

// LocationReader provides read operations for locations.
type LocationReader interface {
	List(ctx context.Context, params ListParams) ([]Location, error)
	// ListFallbackAddresses returns the oldest locations whose address is still
	// a coordinate fallback rather than a resolved address.
	ListFallbackAddresses(ctx context.Context, limit int) ([]Location, error)
}

// LocationWriter provides write operations for locations.
type LocationWriter interface {
	Create(ctx context.Context, params CreateParams) (Location, error)
	UpdateAddress(ctx context.Context, id int64, address string) error
}

// Repository combines all location repository operations.
type Repository interface {
	LocationReader
	LocationWriter
}

// fallbackAddressPattern matches addresses produced by maps.FallbackAddress.
const fallbackAddressPattern = "Lat: %, Lng: %"

const locationNotFoundMessage = "location not found"
