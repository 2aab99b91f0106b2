package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pinmap/platform/apperr"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL locations repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List retrieves a page of locations, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Location, error) {
	query := `
		SELECT id, latitude, longitude, address, created_at
		FROM locations
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

// ListFallbackAddresses retrieves the oldest locations still carrying a coordinate fallback address.
func (r *Repo) ListFallbackAddresses(ctx context.Context, limit int) ([]Location, error) {
	query := `
		SELECT id, latitude, longitude, address, created_at
		FROM locations
		WHERE address LIKE $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, fallbackAddressPattern, limit)
	if err != nil {
		return nil, fmt.Errorf("list fallback addresses: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

// Create inserts a location and returns the stored row.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Location, error) {
	query := `
		INSERT INTO locations (latitude, longitude, address)
		VALUES ($1, $2, $3)
		RETURNING id, latitude, longitude, address, created_at`

	var loc Location
	err := r.pool.QueryRow(ctx, query, params.Latitude, params.Longitude, params.Address).Scan(
		&loc.ID, &loc.Latitude, &loc.Longitude, &loc.Address, &loc.CreatedAt,
	)
	if err != nil {
		return Location{}, fmt.Errorf("create location: %w", err)
	}

	return loc, nil
}

// UpdateAddress replaces the address of an existing location.
func (r *Repo) UpdateAddress(ctx context.Context, id int64, address string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE locations SET address = $2 WHERE id = $1`, id, address)
	if err != nil {
		return fmt.Errorf("update location address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(locationNotFoundMessage)
	}
	return nil
}

func scanLocations(rows pgx.Rows) ([]Location, error) {
	locations := make([]Location, 0)
	for rows.Next() {
		var loc Location
		if err := rows.Scan(&loc.ID, &loc.Latitude, &loc.Longitude, &loc.Address, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}

	return locations, nil
}
