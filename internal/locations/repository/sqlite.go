package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pinmap/platform/apperr"
)

// sqliteTimeLayout is fixed width so that created_at sorts correctly as TEXT.
const sqliteTimeLayout = "2006-01-02T15:04:05.000Z"

// SQLiteRepo implements the Repository interface with SQLite.
type SQLiteRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite creates a new SQLite locations repository.
func NewSQLite(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db, now: time.Now}
}

var _ Repository = (*SQLiteRepo)(nil)

// List retrieves a page of locations, newest first.
func (r *SQLiteRepo) List(ctx context.Context, params ListParams) ([]Location, error) {
	query := `
		SELECT id, latitude, longitude, address, created_at
		FROM locations
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanSQLiteLocations(rows)
}

// ListFallbackAddresses retrieves the oldest locations still carrying a coordinate fallback address.
func (r *SQLiteRepo) ListFallbackAddresses(ctx context.Context, limit int) ([]Location, error) {
	query := `
		SELECT id, latitude, longitude, address, created_at
		FROM locations
		WHERE address LIKE ?
		ORDER BY created_at ASC, id ASC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, fallbackAddressPattern, limit)
	if err != nil {
		return nil, fmt.Errorf("list fallback addresses: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanSQLiteLocations(rows)
}

// Create inserts a location and returns the stored row.
func (r *SQLiteRepo) Create(ctx context.Context, params CreateParams) (Location, error) {
	query := `
		INSERT INTO locations (latitude, longitude, address, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id, latitude, longitude, address, created_at`

	createdAt := r.now().UTC().Format(sqliteTimeLayout)

	row := r.db.QueryRowContext(ctx, query, params.Latitude, params.Longitude, params.Address, createdAt)
	loc, err := scanSQLiteLocation(row)
	if err != nil {
		return Location{}, fmt.Errorf("create location: %w", err)
	}

	return loc, nil
}

// UpdateAddress replaces the address of an existing location.
func (r *SQLiteRepo) UpdateAddress(ctx context.Context, id int64, address string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE locations SET address = ? WHERE id = ?`, address, id)
	if err != nil {
		return fmt.Errorf("update location address: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update location address: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound(locationNotFoundMessage)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteLocation(row rowScanner) (Location, error) {
	var loc Location
	var createdAt string
	if err := row.Scan(&loc.ID, &loc.Latitude, &loc.Longitude, &loc.Address, &createdAt); err != nil {
		return Location{}, err
	}

	parsed, err := parseSQLiteTime(createdAt)
	if err != nil {
		return Location{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	loc.CreatedAt = parsed

	return loc, nil
}

func scanSQLiteLocations(rows *sql.Rows) ([]Location, error) {
	locations := make([]Location, 0)
	for rows.Next() {
		loc, err := scanSQLiteLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}

	return locations, nil
}

// parseSQLiteTime accepts our own layout and SQLite's datetime('now') format.
func parseSQLiteTime(value string) (time.Time, error) {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp")
}
