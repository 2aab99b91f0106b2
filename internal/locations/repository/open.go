package repository

import (
	"context"
	"database/sql"
	"fmt"

	"pinmap/platform/config"
	"pinmap/platform/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend is an opened, migrated repository together with its connection.
type Backend struct {
	Repository

	pool *pgxpool.Pool
	conn *sql.DB
}

// Open connects to the database selected by cfg, applies pending migrations
// and returns the matching repository.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Backend, error) {
	switch cfg.GetDatabaseDriver() {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.RunPoolMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{Repository: New(pool), pool: pool}, nil

	case config.DriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.GetDatabasePath())
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.RunMigrations(ctx, conn, config.DriverSQLite); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return &Backend{Repository: NewSQLite(conn), conn: conn}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.GetDatabaseDriver())
	}
}

// Ping checks the underlying connection.
func (b *Backend) Ping(ctx context.Context) error {
	if b.pool != nil {
		return b.pool.Ping(ctx)
	}
	return b.conn.PingContext(ctx)
}

// Close releases the underlying connection.
func (b *Backend) Close() {
	if b.pool != nil {
		b.pool.Close()
		return
	}
	_ = b.conn.Close()
}
