package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"pinmap/migrations"
	"pinmap/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// RunMigrations applies all pending embedded migrations for the given driver.
func RunMigrations(ctx context.Context, conn *sql.DB, driver string) error {
	var dialect database.Dialect
	switch driver {
	case config.DriverPostgres:
		dialect = database.DialectPostgres
	case config.DriverSQLite:
		dialect = database.DialectSQLite3
	default:
		return fmt.Errorf("unsupported migration driver %q", driver)
	}

	dir, err := fs.Sub(migrations.FS, driver)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, conn, dir)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// RunPoolMigrations applies migrations through a database/sql view of a pgx pool.
// The view keeps no idle connections of its own; the pool stays owned by the caller.
func RunPoolMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	conn := stdlib.OpenDBFromPool(pool)
	defer func() {
		_ = conn.Close()
	}()
	return RunMigrations(ctx, conn, config.DriverPostgres)
}
