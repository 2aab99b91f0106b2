package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pinmap/internal/locations/repository"
	"pinmap/internal/maps"
	"pinmap/platform/config"
	"pinmap/platform/logger"
)

const (
	batchSize = 25
	pause     = time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting location geocode backfill")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to open database", "error", err)
		panic("failed to open database: " + err.Error())
	}
	defer backend.Close()

	provider, err := maps.NewProvider(cfg, log)
	if err != nil {
		panic("failed to configure geocoder: " + err.Error())
	}
	provider, closeCache, err := maps.WithCache(ctx, provider, cfg, log)
	if err != nil {
		panic("failed to connect to geocode cache: " + err.Error())
	}
	defer closeCache()

	updated, err := backfill(ctx, backend, maps.NewResolver(provider, log), log, pause)
	if err != nil {
		log.Error("backfill stopped", "error", err, "updated", updated)
		return
	}
	log.Info("backfill finished", "updated", updated)
}

// backfill re-resolves locations whose address is still a coordinate
// fallback. It stops when nothing is left or a whole batch made no progress.
func backfill(ctx context.Context, repo repository.Repository, resolver *maps.Resolver, log *logger.Logger, wait time.Duration) (int, error) {
	updated := 0
	for {
		locations, err := repo.ListFallbackAddresses(ctx, batchSize)
		if err != nil {
			return updated, err
		}
		if len(locations) == 0 {
			log.Info("no locations left to geocode")
			return updated, nil
		}

		progress := false

		for _, loc := range locations {
			result := resolver.Resolve(ctx, loc.Latitude, loc.Longitude)
			if ctx.Err() != nil {
				return updated, ctx.Err()
			}

			if maps.IsFallbackAddress(result.Address) {
				log.Info("no geocode result", "locationId", loc.ID, "lat", loc.Latitude, "lng", loc.Longitude)
			} else if err := repo.UpdateAddress(ctx, loc.ID, result.Address); err != nil {
				log.Error("failed to update location", "locationId", loc.ID, "error", err)
			} else {
				log.Info("location geocoded", "locationId", loc.ID, "address", result.Address)
				updated++
				progress = true
			}

			if err := sleep(ctx, wait); err != nil {
				return updated, err
			}
		}

		if !progress {
			log.Info("no geocode progress in batch, stopping")
			return updated, nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
