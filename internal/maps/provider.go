package maps

import (
	"context"
	"fmt"

	"pinmap/platform/config"
	"pinmap/platform/logger"
)

// NewProvider builds the provider named by cfg.
func NewProvider(cfg config.GeocoderConfig, log *logger.Logger) (Provider, error) {
	switch cfg.GetGeocoderProvider() {
	case "google":
		if cfg.GetGoogleMapsAPIKey() == "" {
			return nil, fmt.Errorf("google geocoder requires an API key")
		}
		return NewGoogleProvider(cfg.GetGoogleMapsURL(), cfg.GetGoogleMapsAPIKey(), log), nil
	case "nominatim", "":
		return NewNominatimProvider(cfg.GetNominatimURL(), cfg.GetGeocoderUserAgent(), log), nil
	default:
		return nil, fmt.Errorf("unknown geocoder provider %q", cfg.GetGeocoderProvider())
	}
}

// WithCache wraps provider in a CachedProvider when a Redis URL is configured.
// The returned close function releases the Redis client and is never nil.
func WithCache(ctx context.Context, provider Provider, cfg config.CacheConfig, log *logger.Logger) (Provider, func(), error) {
	if !cfg.IsCacheEnabled() {
		return provider, func() {}, nil
	}

	client, err := NewRedisClient(ctx, cfg.GetRedisURL())
	if err != nil {
		return nil, nil, err
	}

	cached := NewCachedProvider(provider, client, cfg.GetGeocodeCacheTTL(), log)
	return cached, func() { _ = client.Close() }, nil
}
