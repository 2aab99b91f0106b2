package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pinmap/platform/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const cacheKeyPrefix = "geocode:reverse:"

// CachedProvider remembers successful lookups in Redis. Identical lookups that
// overlap share one upstream call. Redis failures fall through to the wrapped provider.
type CachedProvider struct {
	next   Provider
	client redis.UniversalClient
	ttl    time.Duration
	log    *logger.Logger
	group  singleflight.Group
}

// NewCachedProvider wraps next with a Redis cache whose entries live for ttl.
func NewCachedProvider(next Provider, client redis.UniversalClient, ttl time.Duration, log *logger.Logger) *CachedProvider {
	return &CachedProvider{next: next, client: client, ttl: ttl, log: log}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Name identifies the provider in logs.
func (p *CachedProvider) Name() string {
	return p.next.Name() + "+cache"
}

// Reverse serves the lookup from Redis when possible.
func (p *CachedProvider) Reverse(ctx context.Context, lat, lng float64) ([]Result, error) {
	key := cacheKey(lat, lng)

	raw, err := p.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []Result
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil && len(cached) > 0 {
			return cached, nil
		}
		p.log.Warn("discarding unreadable geocode cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		p.log.Warn("geocode cache read failed", "key", key, "error", err)
	}

	// The shared call outlives any one caller; each caller stops waiting on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (interface{}, error) {
		results, err := p.next.Reverse(shared, lat, lng)
		if err != nil {
			return nil, err
		}
		p.store(shared, key, results)
		return results, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Result), nil
	}
}

func (p *CachedProvider) store(ctx context.Context, key string, results []Result) {
	if len(results) == 0 {
		return
	}
	payload, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := p.client.Set(ctx, key, payload, p.ttl).Err(); err != nil {
		p.log.Warn("geocode cache write failed", "key", key, "error", err)
	}
}

// cacheKey uses the same six-decimal precision as the fallback address, about 0.1 m.
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%s%.6f,%.6f", cacheKeyPrefix, lat, lng)
}
