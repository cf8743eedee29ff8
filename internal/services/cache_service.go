package services

import (
	"context"
	"time"
)

// CacheService is the read-through cache used by the mongo repositories for
// hot trip and booking lookups. Cached values are convenience copies only;
// every write path invalidates and the store stays authoritative.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}

const (
	// Cache TTLs
	TripCacheTTL    = 15 * time.Minute
	BookingCacheTTL = 5 * time.Minute
)
