package redis

import "context"

// RideCacheInterface defines the interface for ride entity caching.
// Consumers treat every cache failure as a miss.
type RideCacheInterface interface {
	GetRide(ctx context.Context, rideID string) (*CachedRide, error)
	SetRide(ctx context.Context, ride *CachedRide) error
	InvalidateRide(ctx context.Context, rideID string) error
}

// Ensure concrete types implement interfaces.
var _ RideCacheInterface = (*CacheStore)(nil)
