package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles ride entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// RideCacheTTL is short because ride status changes during acceptance races;
// the cache only has to absorb repeated reads between transitions.
const RideCacheTTL = 10 * time.Second

const rideCachePrefix = "cache:ride:"

// CachedRide represents a cached ride entity.
type CachedRide struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	PassengerID  string    `json:"passenger_id"`
	RiderID      string    `json:"rider_id,omitempty"`
	SharedCode   string    `json:"shared_code,omitempty"`
	Capacity     int       `json:"capacity,omitempty"`
	FareCents    int64     `json:"fare_cents"`
	Pickup       string    `json:"pickup"`
	Destination  string    `json:"destination"`
	VehicleClass string    `json:"vehicle_class,omitempty"`
	AcceptLat    float64   `json:"accept_lat,omitempty"`
	AcceptLng    float64   `json:"accept_lng,omitempty"`
	AcceptedAt   time.Time `json:"accepted_at,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GetRide retrieves a ride from cache. A cache miss returns (nil, nil).
func (s *CacheStore) GetRide(ctx context.Context, rideID string) (*CachedRide, error) {
	data, err := s.client.Get(ctx, rideCachePrefix+rideID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var ride CachedRide
	if err := json.Unmarshal(data, &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

// SetRide stores a ride in cache.
func (s *CacheStore) SetRide(ctx context.Context, ride *CachedRide) error {
	data, err := json.Marshal(ride)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, rideCachePrefix+ride.ID, data, RideCacheTTL).Err()
}

// InvalidateRide removes a ride from cache.
func (s *CacheStore) InvalidateRide(ctx context.Context, rideID string) error {
	return s.client.Del(ctx, rideCachePrefix+rideID).Err()
}
