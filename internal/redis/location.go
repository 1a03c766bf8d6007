package redis

import (
	"context"

	"github.com/mmcloughlin/geohash"
	"github.com/redis/go-redis/v9"
)

const (
	driverLocationKey = "drivers:locations"
	driverCellPrefix  = "drivers:cell:"

	// cellPrecision of 6 gives ~1.2km x 0.6km buckets, enough to group the
	// simulated driver pool around a pickup point.
	cellPrecision = 6
)

// DriverLocation represents a driver's position.
type DriverLocation struct {
	DriverID string
	Lat      float64
	Lng      float64
}

// DriverLocationStore indexes simulated driver positions in Redis: a GEO set
// for radius queries plus per-geohash-cell membership sets.
type DriverLocationStore struct {
	client *redis.Client
}

// NewDriverLocationStore creates a new DriverLocationStore.
func NewDriverLocationStore(client *redis.Client) *DriverLocationStore {
	return &DriverLocationStore{client: client}
}

// Register stores a driver's position using GEOADD and records the driver in
// its geohash cell set.
func (s *DriverLocationStore) Register(ctx context.Context, driverID string, lat, lng float64) error {
	if err := s.client.GeoAdd(ctx, driverLocationKey, &redis.GeoLocation{
		Name:      driverID,
		Longitude: lng,
		Latitude:  lat,
	}).Err(); err != nil {
		return err
	}

	cell := geohash.EncodeWithPrecision(lat, lng, cellPrecision)
	return s.client.SAdd(ctx, driverCellPrefix+cell, driverID).Err()
}

// Nearby returns driver positions within radiusMiles of the given point,
// closest first.
func (s *DriverLocationStore) Nearby(ctx context.Context, lat, lng, radiusMiles float64) ([]DriverLocation, error) {
	results, err := s.client.GeoRadius(ctx, driverLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusMiles,
		Unit:      "mi",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]DriverLocation, 0, len(results))
	for _, r := range results {
		locations = append(locations, DriverLocation{
			DriverID: r.Name,
			Lat:      r.Latitude,
			Lng:      r.Longitude,
		})
	}

	return locations, nil
}

// Remove deletes a driver from the geo index and its cell set.
func (s *DriverLocationStore) Remove(ctx context.Context, driverID string, lat, lng float64) error {
	if err := s.client.ZRem(ctx, driverLocationKey, driverID).Err(); err != nil {
		return err
	}
	cell := geohash.EncodeWithPrecision(lat, lng, cellPrecision)
	return s.client.SRem(ctx, driverCellPrefix+cell, driverID).Err()
}

// Cell returns the geohash cell id for a point, used as event metadata.
func Cell(lat, lng float64) string {
	return geohash.EncodeWithPrecision(lat, lng, cellPrecision)
}
