package redis

import (
	"context"

	"bookride/internal/domain"
)

// DriverLocationStoreInterface defines the driver geo index operations.
type DriverLocationStoreInterface interface {
	Register(ctx context.Context, driverID string, lat, lng float64) error
	Nearby(ctx context.Context, lat, lng, radiusMiles float64) ([]DriverLocation, error)
	Remove(ctx context.Context, driverID string, lat, lng float64) error
}

// PromoStoreInterface defines the promotion catalog cache operations.
type PromoStoreInterface interface {
	List(ctx context.Context) ([]domain.Promotion, error)
	Seed(ctx context.Context, promos []domain.Promotion) error
}

// Ensure concrete types implement interfaces.
var (
	_ DriverLocationStoreInterface = (*DriverLocationStore)(nil)
	_ PromoStoreInterface          = (*PromoStore)(nil)
)
