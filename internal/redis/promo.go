package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"bookride/internal/domain"
)

const (
	promoCatalogKey = "promotions:active"
	promoCatalogTTL = 12 * time.Hour
)

// PromoStore caches the active promotion catalog in Redis.
type PromoStore struct {
	client *redis.Client
}

// NewPromoStore creates a new PromoStore.
func NewPromoStore(client *redis.Client) *PromoStore {
	return &PromoStore{client: client}
}

// List returns the cached catalog. A cache miss returns (nil, nil) so the
// caller can fall back to its seed catalog.
func (s *PromoStore) List(ctx context.Context) ([]domain.Promotion, error) {
	data, err := s.client.Get(ctx, promoCatalogKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var promos []domain.Promotion
	if err := json.Unmarshal(data, &promos); err != nil {
		return nil, err
	}
	return promos, nil
}

// Seed stores the catalog if no catalog is cached yet.
func (s *PromoStore) Seed(ctx context.Context, promos []domain.Promotion) error {
	data, err := json.Marshal(promos)
	if err != nil {
		return err
	}
	return s.client.SetNX(ctx, promoCatalogKey, data, promoCatalogTTL).Err()
}
