package service

import (
	"context"
	"log"

	"bookride/internal/domain"
	internalRedis "bookride/internal/redis"
)

// seedCatalog is the built-in promotion catalog, used to seed the cache and
// as the fallback when the catalog store is unreachable.
var seedCatalog = []domain.Promotion{
	{
		ID:                "promo-welcome15",
		Code:              "WELCOME15",
		DiscountType:      domain.DiscountPercent,
		DiscountPercent:   15,
		MaxDiscountAmount: 500,
		Label:             "15% off your ride",
		IsDefault:         true,
	},
	{
		ID:                "promo-ride20",
		Code:              "RIDE20",
		DiscountType:      domain.DiscountPercent,
		DiscountPercent:   20,
		MaxDiscountAmount: 300,
		Label:             "20% off, up to $3",
	},
	{
		ID:           "promo-flat5",
		Code:         "TAKE5",
		DiscountType: domain.DiscountFlat,
		DiscountFlat: 500,
		Label:        "$5 off your ride",
	},
}

// PromotionService fronts the external promotion catalog. Catalog failures
// are absorbed: the seed catalog serves as the degraded-mode answer.
type PromotionService struct {
	store internalRedis.PromoStoreInterface
}

// NewPromotionService creates a new PromotionService. store may be nil.
func NewPromotionService(store internalRedis.PromoStoreInterface) *PromotionService {
	return &PromotionService{store: store}
}

// SeedCatalog primes the cache with the built-in catalog when empty.
func (s *PromotionService) SeedCatalog(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Seed(ctx, seedCatalog); err != nil {
		log.Printf("failed to seed promotion catalog: %v", err)
	}
}

// Active lists the active promotions.
func (s *PromotionService) Active(ctx context.Context) []domain.Promotion {
	if s.store != nil {
		promos, err := s.store.List(ctx)
		if err != nil {
			log.Printf("promotion catalog unavailable, using seed catalog: %v", err)
		} else if len(promos) > 0 {
			return promos
		}
	}

	out := make([]domain.Promotion, len(seedCatalog))
	copy(out, seedCatalog)
	return out
}

// ByCode resolves a promo code against the active catalog.
func (s *PromotionService) ByCode(ctx context.Context, code string) (*domain.Promotion, error) {
	for _, p := range s.Active(ctx) {
		if p.Code == code {
			promo := p
			return &promo, nil
		}
	}
	return nil, ErrUnknownPromo
}

// Default returns the single catalog entry flagged as default, or nil when
// none is.
func (s *PromotionService) Default(ctx context.Context) *domain.Promotion {
	for _, p := range s.Active(ctx) {
		if p.IsDefault {
			promo := p
			return &promo
		}
	}
	return nil
}
