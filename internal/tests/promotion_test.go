package tests

import (
	"context"
	"testing"

	"bookride/internal/domain"
	"bookride/internal/service"
)

func TestPromotions_SeedCatalogWithoutStore(t *testing.T) {
	t.Parallel()

	promos := service.NewPromotionService(nil)
	active := promos.Active(context.Background())

	if len(active) == 0 {
		t.Fatal("seed catalog is empty")
	}
	for _, p := range active {
		switch p.DiscountType {
		case domain.DiscountPercent:
			if p.DiscountPercent <= 0 {
				t.Errorf("%s: percent promo with no percentage", p.Code)
			}
		case domain.DiscountFlat:
			if p.DiscountFlat <= 0 {
				t.Errorf("%s: flat promo with no amount", p.Code)
			}
		default:
			t.Errorf("%s: unknown discount type %q", p.Code, p.DiscountType)
		}
	}
}

func TestPromotions_ByCode(t *testing.T) {
	t.Parallel()

	promos := service.NewPromotionService(nil)
	ctx := context.Background()

	promo, err := promos.ByCode(ctx, "RIDE20")
	if err != nil {
		t.Fatalf("lookup RIDE20: %v", err)
	}
	if promo.DiscountType != domain.DiscountPercent || promo.DiscountPercent != 20 {
		t.Errorf("RIDE20 = %+v", promo)
	}

	if _, err := promos.ByCode(ctx, "NOPE"); err != service.ErrUnknownPromo {
		t.Errorf("unknown code: err = %v, want ErrUnknownPromo", err)
	}
}

func TestPromotions_SingleDefault(t *testing.T) {
	t.Parallel()

	promos := service.NewPromotionService(nil)
	ctx := context.Background()

	def := promos.Default(ctx)
	if def == nil {
		t.Fatal("no default promotion")
	}
	if !def.IsDefault {
		t.Errorf("default promo not flagged: %+v", def)
	}

	count := 0
	for _, p := range promos.Active(ctx) {
		if p.IsDefault {
			count++
		}
	}
	if count != 1 {
		t.Errorf("default promos = %d, want 1", count)
	}
}
