package fare

import (
	"reflect"
	"testing"

	"bookride/internal/domain"
)

func flatCategory(minimum domain.Cents) domain.VehicleCategoryConfig {
	return domain.VehicleCategoryConfig{
		ID:                  "test",
		BaseMultiplier:      1.0,
		PerMileMultiplier:   1.0,
		PerMinuteMultiplier: 1.0,
		MinimumFare:         minimum,
	}
}

func standardRoute() domain.RouteCandidate {
	return domain.RouteCandidate{
		ID:                       "route-1",
		DistanceMiles:            5.0,
		DurationSeconds:          840,
		DurationInTrafficSeconds: 900,
	}
}

func TestQuote_StandardRoute(t *testing.T) {
	t.Parallel()

	got := Quote(standardRoute(), flatCategory(800), nil)

	if got.BaseFare != 250 {
		t.Errorf("BaseFare = %d, want 250", got.BaseFare)
	}
	if got.DistanceFare != 1000 {
		t.Errorf("DistanceFare = %d, want 1000", got.DistanceFare)
	}
	if got.TimeFare != 450 {
		t.Errorf("TimeFare = %d, want 450", got.TimeFare)
	}
	// round(1700 * 0.08875) = round(150.875) = 151
	if got.TaxesAndSurcharges != 151 {
		t.Errorf("TaxesAndSurcharges = %d, want 151", got.TaxesAndSurcharges)
	}
	if got.BookingFee != 200 {
		t.Errorf("BookingFee = %d, want 200", got.BookingFee)
	}
	if got.MinimumFareAdjustment != 0 {
		t.Errorf("MinimumFareAdjustment = %d, want 0", got.MinimumFareAdjustment)
	}
	if got.OriginalFare != 2051 {
		t.Errorf("OriginalFare = %d, want 2051", got.OriginalFare)
	}
	if got.FinalFare != 2051 {
		t.Errorf("FinalFare = %d, want 2051", got.FinalFare)
	}
}

func TestQuote_PercentPromoCapped(t *testing.T) {
	t.Parallel()

	promo := &domain.Promotion{
		Code:              "RIDE20",
		DiscountType:      domain.DiscountPercent,
		DiscountPercent:   20,
		MaxDiscountAmount: 300,
	}

	got := Quote(standardRoute(), flatCategory(800), promo)

	// Raw 20% of 2051 is 410, capped at 300.
	if got.DiscountAmount != 300 {
		t.Errorf("DiscountAmount = %d, want 300", got.DiscountAmount)
	}
	if got.FinalFare != 1751 {
		t.Errorf("FinalFare = %d, want 1751", got.FinalFare)
	}
	if got.PromoCode != "RIDE20" {
		t.Errorf("PromoCode = %q, want RIDE20", got.PromoCode)
	}
}

func TestQuote_PercentPromoUncapped(t *testing.T) {
	t.Parallel()

	promo := &domain.Promotion{
		Code:            "TEN",
		DiscountType:    domain.DiscountPercent,
		DiscountPercent: 10,
	}

	got := Quote(standardRoute(), flatCategory(800), promo)

	// round(2051 * 0.10) = 205, no cap configured.
	if got.DiscountAmount != 205 {
		t.Errorf("DiscountAmount = %d, want 205", got.DiscountAmount)
	}
	if got.FinalFare != 1846 {
		t.Errorf("FinalFare = %d, want 1846", got.FinalFare)
	}
}

func TestQuote_FlatPromoClampedToFare(t *testing.T) {
	t.Parallel()

	promo := &domain.Promotion{
		Code:         "HUGE",
		DiscountType: domain.DiscountFlat,
		DiscountFlat: 99999,
	}

	got := Quote(standardRoute(), flatCategory(800), promo)

	if got.DiscountAmount != got.OriginalFare {
		t.Errorf("DiscountAmount = %d, want clamped to %d", got.DiscountAmount, got.OriginalFare)
	}
	if got.FinalFare != 0 {
		t.Errorf("FinalFare = %d, want 0", got.FinalFare)
	}
}

func TestQuote_NegativeDiscountIgnored(t *testing.T) {
	t.Parallel()

	promo := &domain.Promotion{
		Code:         "BROKEN",
		DiscountType: domain.DiscountFlat,
		DiscountFlat: -500,
	}

	got := Quote(standardRoute(), flatCategory(800), promo)

	if got.DiscountAmount != 0 {
		t.Errorf("DiscountAmount = %d, want 0", got.DiscountAmount)
	}
	if got.FinalFare != got.OriginalFare {
		t.Errorf("FinalFare = %d, want %d", got.FinalFare, got.OriginalFare)
	}
}

func TestQuote_MinimumFareFloor(t *testing.T) {
	t.Parallel()

	route := domain.RouteCandidate{ID: "route-1"}
	got := Quote(route, flatCategory(800), nil)

	// calculated = 250 + 0 + 0 + 200 + round(250*0.08875)=22 -> 472
	if got.MinimumFareAdjustment != 328 {
		t.Errorf("MinimumFareAdjustment = %d, want 328", got.MinimumFareAdjustment)
	}
	if got.OriginalFare != 800 {
		t.Errorf("OriginalFare = %d, want 800", got.OriginalFare)
	}
}

func TestQuote_TrafficDurationFallback(t *testing.T) {
	t.Parallel()

	route := standardRoute()
	route.DurationInTrafficSeconds = 0
	route.DurationSeconds = 600

	got := Quote(route, flatCategory(800), nil)

	// 10 minutes at the flat per-minute rate.
	if got.TimeFare != 300 {
		t.Errorf("TimeFare = %d, want 300", got.TimeFare)
	}
}

func TestQuote_CategoryMultipliers(t *testing.T) {
	t.Parallel()

	comfort, ok := domain.CategoryByID("comfort")
	if !ok {
		t.Fatal("comfort category missing")
	}

	got := Quote(standardRoute(), comfort, nil)

	// round(250 * 1.3) = 325
	if got.BaseFare != 325 {
		t.Errorf("BaseFare = %d, want 325", got.BaseFare)
	}
	if got.FinalFare > got.OriginalFare {
		t.Errorf("FinalFare %d exceeds OriginalFare %d", got.FinalFare, got.OriginalFare)
	}
}

func TestQuote_Idempotent(t *testing.T) {
	t.Parallel()

	promo := &domain.Promotion{
		Code:              "RIDE20",
		DiscountType:      domain.DiscountPercent,
		DiscountPercent:   20,
		MaxDiscountAmount: 300,
	}

	first := Quote(standardRoute(), flatCategory(800), promo)
	second := Quote(standardRoute(), flatCategory(800), promo)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Quote not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestQuote_MonotonicityAcrossCatalog(t *testing.T) {
	t.Parallel()

	promos := []*domain.Promotion{
		nil,
		{Code: "P", DiscountType: domain.DiscountPercent, DiscountPercent: 50},
		{Code: "F", DiscountType: domain.DiscountFlat, DiscountFlat: 1500},
	}

	for _, category := range domain.VehicleCategories() {
		for _, promo := range promos {
			got := Quote(standardRoute(), category, promo)
			if got.FinalFare > got.OriginalFare {
				t.Errorf("%s: FinalFare %d > OriginalFare %d", category.ID, got.FinalFare, got.OriginalFare)
			}
			if got.FinalFare < 0 {
				t.Errorf("%s: FinalFare %d < 0", category.ID, got.FinalFare)
			}
			if got.OriginalFare < category.MinimumFare {
				t.Errorf("%s: OriginalFare %d below minimum %d", category.ID, got.OriginalFare, category.MinimumFare)
			}
			if got.DiscountAmount < 0 || got.DiscountAmount > got.OriginalFare {
				t.Errorf("%s: DiscountAmount %d outside [0, %d]", category.ID, got.DiscountAmount, got.OriginalFare)
			}
		}
	}
}
