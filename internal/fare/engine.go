// Package fare computes fare breakdowns for a route and vehicle category.
// Quote is a pure function: identical inputs always produce an identical
// breakdown, and callers recompute instead of caching.
package fare

import (
	"math"

	"bookride/internal/domain"
)

// Rate constants in cents. Each category scales these by its multipliers.
const (
	baseFareCents       = 250
	perMileCents        = 200
	perMinuteCents      = 30
	bookingFeeCents     = 200
	taxAndSurchargeRate = 0.08875
)

// Quote converts the active route, a vehicle category and an optional
// promotion into a fare breakdown. Every intermediate sum is rounded to whole
// cents. The result satisfies FinalFare <= OriginalFare and FinalFare >= 0
// for any valid category config; zero-distance or zero-duration routes come
// out at the category minimum fare.
func Quote(route domain.RouteCandidate, category domain.VehicleCategoryConfig, promo *domain.Promotion) domain.FareBreakdown {
	baseFare := roundCents(baseFareCents * category.BaseMultiplier)
	perMileRate := roundCents(perMileCents * category.PerMileMultiplier)
	perMinuteRate := roundCents(perMinuteCents * category.PerMinuteMultiplier)

	distanceFare := roundCents(route.DistanceMiles * float64(perMileRate))

	// The traffic-aware duration drives the time fare; some routing backends
	// omit it, in which case the base duration stands in.
	seconds := route.DurationInTrafficSeconds
	if seconds <= 0 {
		seconds = route.DurationSeconds
	}
	minutes := int64(math.Ceil(float64(seconds) / 60))
	timeFare := roundCents(float64(minutes) * float64(perMinuteRate))

	taxes := roundCents(float64(baseFare+distanceFare+timeFare) * taxAndSurchargeRate)

	calculated := baseFare + distanceFare + timeFare + bookingFeeCents + taxes

	var adjustment domain.Cents
	subtotal := calculated
	if subtotal < category.MinimumFare {
		adjustment = category.MinimumFare - subtotal
		subtotal = category.MinimumFare
	}

	breakdown := domain.FareBreakdown{
		BaseFare:              baseFare,
		DistanceFare:          distanceFare,
		TimeFare:              timeFare,
		BookingFee:            bookingFeeCents,
		TaxesAndSurcharges:    taxes,
		MinimumFareAdjustment: adjustment,
		Subtotal:              subtotal,
		OriginalFare:          subtotal,
	}

	discount := discountAmount(subtotal, promo)
	breakdown.DiscountAmount = discount
	breakdown.FinalFare = subtotal - discount
	if promo != nil {
		breakdown.PromoCode = promo.Code
		breakdown.PromoLabel = promo.Label
	}

	return breakdown
}

// discountAmount clamps the promotion value so it is never negative and never
// exceeds the original fare.
func discountAmount(originalFare domain.Cents, promo *domain.Promotion) domain.Cents {
	if promo == nil {
		return 0
	}

	var discount domain.Cents
	switch promo.DiscountType {
	case domain.DiscountPercent:
		discount = roundCents(float64(originalFare) * promo.DiscountPercent / 100)
		if promo.MaxDiscountAmount > 0 && discount > promo.MaxDiscountAmount {
			discount = promo.MaxDiscountAmount
		}
	case domain.DiscountFlat:
		discount = promo.DiscountFlat
	default:
		return 0
	}

	if discount < 0 {
		return 0
	}
	if discount > originalFare {
		return originalFare
	}
	return discount
}

func roundCents(v float64) domain.Cents {
	return domain.Cents(math.Round(v))
}
