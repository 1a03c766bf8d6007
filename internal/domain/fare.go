package domain

import "fmt"

// Cents is a money amount in US cents. All fare arithmetic is done on cents
// so intermediate rounding is exact.
type Cents int64

// Dollars returns the amount as a float for display purposes only.
func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// String formats the amount as "$12.34".
func (c Cents) String() string {
	return fmt.Sprintf("$%.2f", c.Dollars())
}

// FareBreakdown is the derived, non-persisted output of the fare engine.
// It is always recomputed from (route, category, promotion), never mutated.
type FareBreakdown struct {
	BaseFare              Cents  `json:"base_fare"`
	DistanceFare          Cents  `json:"distance_fare"`
	TimeFare              Cents  `json:"time_fare"`
	BookingFee            Cents  `json:"booking_fee"`
	TaxesAndSurcharges    Cents  `json:"taxes_and_surcharges"`
	MinimumFareAdjustment Cents  `json:"minimum_fare_adjustment"`
	Subtotal              Cents  `json:"subtotal"`
	OriginalFare          Cents  `json:"original_fare"`
	DiscountAmount        Cents  `json:"discount_amount"`
	FinalFare             Cents  `json:"final_fare"`
	PromoCode             string `json:"promo_code,omitempty"`
	PromoLabel            string `json:"promo_label,omitempty"`
}
