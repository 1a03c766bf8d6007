package domain

// VehicleCategoryConfig holds the static per-category fare multipliers.
// Read-only reference data seeded at startup.
type VehicleCategoryConfig struct {
	ID                  string  `json:"id"`
	Label               string  `json:"label"`
	BaseMultiplier      float64 `json:"base_multiplier"`
	PerMileMultiplier   float64 `json:"per_mile_multiplier"`
	PerMinuteMultiplier float64 `json:"per_minute_multiplier"`
	MinimumFare         Cents   `json:"minimum_fare"`
	SeatCount           int     `json:"seat_count"`
	Popular             bool    `json:"popular"`
	Premium             bool    `json:"premium"`
}

// DefaultCategoryID is the category preselected for a new session.
const DefaultCategoryID = "economy"

var vehicleCategories = []VehicleCategoryConfig{
	{
		ID:                  "economy",
		Label:               "Economy",
		BaseMultiplier:      1.0,
		PerMileMultiplier:   1.0,
		PerMinuteMultiplier: 1.0,
		MinimumFare:         800,
		SeatCount:           4,
		Popular:             true,
	},
	{
		ID:                  "comfort",
		Label:               "Comfort",
		BaseMultiplier:      1.3,
		PerMileMultiplier:   1.35,
		PerMinuteMultiplier: 1.2,
		MinimumFare:         1100,
		SeatCount:           4,
	},
	{
		ID:                  "xl",
		Label:               "XL",
		BaseMultiplier:      1.6,
		PerMileMultiplier:   1.7,
		PerMinuteMultiplier: 1.4,
		MinimumFare:         1400,
		SeatCount:           6,
	},
	{
		ID:                  "premium",
		Label:               "Premium",
		BaseMultiplier:      2.2,
		PerMileMultiplier:   2.4,
		PerMinuteMultiplier: 1.8,
		MinimumFare:         2000,
		SeatCount:           4,
		Premium:             true,
	},
}

// VehicleCategories returns the full category catalog.
func VehicleCategories() []VehicleCategoryConfig {
	out := make([]VehicleCategoryConfig, len(vehicleCategories))
	copy(out, vehicleCategories)
	return out
}

// CategoryByID looks up a category config. The second return is false for an
// unknown id.
func CategoryByID(id string) (VehicleCategoryConfig, bool) {
	for _, c := range vehicleCategories {
		if c.ID == id {
			return c, true
		}
	}
	return VehicleCategoryConfig{}, false
}
