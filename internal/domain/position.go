package domain

// PositionSource discriminates the origin of a tracked position.
type PositionSource string

const (
	SourceSimulated PositionSource = "simulated"
	SourceLive      PositionSource = "live"
)

// SimulatedPosition is the simulator-owned vehicle state. RouteIndex advances
// monotonically along the active phase polyline and resets to 0 when the
// phase route changes.
type SimulatedPosition struct {
	Coordinate Coordinate `json:"coordinate"`
	RouteIndex int        `json:"route_index"`
	Heading    float64    `json:"heading"`
	SpeedMph   float64    `json:"speed_mph"`
}

// TurnInstruction describes the next upcoming maneuver on the phase route.
type TurnInstruction struct {
	Maneuver     string `json:"maneuver"`
	DistanceFeet int    `json:"distance_feet"`
}

// TrackedPosition is the tagged union consumed by the UI. Source tells the
// consumer whether the values come from the local simulator or a live driver
// feed; everything else reads the same either way.
type TrackedPosition struct {
	Source         PositionSource   `json:"source"`
	Coordinate     Coordinate       `json:"coordinate"`
	Heading        float64          `json:"heading"`
	SpeedMph       float64          `json:"speed_mph"`
	RouteIndex     int              `json:"route_index,omitempty"`
	RemainingMiles float64          `json:"remaining_miles"`
	EtaMinutes     int              `json:"eta_minutes"`
	NextTurn       *TurnInstruction `json:"next_turn,omitempty"`
}

// LivePosition is one update from an external driver position feed.
type LivePosition struct {
	Coordinate     Coordinate `json:"coordinate"`
	Heading        float64    `json:"heading"`
	SpeedMph       float64    `json:"speed_mph"`
	RemainingMiles float64    `json:"remaining_miles,omitempty"`
	EtaMinutes     int        `json:"eta_minutes,omitempty"`
}
