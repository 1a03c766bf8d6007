package domain

// RouteCandidate is one route option for a pickup/dropoff pair, as returned
// by the routing collaborator. Exactly one candidate is active at a time.
//
// DurationInTrafficSeconds >= DurationSeconds is expected but not enforced;
// some routing backends violate it and consumers must cope.
type RouteCandidate struct {
	ID                       string  `json:"id"`
	Summary                  string  `json:"summary"`
	DistanceMiles            float64 `json:"distance_miles"`
	DistanceMeters           int     `json:"distance_meters"`
	DurationSeconds          int     `json:"duration_seconds"`
	DurationInTrafficSeconds int     `json:"duration_in_traffic_seconds"`
	Polyline                 string  `json:"polyline"`
}
