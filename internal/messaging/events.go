package messaging

import "time"

// Routing keys for trip lifecycle events.
const (
	RouteDriverAssigned = "trip.driver_assigned"
	RouteTripStarted    = "trip.started"
	RouteTripCompleted  = "trip.completed"
	RouteTripCancelled  = "trip.cancelled"
)

// TripEvent is the payload published on every notified state transition.
type TripEvent struct {
	SessionID string         `json:"session_id"`
	Type      string         `json:"type"`
	At        time.Time      `json:"at"`
	Data      map[string]any `json:"data,omitempty"`
}
