package domain

import "time"

// RideStatus is the primary state of a trip session.
type RideStatus string

const (
	StatusSelecting       RideStatus = "SELECTING"
	StatusConfirming      RideStatus = "CONFIRMING"
	StatusSearchingDriver RideStatus = "SEARCHING_DRIVER"
	StatusDriverAssigned  RideStatus = "DRIVER_ASSIGNED"
	StatusTripInProgress  RideStatus = "TRIP_IN_PROGRESS"
	StatusTripCompleted   RideStatus = "TRIP_COMPLETED"
	StatusTripCancelled   RideStatus = "TRIP_CANCELLED"
)

// Terminal reports whether the status is an end state of the lifecycle.
func (s RideStatus) Terminal() bool {
	return s == StatusTripCompleted || s == StatusTripCancelled
}

// TrackingPhase is the secondary state, meaningful only while a driver
// exists. The zero value means "no phase": it holds exactly while the status
// is SELECTING, CONFIRMING or SEARCHING_DRIVER.
type TrackingPhase string

const (
	PhaseNone             TrackingPhase = ""
	PhaseEnRouteToPickup  TrackingPhase = "EN_ROUTE_TO_PICKUP"
	PhaseEnRouteToDropoff TrackingPhase = "EN_ROUTE_TO_DROPOFF"
	PhaseCompleted        TrackingPhase = "COMPLETED"
	PhaseCancelled        TrackingPhase = "CANCELLED"
)

// DriverAssignment is created when the session enters DRIVER_ASSIGNED and
// cleared on trip reset.
type DriverAssignment struct {
	Name             string  `json:"name"`
	Rating           float64 `json:"rating"`
	VehicleModel     string  `json:"vehicle_model"`
	VehicleColor     string  `json:"vehicle_color"`
	PlateNumber      string  `json:"plate_number"`
	AvatarInitials   string  `json:"avatar_initials"`
	PickupEtaMinutes int     `json:"pickup_eta_minutes"`
}

// TripRecord is the persisted outcome of a session that reached a terminal
// state. It backs the trip history endpoints.
type TripRecord struct {
	ID              string
	SessionID       string
	Status          RideStatus
	Pickup          Coordinate
	Dropoff         Coordinate
	RouteSummary    string
	DistanceMiles   float64
	DurationSeconds int
	VehicleCategory string
	DriverName      string
	PlateNumber     string
	PromoCode       string
	OriginalFare    Cents
	DiscountAmount  Cents
	FinalFare       Cents
	CancelReason    string
	StartedAt       time.Time
	EndedAt         time.Time
	CreatedAt       time.Time
}
