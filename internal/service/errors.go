package service

import "errors"

var (
	// ErrMissingPickup is returned when the pickup location is absent or out
	// of bounds.
	ErrMissingPickup = errors.New("missing pickup location")

	// ErrMissingDropoff is returned when the dropoff location is absent or
	// out of bounds.
	ErrMissingDropoff = errors.New("missing dropoff location")

	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoActiveRoute is returned when an operation needs an active route
	// and the session has none.
	ErrNoActiveRoute = errors.New("no active route")

	// ErrUnknownRoute is returned when selecting a route id that is not
	// among the session's candidates.
	ErrUnknownRoute = errors.New("unknown route candidate")

	// ErrUnknownCategory is returned for a vehicle category id not in the
	// catalog.
	ErrUnknownCategory = errors.New("unknown vehicle category")

	// ErrUnknownPromo is returned when applying a promo code that is not in
	// the active catalog.
	ErrUnknownPromo = errors.New("unknown promo code")

	// ErrInvalidTransition is returned when a lifecycle event is not legal
	// in the session's current state. The session state is left unchanged.
	ErrInvalidTransition = errors.New("invalid trip transition")

	// ErrNotTracking is returned when a position is requested and no
	// tracking phase is active.
	ErrNotTracking = errors.New("session is not tracking a vehicle")
)
