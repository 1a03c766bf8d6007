// Package routing wraps the external routing collaborator. The core never
// talks to a map provider directly; it sees candidate routes through the
// Router interface and degrades to straight-line routes when the provider is
// unreachable.
package routing

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"bookride/internal/domain"
	"bookride/internal/geo"
)

// ErrNoRoute is returned when the provider responds but offers no usable
// route between the endpoints.
var ErrNoRoute = errors.New("no route found")

// Router resolves candidate routes between two points. The preferred route
// comes first.
type Router interface {
	Route(ctx context.Context, origin, destination domain.Coordinate) ([]domain.RouteCandidate, error)
}

// straightLineSpeedMph is the assumed speed when estimating a fallback route
// without road data (distance x 2 minutes per mile).
const straightLineSpeedMph = 30.0

// StraightLineRouter is the degraded-mode router: a two-point polyline with a
// 30 mph time estimate. It never fails.
type StraightLineRouter struct{}

func (StraightLineRouter) Route(_ context.Context, origin, destination domain.Coordinate) ([]domain.RouteCandidate, error) {
	return []domain.RouteCandidate{StraightLineCandidate(origin, destination)}, nil
}

// StraightLineCandidate builds the two-point fallback route used whenever the
// routing collaborator fails.
func StraightLineCandidate(origin, destination domain.Coordinate) domain.RouteCandidate {
	miles := geo.Distance(origin, destination)
	seconds := int(math.Ceil(miles / straightLineSpeedMph * 3600))

	return domain.RouteCandidate{
		ID:                       uuid.New().String(),
		Summary:                  "Direct",
		DistanceMiles:            miles,
		DistanceMeters:           int(math.Round(miles * 1609.344)),
		DurationSeconds:          seconds,
		DurationInTrafficSeconds: seconds,
		Polyline:                 geo.EncodePolyline([]domain.Coordinate{origin, destination}),
	}
}
