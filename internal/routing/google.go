package routing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"googlemaps.github.io/maps"

	"bookride/internal/domain"
)

// GoogleRouter resolves routes through the Google Maps Directions API.
type GoogleRouter struct {
	client *maps.Client
}

// NewGoogleRouter creates a GoogleRouter with the given API key.
func NewGoogleRouter(apiKey string) (*GoogleRouter, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleRouter{client: client}, nil
}

// Route requests driving directions with alternatives and converts them to
// route candidates. The API returns its preferred route first, which matches
// the selection model's "first candidate is active" rule.
func (r *GoogleRouter) Route(ctx context.Context, origin, destination domain.Coordinate) ([]domain.RouteCandidate, error) {
	req := &maps.DirectionsRequest{
		Origin:        fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination:   fmt.Sprintf("%f,%f", destination.Lat, destination.Lng),
		Mode:          maps.TravelModeDriving,
		Alternatives:  true,
		DepartureTime: "now",
	}

	routes, _, err := r.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 {
		return nil, ErrNoRoute
	}

	candidates := make([]domain.RouteCandidate, 0, len(routes))
	for _, route := range routes {
		if len(route.Legs) == 0 {
			continue
		}
		leg := route.Legs[0]

		meters := leg.Distance.Meters
		duration := int(leg.Duration.Seconds())
		inTraffic := int(leg.DurationInTraffic.Seconds())
		if inTraffic <= 0 {
			inTraffic = duration
		}

		candidates = append(candidates, domain.RouteCandidate{
			ID:                       uuid.New().String(),
			Summary:                  route.Summary,
			DistanceMiles:            float64(meters) / 1609.344,
			DistanceMeters:           meters,
			DurationSeconds:          duration,
			DurationInTrafficSeconds: inTraffic,
			Polyline:                 route.OverviewPolyline.Points,
		})
	}

	if len(candidates) == 0 {
		return nil, ErrNoRoute
	}
	return candidates, nil
}
