package service

import (
	"context"
	"log"
	"math"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"bookride/internal/domain"
	"bookride/internal/geo"
	internalRedis "bookride/internal/redis"
	"bookride/internal/routing"
)

const (
	// Simulated drivers start between these distances from the pickup.
	minDriverStartMiles = 0.6
	maxDriverStartMiles = 1.4

	// fallbackMinutesPerMile estimates the pickup ETA when routing fails
	// (30 mph straight-line assumption).
	fallbackMinutesPerMile = 2.0

	milesPerDegreeLat = 69.0
)

// driverProfile is the static part of a synthesized driver.
type driverProfile struct {
	name         string
	rating       float64
	vehicleModel string
	vehicleColor string
	plateNumber  string
}

var driverPool = []driverProfile{
	{"Marcus Webb", 4.9, "Toyota Camry", "Silver", "8XKT412"},
	{"Elena Vasquez", 4.8, "Honda Accord", "Black", "3PLM099"},
	{"Dmitri Alves", 4.7, "Hyundai Sonata", "White", "7QRC305"},
	{"Priya Nair", 5.0, "Kia K5", "Blue", "2VWN871"},
	{"Sam Okafor", 4.6, "Nissan Altima", "Gray", "5JDH630"},
}

// MatchResult is the outcome of a successful driver match.
type MatchResult struct {
	DriverID    string
	Driver      *domain.DriverAssignment
	StartPoint  domain.Coordinate
	DriverRoute []domain.Coordinate
}

// MatchingService stands in for the external driver matching collaborator.
// It synthesizes a driver near the pickup point, registers it in the geo
// index and resolves the driver-to-pickup leg through the routing
// collaborator, falling back to a straight two-point line.
type MatchingService struct {
	router    routing.Router
	locations internalRedis.DriverLocationStoreInterface
}

// NewMatchingService creates a new MatchingService. locations may be nil
// when Redis is unavailable; matching still works without the geo index.
func NewMatchingService(router routing.Router, locations internalRedis.DriverLocationStoreInterface) *MatchingService {
	return &MatchingService{
		router:    router,
		locations: locations,
	}
}

// Match produces a driver assignment and the driver-to-pickup phase route.
func (s *MatchingService) Match(ctx context.Context, pickup domain.Coordinate) (*MatchResult, error) {
	profile := driverPool[rand.Intn(len(driverPool))]
	start := randomStartNear(pickup)
	driverID := uuid.New().String()

	if s.locations != nil {
		// An idle driver already in the index beats minting a new one.
		if found, err := s.locations.Nearby(ctx, pickup.Lat, pickup.Lng, maxDriverStartMiles); err != nil {
			log.Printf("driver geo lookup failed (cell=%s): %v", internalRedis.Cell(pickup.Lat, pickup.Lng), err)
		} else if len(found) > 0 {
			driverID = found[0].DriverID
			start = domain.Coordinate{Lat: found[0].Lat, Lng: found[0].Lng}
		}
		if err := s.locations.Register(ctx, driverID, start.Lat, start.Lng); err != nil {
			// The geo index is advisory; matching proceeds without it.
			log.Printf("driver geo index unavailable (cell=%s): %v", internalRedis.Cell(start.Lat, start.Lng), err)
		}
	}

	route, etaMinutes := s.driverLeg(ctx, start, pickup)

	return &MatchResult{
		DriverID:   driverID,
		StartPoint: start,
		Driver: &domain.DriverAssignment{
			Name:             profile.name,
			Rating:           profile.rating,
			VehicleModel:     profile.vehicleModel,
			VehicleColor:     profile.vehicleColor,
			PlateNumber:      profile.plateNumber,
			AvatarInitials:   initials(profile.name),
			PickupEtaMinutes: etaMinutes,
		},
		DriverRoute: route,
	}, nil
}

// Release deletes a matched driver's geo index entry once the assignment
// ends. at must be the start point the driver was registered with.
func (s *MatchingService) Release(ctx context.Context, driverID string, at domain.Coordinate) error {
	if s.locations == nil {
		return nil
	}
	return s.locations.Remove(ctx, driverID, at.Lat, at.Lng)
}

// driverLeg resolves the driver-to-pickup polyline. Routing failures are
// absorbed: the leg degrades to a two-point line with the ETA estimated at
// two minutes per straight-line mile.
func (s *MatchingService) driverLeg(ctx context.Context, start, pickup domain.Coordinate) ([]domain.Coordinate, int) {
	straightMiles := geo.Distance(start, pickup)
	fallbackEta := etaFloor(int(math.Ceil(straightMiles * fallbackMinutesPerMile)))

	if s.router == nil {
		return []domain.Coordinate{start, pickup}, fallbackEta
	}

	candidates, err := s.router.Route(ctx, start, pickup)
	if err != nil || len(candidates) == 0 {
		log.Printf("driver leg routing failed, using straight line: %v", err)
		return []domain.Coordinate{start, pickup}, fallbackEta
	}

	leg := candidates[0]
	points := geo.DecodePolyline(leg.Polyline)
	if len(points) < 2 {
		return []domain.Coordinate{start, pickup}, fallbackEta
	}

	seconds := leg.DurationInTrafficSeconds
	if seconds <= 0 {
		seconds = leg.DurationSeconds
	}
	return points, etaFloor(int(math.Ceil(float64(seconds) / 60)))
}

// randomStartNear places the simulated driver 0.6-1.4 miles from the pickup
// at a random bearing.
func randomStartNear(pickup domain.Coordinate) domain.Coordinate {
	miles := minDriverStartMiles + rand.Float64()*(maxDriverStartMiles-minDriverStartMiles)
	theta := rand.Float64() * 2 * math.Pi

	milesPerDegreeLng := milesPerDegreeLat * math.Cos(pickup.Lat*math.Pi/180)
	if milesPerDegreeLng < 1 {
		milesPerDegreeLng = 1
	}

	return domain.Coordinate{
		Lat: pickup.Lat + miles*math.Cos(theta)/milesPerDegreeLat,
		Lng: pickup.Lng + miles*math.Sin(theta)/milesPerDegreeLng,
	}
}

func etaFloor(minutes int) int {
	if minutes < 1 {
		return 1
	}
	return minutes
}

func initials(name string) string {
	parts := strings.Fields(name)
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteByte(p[0])
	}
	return strings.ToUpper(sb.String())
}
