package geo

import (
	"math"
	"testing"

	"bookride/internal/domain"
)

func TestDistance_KnownPair(t *testing.T) {
	t.Parallel()

	nyc := domain.Coordinate{Lat: 40.7128, Lng: -74.0060}
	la := domain.Coordinate{Lat: 34.0522, Lng: -118.2437}

	got := Distance(nyc, la)
	// Great-circle NYC-LA is about 2445 miles.
	if got < 2435 || got > 2455 {
		t.Errorf("Distance(nyc, la) = %f, want ~2445", got)
	}
}

func TestDistance_IdenticalPoints(t *testing.T) {
	t.Parallel()

	p := domain.Coordinate{Lat: 40.7128, Lng: -74.0060}
	if got := Distance(p, p); got != 0 {
		t.Errorf("Distance(p, p) = %f, want 0", got)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	t.Parallel()

	a := domain.Coordinate{Lat: 40.7128, Lng: -74.0060}
	b := domain.Coordinate{Lat: 40.7306, Lng: -73.9866}

	if ab, ba := Distance(a, b), Distance(b, a); math.Abs(ab-ba) > 1e-12 {
		t.Errorf("Distance not symmetric: %f vs %f", ab, ba)
	}
}

func TestBearing_CardinalDirections(t *testing.T) {
	t.Parallel()

	origin := domain.Coordinate{Lat: 0, Lng: 1}
	tests := []struct {
		name string
		to   domain.Coordinate
		want float64
	}{
		{"north", domain.Coordinate{Lat: 1, Lng: 1}, 0},
		{"east", domain.Coordinate{Lat: 0, Lng: 2}, 90},
		{"south", domain.Coordinate{Lat: -1, Lng: 1}, 180},
		{"west", domain.Coordinate{Lat: 0, Lng: 0}, 270},
	}

	for _, tt := range tests {
		got := Bearing(origin, tt.to)
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("Bearing %s = %f, want %f", tt.name, got, tt.want)
		}
	}
}

func TestBearing_Range(t *testing.T) {
	t.Parallel()

	a := domain.Coordinate{Lat: 40.7128, Lng: -74.0060}
	b := domain.Coordinate{Lat: 40.7000, Lng: -74.0200}

	got := Bearing(a, b)
	if got < 0 || got >= 360 {
		t.Errorf("Bearing = %f, want [0, 360)", got)
	}
}

func TestTurnDirection_Buckets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		before float64
		after  float64
		want   Maneuver
	}{
		{"straight ahead", 90, 90, ManeuverContinue},
		{"just under continue threshold", 90, 119, ManeuverContinue},
		{"slight right", 90, 135, ManeuverSlightRight},
		{"slight left", 90, 45, ManeuverSlightLeft},
		{"right", 0, 90, ManeuverRight},
		{"left", 90, 0, ManeuverLeft},
		{"sharp right", 0, 150, ManeuverSharpRight},
		{"sharp left", 150, 0, ManeuverSharpLeft},
		{"wraps across north going right", 350, 15, ManeuverContinue},
		{"wraps across north going left", 10, 250, ManeuverLeft},
	}

	for _, tt := range tests {
		if got := TurnDirection(tt.before, tt.after); got != tt.want {
			t.Errorf("%s: TurnDirection(%f, %f) = %s, want %s", tt.name, tt.before, tt.after, got, tt.want)
		}
	}
}

func TestWrapDelta_ShortestPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		delta float64
		want  float64
	}{
		{0, 0},
		{20, 20},
		{-20, -20},
		{190, -170},
		{-190, 170},
		{180, 180},
		{360, 0},
	}

	for _, tt := range tests {
		if got := WrapDelta(tt.delta); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WrapDelta(%f) = %f, want %f", tt.delta, got, tt.want)
		}
	}
}

func TestInterpolate(t *testing.T) {
	t.Parallel()

	a := domain.Coordinate{Lat: 0, Lng: 0}
	b := domain.Coordinate{Lat: 10, Lng: 20}

	mid := Interpolate(a, b, 0.5)
	if mid.Lat != 5 || mid.Lng != 10 {
		t.Errorf("Interpolate midpoint = %+v, want {5 10}", mid)
	}

	// t outside [0,1] clamps to the endpoints.
	if got := Interpolate(a, b, -1); got != a {
		t.Errorf("Interpolate(t=-1) = %+v, want %+v", got, a)
	}
	if got := Interpolate(a, b, 2); got != b {
		t.Errorf("Interpolate(t=2) = %+v, want %+v", got, b)
	}
}

func TestPathDistance(t *testing.T) {
	t.Parallel()

	points := []domain.Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 0.01},
		{Lat: 0, Lng: 0.02},
		{Lat: 0, Lng: 0.03},
	}

	total := PathDistance(points, 0)
	if total <= 0 {
		t.Fatalf("PathDistance from 0 = %f, want > 0", total)
	}

	// Remaining distance shrinks as the index advances and is zero at the
	// final point.
	prev := total
	for i := 1; i < len(points); i++ {
		remaining := PathDistance(points, i)
		if remaining >= prev {
			t.Errorf("PathDistance(%d) = %f, not less than %f", i, remaining, prev)
		}
		prev = remaining
	}
	if got := PathDistance(points, len(points)-1); got != 0 {
		t.Errorf("PathDistance at final index = %f, want 0", got)
	}
}
