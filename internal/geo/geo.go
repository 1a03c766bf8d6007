// Package geo provides pure geographic math for the trip tracking core:
// great-circle distance, bearings, interpolation, polyline codecs and
// maneuver classification. All functions are stateless.
package geo

import (
	"math"

	"bookride/internal/domain"
)

// earthRadiusMiles is the mean Earth radius used for all distance math.
const earthRadiusMiles = 3959.0

// Maneuver is a classified turn direction derived from consecutive
// route-segment headings.
type Maneuver string

const (
	ManeuverContinue    Maneuver = "continue"
	ManeuverSlightLeft  Maneuver = "slight_left"
	ManeuverSlightRight Maneuver = "slight_right"
	ManeuverLeft        Maneuver = "left"
	ManeuverRight       Maneuver = "right"
	ManeuverSharpLeft   Maneuver = "sharp_left"
	ManeuverSharpRight  Maneuver = "sharp_right"
)

// Distance returns the haversine great-circle distance between a and b in
// miles.
func Distance(a, b domain.Coordinate) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	rLat1 := radians(a.Lat)
	rLat2 := radians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// Bearing returns the initial bearing from a to b in degrees [0, 360).
func Bearing(a, b domain.Coordinate) float64 {
	rLat1 := radians(a.Lat)
	rLat2 := radians(b.Lat)
	dLng := radians(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(rLat2)
	x := math.Cos(rLat1)*math.Sin(rLat2) - math.Sin(rLat1)*math.Cos(rLat2)*math.Cos(dLng)

	deg := degrees(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// Interpolate returns the point a fraction t of the way from a to b. Linear
// interpolation is close enough at tracking resolution; t is clamped to
// [0, 1].
func Interpolate(a, b domain.Coordinate, t float64) domain.Coordinate {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return domain.Coordinate{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}

// TurnDirection buckets the signed heading change between two consecutive
// segments into a maneuver. The delta is wrapped to (-180, 180]; positive is
// a right turn.
func TurnDirection(headingBefore, headingAfter float64) Maneuver {
	d := WrapDelta(headingAfter - headingBefore)
	abs := math.Abs(d)

	switch {
	case abs < 30:
		return ManeuverContinue
	case abs < 90:
		if d < 0 {
			return ManeuverSlightLeft
		}
		return ManeuverSlightRight
	case abs < 135:
		if d < 0 {
			return ManeuverLeft
		}
		return ManeuverRight
	default:
		if d < 0 {
			return ManeuverSharpLeft
		}
		return ManeuverSharpRight
	}
}

// WrapDelta normalizes an angular difference in degrees to (-180, 180].
func WrapDelta(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

// PathDistance sums the consecutive segment distances of points[from:] in
// miles. Out-of-range indexes yield 0.
func PathDistance(points []domain.Coordinate, from int) float64 {
	if from < 0 {
		from = 0
	}
	total := 0.0
	for i := from; i < len(points)-1; i++ {
		total += Distance(points[i], points[i+1])
	}
	return total
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
