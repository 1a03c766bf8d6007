package geo

import (
	"math"
	"strings"

	"bookride/internal/domain"
)

// polylineScale is the standard 1e5 precision of the encoded polyline format.
const polylineScale = 1e5

// DecodePolyline decodes a signed-varint delta polyline into coordinates.
// Malformed input never panics; it yields nil so callers can fall back to a
// straight-line route.
func DecodePolyline(encoded string) []domain.Coordinate {
	var coords []domain.Coordinate
	var lat, lng int64

	i := 0
	for i < len(encoded) {
		dLat, next, ok := decodeSigned(encoded, i)
		if !ok {
			return nil
		}
		dLng, next2, ok := decodeSigned(encoded, next)
		if !ok {
			return nil
		}
		i = next2

		lat += dLat
		lng += dLng
		coords = append(coords, domain.Coordinate{
			Lat: float64(lat) / polylineScale,
			Lng: float64(lng) / polylineScale,
		})
	}

	return coords
}

// EncodePolyline is the inverse of DecodePolyline. Round-tripping preserves
// points to within 1e-5 degrees.
func EncodePolyline(points []domain.Coordinate) string {
	var sb strings.Builder
	var prevLat, prevLng int64

	for _, p := range points {
		lat := int64(math.Round(p.Lat * polylineScale))
		lng := int64(math.Round(p.Lng * polylineScale))
		encodeSigned(&sb, lat-prevLat)
		encodeSigned(&sb, lng-prevLng)
		prevLat, prevLng = lat, lng
	}

	return sb.String()
}

// decodeSigned reads one zigzag-encoded varint starting at pos. ok is false
// when the chunk is truncated, contains out-of-range bytes, or overflows.
func decodeSigned(s string, pos int) (value int64, next int, ok bool) {
	var result int64
	var shift uint

	for {
		if pos >= len(s) {
			return 0, 0, false
		}
		b := int64(s[pos]) - 63
		if b < 0 || b > 63 {
			return 0, 0, false
		}
		pos++

		result |= (b & 0x1f) << shift
		shift += 5

		if b < 0x20 {
			break
		}
		if shift > 35 {
			return 0, 0, false
		}
	}

	if result&1 != 0 {
		result = ^(result >> 1)
	} else {
		result >>= 1
	}
	return result, pos, true
}

func encodeSigned(sb *strings.Builder, v int64) {
	u := uint64(v) << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		sb.WriteByte(byte((u&0x1f)|0x20) + 63)
		u >>= 5
	}
	sb.WriteByte(byte(u) + 63)
}
