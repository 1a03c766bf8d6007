package geo

import (
	"math"
	"testing"

	"bookride/internal/domain"
)

func TestDecodePolyline_ReferenceString(t *testing.T) {
	t.Parallel()

	// The worked example from the polyline format documentation.
	points := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	want := []domain.Coordinate{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	}

	if len(points) != len(want) {
		t.Fatalf("decoded %d points, want %d", len(points), len(want))
	}
	for i := range want {
		if math.Abs(points[i].Lat-want[i].Lat) > 1e-5 || math.Abs(points[i].Lng-want[i].Lng) > 1e-5 {
			t.Errorf("point %d = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestDecodePolyline_Empty(t *testing.T) {
	t.Parallel()

	if points := DecodePolyline(""); points != nil {
		t.Errorf("DecodePolyline(\"\") = %v, want nil", points)
	}
}

func TestDecodePolyline_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		encoded string
	}{
		{"truncated mid varint", "_p~iF~ps|U_"},
		{"dangling continuation", "_p~iF~"},
		{"byte below range", "_p~iF~ps|U !"},
	}

	for _, tt := range tests {
		if points := DecodePolyline(tt.encoded); points != nil {
			t.Errorf("%s: DecodePolyline(%q) = %v, want nil", tt.name, tt.encoded, points)
		}
	}
}

func TestPolyline_RoundTrip(t *testing.T) {
	t.Parallel()

	original := []domain.Coordinate{
		{Lat: 40.71280, Lng: -74.00600},
		{Lat: 40.71405, Lng: -74.00512},
		{Lat: 40.71822, Lng: -73.99988},
		{Lat: 40.73060, Lng: -73.98660},
	}

	decoded := DecodePolyline(EncodePolyline(original))
	if len(decoded) != len(original) {
		t.Fatalf("round trip produced %d points, want %d", len(decoded), len(original))
	}
	for i := range original {
		if math.Abs(decoded[i].Lat-original[i].Lat) > 1e-5 || math.Abs(decoded[i].Lng-original[i].Lng) > 1e-5 {
			t.Errorf("point %d = %+v, want %+v", i, decoded[i], original[i])
		}
	}
}
