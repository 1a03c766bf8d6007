package domain

// Coordinate is an immutable point on the sphere in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsValid reports whether the coordinate is within WGS-84 bounds and not the
// (0,0) null island placeholder that clients send for an unset location.
func (c Coordinate) IsValid() bool {
	if c.Lat == 0 && c.Lng == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
