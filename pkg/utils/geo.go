package utils

import "math"

const earthRadiusMeters = 6371000.0

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ValidCoordinate reports whether c lies on the globe.
func ValidCoordinate(c Coordinate) bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// HaversineMeters is the great-circle distance between a and b.
func HaversineMeters(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BoundingBox returns a lat/lon box enclosing the circle of radius meters
// around c. Used to pre-filter rows in SQL before the exact distance check.
func BoundingBox(c Coordinate, radiusMeters float64) (minLat, maxLat, minLon, maxLon float64) {
	dLat := radiusMeters / earthRadiusMeters * 180 / math.Pi
	cosLat := math.Cos(c.Latitude * math.Pi / 180)
	if cosLat < 1e-6 {
		return c.Latitude - dLat, c.Latitude + dLat, -180, 180
	}
	dLon := dLat / cosLat
	return c.Latitude - dLat, c.Latitude + dLat, c.Longitude - dLon, c.Longitude + dLon
}
