package geo

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used for every distance in this module.
const EarthRadiusMeters = 6_371_000.0

const degToRad = math.Pi / 180

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * degToRad
	lat2r := lat2 * degToRad
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if a > 1 {
		a = 1
	}
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// DistanceToRect returns the minimum great-circle distance in meters from a
// point to the latitude/longitude rectangle [minLat,maxLat] x [minLon,maxLon].
// The result is 0 when the point lies inside the rectangle. Longitude spans
// are measured on the circle, so a rectangle on the other side of the
// antimeridian is reported at its true distance.
func DistanceToRect(lat, lon, minLat, minLon, maxLat, maxLon float64) float64 {
	rect := s2.Rect{
		Lat: r1.Interval{Lo: minLat * degToRad, Hi: maxLat * degToRad},
		Lng: s1.IntervalFromEndpoints(minLon*degToRad, maxLon*degToRad),
	}
	angle := rect.DistanceToLatLng(s2.LatLngFromDegrees(lat, lon))
	return float64(angle) * EarthRadiusMeters
}

// ValidCoordinate reports whether lat/lon are finite and inside the WGS84 range.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
