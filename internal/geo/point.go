// Package geo implements radius based event discovery.
//
// Coordinates are always handled as (latitude, longitude). The only place
// where the order is transposed is XY, which yields the (x=longitude,
// y=latitude) pair expected by PostGIS.
package geo

import (
	"errors"
	"math"

	"server-yool/internal/schemas"
)

// EarthRadiusKm is the mean earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0088

// MaxRadiusKm is half the earth's circumference, any larger radius covers the globe.
const MaxRadiusKm = math.Pi * EarthRadiusKm

var ErrInvalidPoint = errors.New("invalid point")

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// NewPoint validates and returns a point.
func NewPoint(lat, lng float64) (Point, error) {
	p := Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return Point{}, ErrInvalidPoint
	}
	return p, nil
}

// FromLocation converts a stored or requested location.
func FromLocation(loc schemas.Location) (Point, error) {
	return NewPoint(loc.Latitude, loc.Longitude)
}

// FromXY builds a point from PostGIS (x, y) order.
func FromXY(x, y float64) Point {
	return Point{Lat: y, Lng: x}
}

// Valid reports whether the point lies within the WGS84 bounds.
func (p Point) Valid() bool {
	return isFinite(p.Lat) && isFinite(p.Lng) &&
		p.Lat >= -90 && p.Lat <= 90 &&
		p.Lng >= -180 && p.Lng <= 180
}

// XY returns the point in PostGIS (x=longitude, y=latitude) order.
func (p Point) XY() (x, y float64) {
	return p.Lng, p.Lat
}

// Location converts the point back to its API representation.
func (p Point) Location() schemas.Location {
	return schemas.Location{Latitude: p.Lat, Longitude: p.Lng}
}

// DistanceKm returns the haversine distance between a and b.
func DistanceKm(a, b Point) float64 {
	lat1, lat2 := toRadians(a.Lat), toRadians(b.Lat)
	dLat := lat2 - lat1
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
