package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Unit is a distance unit accepted in radius parameters.
type Unit string

// Supported units. The set matches what GEO queries of the search backend understand.
const (
	Meters     Unit = "m"
	Kilometers Unit = "km"
	Miles      Unit = "mi"
	Feet       Unit = "ft"
)

var metersPer = map[Unit]float64{
	Meters:     1,
	Kilometers: 1000,
	Miles:      1609.344,
	Feet:       0.3048,
}

// Units returns all supported units in their default lookup order.
func Units() []Unit {
	return []Unit{Meters, Kilometers, Miles, Feet}
}

// ParseUnit maps a unit name to a Unit.
func ParseUnit(s string) (Unit, bool) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	_, ok := metersPer[u]
	return u, ok
}

// IsValid reports whether the unit is supported.
func (u Unit) IsValid() bool {
	_, ok := metersPer[u]
	return ok
}

// ToMeters converts v expressed in u to meters.
func (u Unit) ToMeters(v float64) float64 {
	return v * metersPer[u]
}

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Orb returns the point in orb's (lon, lat) order.
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// String formats the point as "lat,lon".
func (p Point) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}

// Radius is a distance bound with its unit.
type Radius struct {
	Value float64
	Unit  Unit
}

// Meters returns the radius converted to meters.
func (r Radius) Meters() float64 {
	return r.Unit.ToMeters(r.Value)
}

// String formats the radius as "<value><unit>".
func (r Radius) String() string {
	return strconv.FormatFloat(r.Value, 'f', -1, 64) + string(r.Unit)
}

// Distance returns the great-circle distance in meters between a and b.
func Distance(a, b Point) float64 {
	return orbgeo.DistanceHaversine(a.Orb(), b.Orb())
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ParsePoint parses "lat,lon". Both components must be numeric and in range.
func ParsePoint(s string) (Point, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok || strings.Contains(lonStr, ",") {
		return Point{}, errors.New("expected two comma-separated components")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Point{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Point{}, fmt.Errorf("longitude: %w", err)
	}
	if !ValidateCoordinates(lat, lon) {
		return Point{}, fmt.Errorf("coordinates out of range: %g,%g", lat, lon)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// ParseLonLat parses the "lon,lat" form GEO index fields are stored in.
func ParseLonLat(s string) (Point, error) {
	lonStr, latStr, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, errors.New("expected lon,lat")
	}
	return ParsePoint(latStr + "," + lonStr)
}
