package geo

import (
	"math"

	"github.com/twpayne/go-geom"
)

// EarthRadiusMeters is the mean radius of Earth used for Haversine distance.
const EarthRadiusMeters = 6_371_000.0

// MaxIndexLatitude is the highest absolute latitude a geohash index can store
// (the Web Mercator limit).
const MaxIndexLatitude = 85.05112878

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// ValidLatitude reports whether lat is in [-90,90].
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lon is in [-180,180].
func ValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return ValidLatitude(lat) && ValidLongitude(lon)
}

// Haversine returns the great-circle distance in meters between two points
// specified by latitude and longitude in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Distance returns the great-circle distance in meters between a and b.
func Distance(a, b Point) float64 {
	return Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
}

// Indexable reports whether p can be stored in the geohash index.
func Indexable(p Point) bool {
	return p.Lat >= -MaxIndexLatitude && p.Lat <= MaxIndexLatitude
}

// ClampToIndex returns the nearest indexable point on the same meridian and
// the distance in meters between p and that point.
func ClampToIndex(p Point) (Point, float64) {
	if Indexable(p) {
		return p, 0
	}
	clamped := Point{Lat: clampLat(p.Lat), Lng: p.Lng}
	return clamped, Distance(p, clamped)
}

// Rect is an axis-aligned rectangle in degrees, boundaries inclusive.
type Rect struct {
	MinLng float64
	MinLat float64
	MaxLng float64
	MaxLat float64
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{Lat: (r.MinLat + r.MaxLat) / 2, Lng: (r.MinLng + r.MaxLng) / 2}
}

// Bounds returns r as a go-geom XY bounds (x = longitude, y = latitude).
func (r Rect) Bounds() *geom.Bounds {
	return geom.NewBounds(geom.XY).Set(r.MinLng, r.MinLat, r.MaxLng, r.MaxLat)
}

// Contains reports whether p lies within or on the boundary of r.
func (r Rect) Contains(p Point) bool {
	return r.Bounds().OverlapsPoint(geom.XY, geom.Coord{p.Lng, p.Lat})
}

// ClampToIndex shrinks r to the indexable latitude band.
func (r Rect) ClampToIndex() Rect {
	return Rect{MinLng: r.MinLng, MinLat: clampLat(r.MinLat), MaxLng: r.MaxLng, MaxLat: clampLat(r.MaxLat)}
}

// EnclosingBox returns the width and height in meters of a box centered on
// r.Center() that covers r when longitude distance is measured along each
// point's own parallel. Width is taken on the parallel closest to the equator,
// where a degree of longitude is longest.
func (r Rect) EnclosingBox() (width, height float64) {
	c := r.Center()
	height = Haversine(r.MinLat, c.Lng, r.MaxLat, c.Lng)

	widest := 0.0
	switch {
	case r.MinLat > 0:
		widest = r.MinLat
	case r.MaxLat < 0:
		widest = r.MaxLat
	}
	width = 2 * Haversine(widest, c.Lng, widest, r.MaxLng)
	return width, height
}

func clampLat(lat float64) float64 {
	return math.Max(-MaxIndexLatitude, math.Min(MaxIndexLatitude, lat))
}
