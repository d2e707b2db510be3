package result

import "github.com/kailas-cloud/satvach/internal/domain/location"

// Hit is a location annotated with its distance from the query center.
// The distance is computed per query and never stored on the location.
type Hit struct {
	location location.Location
	distance float64
}

// NewHit creates a search hit.
func NewHit(loc location.Location, distanceMeters float64) Hit {
	return Hit{location: loc, distance: distanceMeters}
}

// Location returns the matched location.
func (h *Hit) Location() location.Location { return h.location }

// DistanceMeters returns the geodesic distance from the query center.
func (h *Hit) DistanceMeters() float64 { return h.distance }

// Page is one page of radius search results plus the unpaginated match count.
type Page struct {
	Items []Hit
	Total int
}
