package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/satvach/internal/domain"
	"github.com/kailas-cloud/satvach/internal/domain/geo"
	"github.com/kailas-cloud/satvach/internal/domain/location"
	"github.com/kailas-cloud/satvach/internal/domain/search/filter"
)

// Search parameter limits.
const (
	MinRadius     = 500
	MaxRadius     = 50_000
	DefaultRadius = 5000
	// MaxQueryLength is the maximum allowed text query length in characters.
	MaxQueryLength       = 200
	DefaultLimit         = 20
	MaxLimit             = 100
	DefaultViewportLimit = 100
	DefaultNearbyLimit   = 50
)

// RadiusParams holds raw radius search parameters.
// Nil pointers select defaults; an explicit zero is validated like any other value.
type RadiusParams struct {
	Latitude  float64
	Longitude float64
	Radius    *int
	Query     string
	Category  string
	Status    string
	Skip      *int
	Limit     *int
}

// RadiusRequest is a validated radius search.
type RadiusRequest struct {
	center   geo.Point
	radius   int
	query    string
	category location.Category
	status   location.Status
	skip     int
	limit    int
	filters  filter.Expression
}

// NewRadius validates and normalizes radius search parameters.
// Defaults: radius=5000, status=approved, skip=0, limit=20.
func NewRadius(p RadiusParams) (RadiusRequest, error) {
	center, err := newCenter(p.Latitude, p.Longitude)
	if err != nil {
		return RadiusRequest{}, err
	}
	radius := intOr(p.Radius, DefaultRadius)
	if radius < MinRadius || radius > MaxRadius {
		return RadiusRequest{}, domain.Invalid("radius",
			fmt.Sprintf("must be between %d and %d meters", MinRadius, MaxRadius))
	}
	if utf8.RuneCountInString(p.Query) > MaxQueryLength {
		return RadiusRequest{}, domain.Invalid("query", fmt.Sprintf("too long (max %d chars)", MaxQueryLength))
	}
	category, status, err := parseFilters(p.Category, p.Status)
	if err != nil {
		return RadiusRequest{}, err
	}
	skip := intOr(p.Skip, 0)
	if skip < 0 {
		return RadiusRequest{}, domain.Invalid("skip", "must be >= 0")
	}
	limit, err := parseLimit(p.Limit, DefaultLimit)
	if err != nil {
		return RadiusRequest{}, err
	}

	query := strings.TrimSpace(p.Query)
	filters, err := buildFilters(status, category, query)
	if err != nil {
		return RadiusRequest{}, err
	}

	return RadiusRequest{
		center:   center,
		radius:   radius,
		query:    query,
		category: category,
		status:   status,
		skip:     skip,
		limit:    limit,
		filters:  filters,
	}, nil
}

// Center returns the query center.
func (r *RadiusRequest) Center() geo.Point { return r.center }

// Radius returns the search radius in meters.
func (r *RadiusRequest) Radius() int { return r.radius }

// Query returns the trimmed text query (empty when absent).
func (r *RadiusRequest) Query() string { return r.query }

// Category returns the category filter (empty when absent).
func (r *RadiusRequest) Category() location.Category { return r.category }

// Status returns the status filter.
func (r *RadiusRequest) Status() location.Status { return r.status }

// Skip returns the number of matches to skip.
func (r *RadiusRequest) Skip() int { return r.skip }

// Limit returns the page size.
func (r *RadiusRequest) Limit() int { return r.limit }

// Filters returns the attribute predicate: status and category must match,
// and when a query is set, title or description must contain it.
func (r *RadiusRequest) Filters() filter.Expression { return r.filters }

// ViewportParams holds raw viewport search parameters.
type ViewportParams struct {
	MinLng   float64
	MinLat   float64
	MaxLng   float64
	MaxLat   float64
	Category string
	Status   string
	Limit    *int
}

// ViewportRequest is a validated viewport search.
type ViewportRequest struct {
	rect     geo.Rect
	category location.Category
	status   location.Status
	limit    int
	filters  filter.Expression
}

// NewViewport validates viewport search parameters.
// Defaults: status=approved, limit=100.
func NewViewport(p ViewportParams) (ViewportRequest, error) {
	if !geo.ValidLongitude(p.MinLng) {
		return ViewportRequest{}, domain.Invalid("min_lng", "must be between -180 and 180")
	}
	if !geo.ValidLongitude(p.MaxLng) {
		return ViewportRequest{}, domain.Invalid("max_lng", "must be between -180 and 180")
	}
	if !geo.ValidLatitude(p.MinLat) {
		return ViewportRequest{}, domain.Invalid("min_lat", "must be between -90 and 90")
	}
	if !geo.ValidLatitude(p.MaxLat) {
		return ViewportRequest{}, domain.Invalid("max_lat", "must be between -90 and 90")
	}
	if p.MinLat > p.MaxLat {
		return ViewportRequest{}, domain.Invalid("min_lat", "must not exceed max_lat")
	}
	// Viewports crossing the antimeridian must be split by the caller.
	if p.MinLng > p.MaxLng {
		return ViewportRequest{}, domain.Invalid("min_lng", "must not exceed max_lng")
	}
	category, status, err := parseFilters(p.Category, p.Status)
	if err != nil {
		return ViewportRequest{}, err
	}
	limit, err := parseLimit(p.Limit, DefaultViewportLimit)
	if err != nil {
		return ViewportRequest{}, err
	}
	filters, err := buildFilters(status, category, "")
	if err != nil {
		return ViewportRequest{}, err
	}

	return ViewportRequest{
		rect:     geo.Rect{MinLng: p.MinLng, MinLat: p.MinLat, MaxLng: p.MaxLng, MaxLat: p.MaxLat},
		category: category,
		status:   status,
		limit:    limit,
		filters:  filters,
	}, nil
}

// Rect returns the viewport rectangle.
func (r *ViewportRequest) Rect() geo.Rect { return r.rect }

// Category returns the category filter (empty when absent).
func (r *ViewportRequest) Category() location.Category { return r.category }

// Status returns the status filter.
func (r *ViewportRequest) Status() location.Status { return r.status }

// Limit returns the maximum number of locations returned.
func (r *ViewportRequest) Limit() int { return r.limit }

// Filters returns the status and category predicate.
func (r *ViewportRequest) Filters() filter.Expression { return r.filters }

// NearbyParams holds raw parameters of the convenience radius search.
type NearbyParams struct {
	Latitude  float64
	Longitude float64
	Radius    *int
	Category  string
	Status    string
	Limit     *int
}

// NearbyRequest is a validated convenience radius search: no text, no offset, no total.
type NearbyRequest struct {
	radius RadiusRequest
}

// NewNearby validates nearby search parameters.
// Defaults: radius=5000, status=approved, limit=50.
func NewNearby(p NearbyParams) (NearbyRequest, error) {
	limit := DefaultNearbyLimit
	if p.Limit != nil {
		limit = *p.Limit
	}
	r, err := NewRadius(RadiusParams{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Radius:    p.Radius,
		Category:  p.Category,
		Status:    p.Status,
		Limit:     &limit,
	})
	if err != nil {
		return NearbyRequest{}, err
	}
	return NearbyRequest{radius: r}, nil
}

// AsRadius returns the equivalent first-page radius search.
func (r *NearbyRequest) AsRadius() RadiusRequest { return r.radius }

// Limit returns the maximum number of locations returned.
func (r *NearbyRequest) Limit() int { return r.radius.limit }

func newCenter(lat, lng float64) (geo.Point, error) {
	if !geo.ValidLatitude(lat) {
		return geo.Point{}, domain.Invalid("latitude", "must be between -90 and 90")
	}
	if !geo.ValidLongitude(lng) {
		return geo.Point{}, domain.Invalid("longitude", "must be between -180 and 180")
	}
	return geo.Point{Lat: lat, Lng: lng}, nil
}

func parseFilters(rawCategory, rawStatus string) (location.Category, location.Status, error) {
	category := location.Category(rawCategory)
	if category != "" && !category.IsValid() {
		return "", "", domain.Invalid(location.FieldCategory, fmt.Sprintf("unknown category %q", rawCategory))
	}
	status := location.Status(rawStatus)
	if status == "" {
		status = location.Approved
	}
	if !status.IsValid() {
		return "", "", domain.Invalid(location.FieldStatus, fmt.Sprintf("unknown status %q", rawStatus))
	}
	return category, status, nil
}

func parseLimit(p *int, def int) (int, error) {
	limit := intOr(p, def)
	if limit < 1 || limit > MaxLimit {
		return 0, domain.Invalid("limit", fmt.Sprintf("must be between 1 and %d", MaxLimit))
	}
	return limit, nil
}

func buildFilters(status location.Status, category location.Category, query string) (filter.Expression, error) {
	statusCond, err := filter.NewMatch(location.FieldStatus, string(status))
	if err != nil {
		return filter.Expression{}, err
	}
	must := []filter.Condition{statusCond}
	if category != "" {
		c, err := filter.NewMatch(location.FieldCategory, string(category))
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}

	var should []filter.Condition
	if query != "" {
		for _, field := range []string{location.FieldTitle, location.FieldDescription} {
			c, err := filter.NewContains(field, query)
			if err != nil {
				return filter.Expression{}, err
			}
			should = append(should, c)
		}
	}

	return filter.NewExpression(must, should, nil)
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
