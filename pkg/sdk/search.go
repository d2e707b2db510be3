package satvach

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/satvach/internal/domain/search/request"
)

// RadiusQuery selects locations within Radius meters of a center.
// Zero Radius and Limit select the defaults (5000 m, 20 items).
// An empty Status searches approved locations.
type RadiusQuery struct {
	Latitude  float64
	Longitude float64
	Radius    int
	Query     string
	Category  Category
	Status    Status
	Skip      int
	Limit     int
}

// ViewportQuery selects locations inside a rectangle, boundaries included.
// A zero Limit selects the default of 100.
type ViewportQuery struct {
	MinLng   float64
	MinLat   float64
	MaxLng   float64
	MaxLat   float64
	Category Category
	Status   Status
	Limit    int
}

// SearchService runs spatial queries.
type SearchService struct {
	svc searchUseCase
	obs *observer
}

// Radius returns one page of matches, nearest first, and the total match count.
func (s *SearchService) Radius(ctx context.Context, q RadiusQuery) (_ Page, err error) {
	start := time.Now()
	var total int
	defer func() { s.obs.observe("search_radius", start, err, "total", total) }()

	req, err := request.NewRadius(request.RadiusParams{
		Latitude:  q.Latitude,
		Longitude: q.Longitude,
		Radius:    optional(q.Radius),
		Query:     q.Query,
		Category:  string(q.Category),
		Status:    string(q.Status),
		Skip:      &q.Skip,
		Limit:     optional(q.Limit),
	})
	if err != nil {
		return Page{}, fmt.Errorf("radius search: %w", err)
	}
	page, err := s.svc.Search(ctx, &req)
	if err != nil {
		return Page{}, fmt.Errorf("radius search: %w", err)
	}
	total = page.Total
	return Page{Items: fromInternalHits(page.Items), Total: page.Total}, nil
}

// Viewport returns locations inside the rectangle, nearest to its center first.
func (s *SearchService) Viewport(ctx context.Context, q ViewportQuery) (_ []Location, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search_viewport", start, err) }()

	req, err := request.NewViewport(request.ViewportParams{
		MinLng:   q.MinLng,
		MinLat:   q.MinLat,
		MaxLng:   q.MaxLng,
		MaxLat:   q.MaxLat,
		Category: string(q.Category),
		Status:   string(q.Status),
		Limit:    optional(q.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("viewport search: %w", err)
	}
	locs, err := s.svc.SearchViewport(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("viewport search: %w", err)
	}
	return fromInternalLocations(locs), nil
}

// Nearby returns the first matches of a radius search without text filter or total.
// Zero radius and limit select the defaults (5000 m, 50 items).
func (s *SearchService) Nearby(
	ctx context.Context, lat, lng float64, radius int, category Category, limit int,
) (_ []Hit, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search_nearby", start, err) }()

	req, err := request.NewNearby(request.NearbyParams{
		Latitude:  lat,
		Longitude: lng,
		Radius:    optional(radius),
		Category:  string(category),
		Limit:     optional(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("nearby search: %w", err)
	}
	hits, err := s.svc.SearchRadius(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("nearby search: %w", err)
	}
	return fromInternalHits(hits), nil
}

// optional maps zero to nil so the request applies its default.
// Negative values pass through and fail validation.
func optional(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
