package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/satvach/internal/domain/geo"
	"github.com/kailas-cloud/satvach/internal/domain/location"
	"github.com/kailas-cloud/satvach/internal/domain/search/filter"
	"github.com/kailas-cloud/satvach/internal/domain/search/mode"
	"github.com/kailas-cloud/satvach/internal/domain/search/request"
	"github.com/kailas-cloud/satvach/internal/domain/search/result"
	"github.com/kailas-cloud/satvach/internal/logger"
	"github.com/kailas-cloud/satvach/internal/metrics"
)

// Defaults for Options fields left zero.
const (
	DefaultRadiusSlack            = 0.01
	DefaultViewportCandidateLimit = 5000
)

// Options tunes index lookups.
type Options struct {
	// RadiusSlack widens index lookups by this fraction. The index measures
	// distance on a slightly larger sphere and stores points as geohashes,
	// so an exact-radius lookup can miss records on the boundary.
	RadiusSlack float64
	// ViewportCandidateLimit is the first index lookup count of a viewport
	// query. It doubles while filtered-out entries leave the page short.
	ViewportCandidateLimit int
}

// Service answers spatial queries over locations. It never writes.
type Service struct {
	repo Repository
	opts Options
}

// New creates a search service.
func New(repo Repository, opts Options) *Service {
	if opts.RadiusSlack <= 0 {
		opts.RadiusSlack = DefaultRadiusSlack
	}
	if opts.ViewportCandidateLimit <= 0 {
		opts.ViewportCandidateLimit = DefaultViewportCandidateLimit
	}
	return &Service{repo: repo, opts: opts}
}

// Search returns the page of locations within the request radius that satisfy
// its filters, nearest first, with the total number of matches.
//
// Items and total come from a single evaluation of the predicate, so the total
// always agrees with what paging through the results would yield.
func (s *Service) Search(ctx context.Context, req *request.RadiusRequest) (result.Page, error) {
	start := time.Now()
	hits, total, candidates, err := s.matchRadius(ctx, req, req.Skip(), req.Limit())
	metrics.ObserveSearch(string(mode.Radius), start, candidates, total, err)
	if err != nil {
		return result.Page{}, err
	}

	logger.FromContext(ctx).Debug("radius search",
		zap.Int("radius", req.Radius()),
		zap.Int("candidates", candidates),
		zap.Int("total", total),
		zap.Int("returned", len(hits)),
	)
	return result.Page{Items: hits, Total: total}, nil
}

// SearchViewport returns up to the request limit of locations inside the
// rectangle, boundaries included, nearest to its center first. It computes
// no distances and no total.
func (s *Service) SearchViewport(ctx context.Context, req *request.ViewportRequest) ([]location.Location, error) {
	start := time.Now()
	out, candidates, err := s.matchViewport(ctx, req)
	metrics.ObserveSearch(string(mode.Viewport), start, candidates, len(out), err)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("viewport search",
		zap.Int("candidates", candidates),
		zap.Int("returned", len(out)),
	)
	return out, nil
}

// SearchRadius is the convenience radius search: first page only, no total.
func (s *Service) SearchRadius(ctx context.Context, req *request.NearbyRequest) ([]result.Hit, error) {
	start := time.Now()
	radius := req.AsRadius()
	hits, total, candidates, err := s.matchRadius(ctx, &radius, 0, req.Limit())
	metrics.ObserveSearch(string(mode.Nearby), start, candidates, total, err)
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// ranked is a match known by position only.
type ranked struct {
	id       int64
	distance float64
}

// matchRadius returns the matches of req at [skip, skip+limit) in (distance, id)
// order, the total number of matches and the number of index candidates.
//
// Status and category are decided by the index sets and distance by the stored
// coordinates, so full records are loaded for the window only. A text condition
// needs every record within the radius.
func (s *Service) matchRadius(
	ctx context.Context, req *request.RadiusRequest, skip, limit int,
) ([]result.Hit, int, int, error) {
	center := req.Center()
	radius := float64(req.Radius())

	// Centers beyond the index band search from the nearest indexable point
	// with the radius grown by the shift, which still covers the original circle.
	lookupCenter, shift := geo.ClampToIndex(center)
	if shift > radius {
		return []result.Hit{}, 0, 0, nil
	}
	lookupRadius := (radius+shift)*(1+s.opts.RadiusSlack) + 1

	filters := req.Filters()
	positions, err := s.repo.RadiusPositions(ctx, lookupCenter, lookupRadius, filters)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("radius candidates: %w", err)
	}

	within := make([]ranked, 0, len(positions))
	for _, p := range positions {
		if d := geo.Distance(center, p.Point); d <= radius {
			within = append(within, ranked{id: p.ID, distance: d})
		}
	}
	sort.Slice(within, func(i, j int) bool {
		if within[i].distance != within[j].distance {
			return within[i].distance < within[j].distance
		}
		return within[i].id < within[j].id
	})

	if filters.CoveredBy(location.FieldStatus, location.FieldCategory) {
		total := len(within)
		from := min(skip, total)
		to := min(from+limit, total)
		// Records are still checked: an index set may briefly lag a status change.
		hits, err := s.load(ctx, within[from:to], filters)
		if err != nil {
			return nil, 0, 0, err
		}
		return hits, total, len(positions), nil
	}

	hits, err := s.load(ctx, within, filters)
	if err != nil {
		return nil, 0, 0, err
	}
	total := len(hits)
	from := min(skip, total)
	to := min(from+limit, total)
	return hits[from:to], total, len(positions), nil
}

// load fetches the records of matches in order and keeps those satisfying filters.
func (s *Service) load(ctx context.Context, matches []ranked, filters filter.Expression) ([]result.Hit, error) {
	if len(matches) == 0 {
		return []result.Hit{}, nil
	}
	ids := make([]int64, len(matches))
	distance := make(map[int64]float64, len(matches))
	for i, m := range matches {
		ids[i] = m.id
		distance[m.id] = m.distance
	}

	locs, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	hits := make([]result.Hit, 0, len(locs))
	for i := range locs {
		loc := &locs[i]
		if !filters.Matches(loc) {
			continue
		}
		hits = append(hits, result.NewHit(*loc, distance[loc.ID()]))
	}
	return hits, nil
}

// matchViewport returns the first req.Limit() matches nearest to the rectangle
// center and the number of index entries scanned. Entries dropped by filters
// still use up the lookup count, so a short result from a full scan doubles
// the count and asks again until the limit is met or the box is exhausted.
func (s *Service) matchViewport(ctx context.Context, req *request.ViewportRequest) ([]location.Location, int, error) {
	rect := req.Rect()
	lookup := rect.ClampToIndex()
	width, height := lookup.EnclosingBox()
	slack := 1 + s.opts.RadiusSlack
	filters := req.Filters()

	for count := s.opts.ViewportCandidateLimit; ; count *= 2 {
		candidates, scanned, err := s.repo.BoxCandidates(ctx, lookup.Center(),
			width*slack+1, height*slack+1, filters, count)
		if err != nil {
			return nil, 0, fmt.Errorf("box candidates: %w", err)
		}

		out := make([]location.Location, 0, min(len(candidates), req.Limit()))
		for i := range candidates {
			loc := &candidates[i]
			if !rect.Contains(loc.Point()) || !filters.Matches(loc) {
				continue
			}
			out = append(out, *loc)
			if len(out) == req.Limit() {
				break
			}
		}
		if len(out) == req.Limit() || scanned < count {
			return out, scanned, nil
		}
	}
}
