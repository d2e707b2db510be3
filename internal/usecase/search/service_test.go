package search

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/kailas-cloud/satvach/internal/domain/geo"
	"github.com/kailas-cloud/satvach/internal/domain/location"
	"github.com/kailas-cloud/satvach/internal/domain/search/filter"
	"github.com/kailas-cloud/satvach/internal/domain/search/request"
	"github.com/kailas-cloud/satvach/internal/domain/search/result"
)

// --- Mocks ---

// mockRepo over-selects on purpose: it ignores the lookup radius and box and
// treats every stored record, in slice order, as an index hit. Like the real
// repository it drops records outside the required status and category.
type mockRepo struct {
	locs []location.Location
	err  error
	// stale skips the status and category check, as when an index set lags
	// behind a record.
	stale bool

	radiusCalls int
	lastCenter  geo.Point
	lastRadius  float64
	boxLimits   []int
	lastWidth   float64
	lastHeight  float64
	loaded      []int64
}

func (m *mockRepo) indexed(l *location.Location, filters filter.Expression) bool {
	if m.stale {
		return true
	}
	for _, field := range []string{location.FieldStatus, location.FieldCategory} {
		if v, ok := filters.MustMatch(field); ok && l.Field(field) != v {
			return false
		}
	}
	return true
}

func (m *mockRepo) RadiusPositions(
	_ context.Context, center geo.Point, radiusMeters float64, filters filter.Expression,
) ([]location.Position, error) {
	m.radiusCalls++
	m.lastCenter = center
	m.lastRadius = radiusMeters
	if m.err != nil {
		return nil, m.err
	}
	var out []location.Position
	for i := range m.locs {
		if m.indexed(&m.locs[i], filters) {
			out = append(out, location.Position{ID: m.locs[i].ID(), Point: m.locs[i].Point()})
		}
	}
	return out, nil
}

func (m *mockRepo) BoxCandidates(
	_ context.Context, center geo.Point, widthMeters, heightMeters float64,
	filters filter.Expression, limit int,
) ([]location.Location, int, error) {
	m.lastCenter = center
	m.lastWidth = widthMeters
	m.lastHeight = heightMeters
	m.boxLimits = append(m.boxLimits, limit)
	if m.err != nil {
		return nil, 0, m.err
	}
	scan := m.locs
	if limit > 0 && len(scan) > limit {
		scan = scan[:limit]
	}
	var out []location.Location
	for i := range scan {
		if m.indexed(&scan[i], filters) {
			out = append(out, scan[i])
		}
	}
	return out, len(scan), nil
}

func (m *mockRepo) GetMany(_ context.Context, ids []int64) ([]location.Location, error) {
	m.loaded = append(m.loaded, ids...)
	out := make([]location.Location, 0, len(ids))
	for _, id := range ids {
		for i := range m.locs {
			if m.locs[i].ID() == id {
				out = append(out, m.locs[i])
				break
			}
		}
	}
	return out, nil
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func loc(t *testing.T, id int64, title string, lat, lng float64, st location.Status) location.Location {
	t.Helper()
	return locWith(t, id, location.Draft{Title: title, Latitude: lat, Longitude: lng, Category: location.Food}, st)
}

func locWith(t *testing.T, id int64, d location.Draft, st location.Status) location.Location {
	t.Helper()
	l, err := location.New(d, testNow)
	if err != nil {
		t.Fatalf("new location: %v", err)
	}
	l = l.WithID(id)
	return l.WithStatus(st, testNow)
}

func intPtr(v int) *int { return &v }

func radiusReq(t *testing.T, p request.RadiusParams) *request.RadiusRequest {
	t.Helper()
	r, err := request.NewRadius(p)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return &r
}

func hitIDs(hits []result.Hit) []int64 {
	out := make([]int64, len(hits))
	for i := range hits {
		l := hits[i].Location()
		out[i] = l.ID()
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Search: scenarios ---

func TestSearch_ThreePoints(t *testing.T) {
	repo := &mockRepo{locs: []location.Location{
		loc(t, 3, "Far", 11.0, 107.0, location.Approved),
		loc(t, 2, "Near", 10.01, 106.01, location.Approved),
		loc(t, 1, "Center", 10.0, 106.0, location.Approved),
	}}
	svc := New(repo, Options{})

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{
		Latitude: 10.0, Longitude: 106.0, Radius: intPtr(5000),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
	if got := hitIDs(page.Items); !equalIDs(got, []int64{1, 2}) {
		t.Fatalf("ids = %v, want [1 2]", got)
	}
	if d := page.Items[0].DistanceMeters(); d != 0 {
		t.Errorf("center distance = %f, want 0", d)
	}
	if d := page.Items[1].DistanceMeters(); d < 1500 || d > 1600 {
		t.Errorf("near distance = %f, want ~1560", d)
	}
}

func TestSearch_PendingExcludedByDefault(t *testing.T) {
	repo := &mockRepo{locs: []location.Location{
		loc(t, 1, "New place", 10.0, 106.0, location.Pending),
	}}
	svc := New(repo, Options{})
	ctx := context.Background()

	page, err := svc.Search(ctx, radiusReq(t, request.RadiusParams{Latitude: 10, Longitude: 106}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 0 || len(page.Items) != 0 {
		t.Errorf("pending location returned by default search: %+v", page)
	}

	page, err = svc.Search(ctx, radiusReq(t, request.RadiusParams{Latitude: 10, Longitude: 106, Status: "pending"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || !equalIDs(hitIDs(page.Items), []int64{1}) {
		t.Errorf("explicit pending search = %+v", page)
	}
}

func TestSearch_TextFilter(t *testing.T) {
	repo := &mockRepo{locs: []location.Location{
		loc(t, 1, "Downtown Cafe", 10.0, 106.0, location.Approved),
		loc(t, 2, "Bookstore", 10.0, 106.001, location.Approved),
		locWith(t, 3, location.Draft{
			Title: "Corner shop", Description: "Sells CAFÉ-style snacks and cafe beans",
			Latitude: 10.0, Longitude: 106.002, Category: location.Shop,
		}, location.Approved),
	}}
	svc := New(repo, Options{})

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{
		Latitude: 10, Longitude: 106, Query: "cafe",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hitIDs(page.Items); !equalIDs(got, []int64{1, 3}) {
		t.Errorf("ids = %v, want [1 3]", got)
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
}

func TestSearch_CategoryFilter(t *testing.T) {
	repo := &mockRepo{locs: []location.Location{
		loc(t, 1, "Pho", 10.0, 106.0, location.Approved),
		locWith(t, 2, location.Draft{Title: "Clinic", Latitude: 10, Longitude: 106, Category: location.Health},
			location.Approved),
	}}
	svc := New(repo, Options{})

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{
		Latitude: 10, Longitude: 106, Category: "health",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(hitIDs(page.Items), []int64{2}) || page.Total != 1 {
		t.Errorf("page = ids %v total %d", hitIDs(page.Items), page.Total)
	}
}

func TestSearch_EqualDistanceOrderedByID(t *testing.T) {
	repo := &mockRepo{locs: []location.Location{
		loc(t, 9, "B", 10.0, 106.0, location.Approved),
		loc(t, 4, "A", 10.0, 106.0, location.Approved),
		loc(t, 6, "C", 10.0, 106.0, location.Approved),
	}}
	svc := New(repo, Options{})

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{Latitude: 10, Longitude: 106}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hitIDs(page.Items); !equalIDs(got, []int64{4, 6, 9}) {
		t.Errorf("ids = %v, want [4 6 9]", got)
	}
}

func TestSearch_SkipPastEnd(t *testing.T) {
	repo := &mockRepo{locs: []location.Location{
		loc(t, 1, "A", 10.0, 106.0, location.Approved),
	}}
	svc := New(repo, Options{})

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{
		Latitude: 10, Longitude: 106, Skip: intPtr(10),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 0 || page.Total != 1 {
		t.Errorf("items=%d total=%d, want 0/1", len(page.Items), page.Total)
	}
}

func TestSearch_EmptyStore(t *testing.T) {
	svc := New(&mockRepo{}, Options{})

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{Latitude: 10, Longitude: 106}))
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if page.Total != 0 || page.Items == nil || len(page.Items) != 0 {
		t.Errorf("page = %+v, want empty non-nil items", page)
	}
}

func TestSearch_RepoError(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := New(&mockRepo{err: storeErr}, Options{})

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{Latitude: 10, Longitude: 106}))
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if page.Items != nil || page.Total != 0 {
		t.Errorf("failed search must not return a partial page: %+v", page)
	}
}

// --- Search: lookup geometry ---

func TestSearch_LookupRadiusHasSlack(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, Options{RadiusSlack: 0.02})

	if _, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{
		Latitude: 10, Longitude: 106, Radius: intPtr(1000),
	})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastRadius != 1000*1.02+1 {
		t.Errorf("lookup radius = %f, want %f", repo.lastRadius, 1000*1.02+1)
	}
	if repo.lastCenter != (geo.Point{Lat: 10, Lng: 106}) {
		t.Errorf("lookup center = %+v", repo.lastCenter)
	}
}

func TestSearch_PolarCenterBeyondRadius(t *testing.T) {
	repo := &mockRepo{locs: []location.Location{loc(t, 1, "A", 85, 0, location.Approved)}}
	svc := New(repo, Options{})

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{
		Latitude: 89.9, Longitude: 0, Radius: intPtr(500),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("Total = %d, want 0", page.Total)
	}
	if repo.radiusCalls != 0 {
		t.Errorf("index must not be queried when the band is out of reach")
	}
}

func TestSearch_PolarCenterRecentered(t *testing.T) {
	inBand := loc(t, 1, "Station", 85.0, 10.0, location.Approved)
	repo := &mockRepo{locs: []location.Location{inBand}}
	svc := New(repo, Options{})

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{
		Latitude: 85.2, Longitude: 10.0, Radius: intPtr(50000),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastCenter.Lat != geo.MaxIndexLatitude || repo.lastCenter.Lng != 10.0 {
		t.Errorf("lookup center = %+v", repo.lastCenter)
	}
	shift := geo.Haversine(85.2, 10, geo.MaxIndexLatitude, 10)
	if repo.lastRadius < 50000+shift {
		t.Errorf("lookup radius %f does not cover circle (need >= %f)", repo.lastRadius, 50000+shift)
	}
	if page.Total != 1 {
		t.Errorf("Total = %d, want 1", page.Total)
	}
	// Distance is reported from the requested center, not the lookup center.
	if want := geo.Haversine(85.2, 10, 85.0, 10); page.Items[0].DistanceMeters() != want {
		t.Errorf("distance = %f, want %f", page.Items[0].DistanceMeters(), want)
	}
}

// --- Search: properties over a random field ---

func randomField(t *testing.T, n int) []location.Location {
	t.Helper()
	rng := rand.New(rand.NewPCG(7, 11))
	statuses := []location.Status{location.Approved, location.Approved, location.Pending, location.Rejected}
	titles := []string{"Cafe Sua Da", "Pho Hoa", "Book Cafe", "Bakery", "Repair shop"}
	out := make([]location.Location, n)
	for i := range out {
		lat := 10.0 + (rng.Float64()-0.5)*0.2
		lng := 106.0 + (rng.Float64()-0.5)*0.2
		out[i] = loc(t, int64(i+1), titles[rng.IntN(len(titles))], lat, lng, statuses[rng.IntN(len(statuses))])
	}
	return out
}

func TestSearch_Properties(t *testing.T) {
	repo := &mockRepo{locs: randomField(t, 400)}
	svc := New(repo, Options{})
	ctx := context.Background()
	center := geo.Point{Lat: 10.0, Lng: 106.0}

	for _, tc := range []struct {
		radius int
		query  string
	}{{500, ""}, {3000, ""}, {5000, "cafe"}, {50000, ""}} {
		all, err := svc.Search(ctx, radiusReq(t, request.RadiusParams{
			Latitude: center.Lat, Longitude: center.Lng, Radius: intPtr(tc.radius), Query: tc.query,
			Limit: intPtr(100),
		}))
		if err != nil {
			t.Fatalf("radius %d: %v", tc.radius, err)
		}

		// Every item is within radius and ordering is non-decreasing.
		prev := -1.0
		for i := range all.Items {
			h := &all.Items[i]
			l := h.Location()
			if d := geo.Distance(center, l.Point()); d > float64(tc.radius) || d != h.DistanceMeters() {
				t.Errorf("radius %d: item %d distance %f reported %f", tc.radius, l.ID(), d, h.DistanceMeters())
			}
			if h.DistanceMeters() < prev {
				t.Errorf("radius %d: results not sorted by distance", tc.radius)
			}
			prev = h.DistanceMeters()
			if l.Status() != location.Approved {
				t.Errorf("radius %d: non-approved item %d", tc.radius, l.ID())
			}
		}

		// Pages stitched together equal the unpaginated ordering with a stable total.
		var stitched []int64
		for skip := 0; skip < all.Total; skip += 7 {
			page, err := svc.Search(ctx, radiusReq(t, request.RadiusParams{
				Latitude: center.Lat, Longitude: center.Lng, Radius: intPtr(tc.radius), Query: tc.query,
				Skip: intPtr(skip), Limit: intPtr(7),
			}))
			if err != nil {
				t.Fatalf("page at %d: %v", skip, err)
			}
			if page.Total != all.Total {
				t.Errorf("radius %d: page total %d != %d", tc.radius, page.Total, all.Total)
			}
			stitched = append(stitched, hitIDs(page.Items)...)
		}
		if all.Total <= 100 {
			if len(all.Items) != all.Total {
				t.Errorf("radius %d: %d items for total %d", tc.radius, len(all.Items), all.Total)
			}
			if !equalIDs(stitched, hitIDs(all.Items)) {
				t.Errorf("radius %d: stitched pages differ from single page", tc.radius)
			}
		} else if len(stitched) != all.Total {
			t.Errorf("radius %d: stitched %d items for total %d", tc.radius, len(stitched), all.Total)
		}

		// Idempotence.
		again, err := svc.Search(ctx, radiusReq(t, request.RadiusParams{
			Latitude: center.Lat, Longitude: center.Lng, Radius: intPtr(tc.radius), Query: tc.query,
			Limit: intPtr(100),
		}))
		if err != nil {
			t.Fatalf("repeat: %v", err)
		}
		if again.Total != all.Total || !equalIDs(hitIDs(again.Items), hitIDs(all.Items)) {
			t.Errorf("radius %d: repeated search differs", tc.radius)
		}
	}
}

func TestSearch_TotalMatchesBruteForce(t *testing.T) {
	field := randomField(t, 300)
	svc := New(&mockRepo{locs: field}, Options{})
	center := geo.Point{Lat: 10.02, Lng: 105.98}

	want := 0
	for i := range field {
		if field[i].Status() == location.Approved && geo.Distance(center, field[i].Point()) <= 4000 {
			want++
		}
	}

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{
		Latitude: center.Lat, Longitude: center.Lng, Radius: intPtr(4000),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != want {
		t.Errorf("Total = %d, want %d", page.Total, want)
	}
}

// --- SearchViewport ---

func viewportReq(t *testing.T, p request.ViewportParams) *request.ViewportRequest {
	t.Helper()
	r, err := request.NewViewport(p)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return &r
}

func locIDs(locs []location.Location) []int64 {
	out := make([]int64, len(locs))
	for i := range locs {
		out[i] = locs[i].ID()
	}
	return out
}

func TestSearchViewport_Containment(t *testing.T) {
	repo := &mockRepo{locs: []location.Location{
		loc(t, 1, "inside", 10.05, 106.05, location.Approved),
		loc(t, 2, "on north edge", 10.1, 106.05, location.Approved),
		loc(t, 3, "on west edge", 10.05, 106.0, location.Approved),
		loc(t, 4, "just outside", 10.1000001, 106.05, location.Approved),
		loc(t, 5, "pending inside", 10.05, 106.05, location.Pending),
		loc(t, 6, "far", 11, 107, location.Approved),
	}}
	svc := New(repo, Options{ViewportCandidateLimit: 1000})

	got, err := svc.SearchViewport(context.Background(), viewportReq(t, request.ViewportParams{
		MinLng: 106.0, MinLat: 10.0, MaxLng: 106.1, MaxLat: 10.1,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := locIDs(got); !equalIDs(ids, []int64{1, 2, 3}) {
		t.Errorf("ids = %v, want [1 2 3]", ids)
	}
	for i := range got {
		p := got[i].Point()
		if p.Lng < 106.0 || p.Lng > 106.1 || p.Lat < 10.0 || p.Lat > 10.1 {
			t.Errorf("location %d outside viewport: %+v", got[i].ID(), p)
		}
	}
	if len(repo.boxLimits) != 1 || repo.boxLimits[0] != 1000 {
		t.Errorf("lookup counts = %v, want [1000]", repo.boxLimits)
	}
	want := geo.Rect{MinLng: 106.0, MinLat: 10.0, MaxLng: 106.1, MaxLat: 10.1}.Center()
	if repo.lastCenter != want {
		t.Errorf("lookup center = %+v", repo.lastCenter)
	}
}

func TestSearchViewport_BoxCoversRect(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, Options{})

	rect := geo.Rect{MinLng: 106.0, MinLat: 10.0, MaxLng: 106.1, MaxLat: 10.1}
	if _, err := svc.SearchViewport(context.Background(), viewportReq(t, request.ViewportParams{
		MinLng: rect.MinLng, MinLat: rect.MinLat, MaxLng: rect.MaxLng, MaxLat: rect.MaxLat,
	})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w, h := rect.EnclosingBox()
	if repo.lastWidth < w || repo.lastHeight < h {
		t.Errorf("lookup box %fx%f smaller than %fx%f", repo.lastWidth, repo.lastHeight, w, h)
	}
}

func TestSearchViewport_LimitAndStatus(t *testing.T) {
	var locs []location.Location
	for i := int64(1); i <= 10; i++ {
		st := location.Approved
		if i%2 == 0 {
			st = location.Pending
		}
		locs = append(locs, loc(t, i, "x", 10.05, 106.05, st))
	}
	svc := New(&mockRepo{locs: locs}, Options{})

	got, err := svc.SearchViewport(context.Background(), viewportReq(t, request.ViewportParams{
		MinLng: 106.0, MinLat: 10.0, MaxLng: 106.1, MaxLat: 10.1, Limit: intPtr(3),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := locIDs(got); !equalIDs(ids, []int64{1, 3, 5}) {
		t.Errorf("ids = %v, want [1 3 5]", ids)
	}

	got, err = svc.SearchViewport(context.Background(), viewportReq(t, request.ViewportParams{
		MinLng: 106.0, MinLat: 10.0, MaxLng: 106.1, MaxLat: 10.1, Status: "pending",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("pending viewport = %d, want 5", len(got))
	}
}

func TestSearchViewport_FilteredEntriesDoNotHideMatches(t *testing.T) {
	var locs []location.Location
	for i := int64(1); i <= 5; i++ {
		locs = append(locs, loc(t, i, "queued", 10.05, 106.05, location.Pending))
	}
	locs = append(locs, loc(t, 6, "open", 10.04, 106.04, location.Approved))
	repo := &mockRepo{locs: locs}
	svc := New(repo, Options{ViewportCandidateLimit: 5})

	got, err := svc.SearchViewport(context.Background(), viewportReq(t, request.ViewportParams{
		MinLng: 106.0, MinLat: 10.0, MaxLng: 106.1, MaxLat: 10.1,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := locIDs(got); !equalIDs(ids, []int64{6}) {
		t.Errorf("ids = %v, want [6]", ids)
	}
	if len(repo.boxLimits) != 2 || repo.boxLimits[0] != 5 || repo.boxLimits[1] != 10 {
		t.Errorf("lookup counts = %v, want [5 10]", repo.boxLimits)
	}
}

func TestSearchViewport_GrowsUntilLimitFilled(t *testing.T) {
	var locs []location.Location
	for i := int64(1); i <= 40; i++ {
		st := location.Pending
		if i%4 == 0 {
			st = location.Approved
		}
		locs = append(locs, loc(t, i, "x", 10.05, 106.05, st))
	}
	repo := &mockRepo{locs: locs}
	svc := New(repo, Options{ViewportCandidateLimit: 4})

	got, err := svc.SearchViewport(context.Background(), viewportReq(t, request.ViewportParams{
		MinLng: 106.0, MinLat: 10.0, MaxLng: 106.1, MaxLat: 10.1, Limit: intPtr(5),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := locIDs(got); !equalIDs(ids, []int64{4, 8, 12, 16, 20}) {
		t.Errorf("ids = %v, want [4 8 12 16 20]", ids)
	}
	// 4 and 8 entries hold 1 and 2 matches, 16 hold 4, 32 fill the page.
	if got := repo.boxLimits; len(got) != 4 || got[3] != 32 {
		t.Errorf("lookup counts = %v, want [4 8 16 32]", got)
	}
}

func TestSearchViewport_RepoError(t *testing.T) {
	svc := New(&mockRepo{err: errors.New("timeout")}, Options{})

	_, err := svc.SearchViewport(context.Background(), viewportReq(t, request.ViewportParams{
		MinLng: 106.0, MinLat: 10.0, MaxLng: 106.1, MaxLat: 10.1,
	}))
	if err == nil {
		t.Fatal("expected error")
	}
}

// --- Search: record loading ---

func lineOfLocations(t *testing.T, n int) []location.Location {
	t.Helper()
	locs := make([]location.Location, n)
	for i := range locs {
		locs[i] = loc(t, int64(i+1), "Cafe", 10.0+float64(i)*0.0001, 106.0, location.Approved)
	}
	return locs
}

func TestSearch_LoadsOnlyRequestedPage(t *testing.T) {
	locs := lineOfLocations(t, 30)
	locs = append(locs, loc(t, 31, "Queued", 10.0, 106.0, location.Pending))
	repo := &mockRepo{locs: locs}
	svc := New(repo, Options{})

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{
		Latitude: 10, Longitude: 106, Skip: intPtr(10), Limit: intPtr(5),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 30 {
		t.Errorf("Total = %d, want 30", page.Total)
	}
	want := []int64{11, 12, 13, 14, 15}
	if got := hitIDs(page.Items); !equalIDs(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	if !equalIDs(repo.loaded, want) {
		t.Errorf("loaded = %v, want only the page %v", repo.loaded, want)
	}
}

func TestSearch_TextQueryLoadsEveryMatchInRadius(t *testing.T) {
	locs := lineOfLocations(t, 30)
	locs = append(locs, loc(t, 31, "Far cafe", 11.0, 107.0, location.Approved))
	repo := &mockRepo{locs: locs}
	svc := New(repo, Options{})

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{
		Latitude: 10, Longitude: 106, Query: "cafe", Skip: intPtr(10), Limit: intPtr(5),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 30 || !equalIDs(hitIDs(page.Items), []int64{11, 12, 13, 14, 15}) {
		t.Errorf("page = ids %v total %d", hitIDs(page.Items), page.Total)
	}
	if len(repo.loaded) != 30 {
		t.Errorf("loaded %d records, want the 30 within radius", len(repo.loaded))
	}
}

func TestSearch_LaggingIndexNeverLeaksStatus(t *testing.T) {
	repo := &mockRepo{stale: true, locs: []location.Location{
		loc(t, 1, "Queued", 10.0, 106.0, location.Pending),
		loc(t, 2, "Open", 10.001, 106.0, location.Approved),
	}}
	svc := New(repo, Options{})

	page, err := svc.Search(context.Background(), radiusReq(t, request.RadiusParams{Latitude: 10, Longitude: 106}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hitIDs(page.Items); !equalIDs(got, []int64{2}) {
		t.Errorf("ids = %v, want [2]", got)
	}
}

// --- SearchRadius ---

func TestSearchRadius_DefaultsAndLimit(t *testing.T) {
	var locs []location.Location
	for i := int64(1); i <= 60; i++ {
		locs = append(locs, loc(t, i, "x", 10.0+float64(i)*0.0001, 106.0, location.Approved))
	}
	svc := New(&mockRepo{locs: locs}, Options{})

	req, err := request.NewNearby(request.NearbyParams{Latitude: 10, Longitude: 106})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	hits, err := svc.SearchRadius(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != request.DefaultNearbyLimit {
		t.Fatalf("len = %d, want %d", len(hits), request.DefaultNearbyLimit)
	}
	l := hits[0].Location()
	if l.ID() != 1 {
		t.Errorf("nearest id = %d, want 1", l.ID())
	}
}
