package location

import (
	"context"
	"math"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/kailas-cloud/satvach/internal/db"
	"github.com/kailas-cloud/satvach/internal/domain/geo"
	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
)

// memStore is an in-memory implementation of the consumer interface.
// It records every mutating op so tests can assert write ordering.
type memStore struct {
	hashes map[string]map[string]string
	sets   map[string]map[string]bool
	geo    map[string]map[string]geo.Point
	ctrs   map[string]int64
	ops    []string
	errs   map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		hashes: map[string]map[string]string{},
		sets:   map[string]map[string]bool{},
		geo:    map[string]map[string]geo.Point{},
		ctrs:   map[string]int64{},
		errs:   map[string]error{},
	}
}

func (m *memStore) fail(op string) error {
	if err, ok := m.errs[op]; ok {
		return &db.Error{Op: op, Err: err}
	}
	return nil
}

func (m *memStore) record(op, key string) { m.ops = append(m.ops, op+" "+key) }

func (m *memStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if err := m.fail(db.OpHSet); err != nil {
		return err
	}
	m.record(db.OpHSet, key)
	h := m.hashes[key]
	if h == nil {
		h = map[string]string{}
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *memStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if err := m.fail(db.OpHGetAll); err != nil {
		return nil, err
	}
	out := map[string]string{}
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		h, err := m.HGetAll(ctx, k)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

func (m *memStore) HMGetMulti(_ context.Context, keys []string, fields ...string) ([][]string, error) {
	if err := m.fail(db.OpHMGet); err != nil {
		return nil, err
	}
	out := make([][]string, len(keys))
	for i, k := range keys {
		row := make([]string, len(fields))
		for j, f := range fields {
			row[j] = m.hashes[k][f]
		}
		out[i] = row
	}
	return out, nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	if err := m.fail(db.OpDel); err != nil {
		return err
	}
	for _, k := range keys {
		m.record(db.OpDel, k)
		delete(m.hashes, k)
		delete(m.sets, k)
	}
	return nil
}

func (m *memStore) SAdd(_ context.Context, key string, members ...string) error {
	if err := m.fail(db.OpSAdd); err != nil {
		return err
	}
	m.record(db.OpSAdd, key)
	s := m.sets[key]
	if s == nil {
		s = map[string]bool{}
		m.sets[key] = s
	}
	for _, mem := range members {
		s[mem] = true
	}
	return nil
}

func (m *memStore) SRem(_ context.Context, key string, members ...string) error {
	if err := m.fail(db.OpSRem); err != nil {
		return err
	}
	m.record(db.OpSRem, key)
	for _, mem := range members {
		delete(m.sets[key], mem)
	}
	return nil
}

func (m *memStore) SMembers(_ context.Context, key string) ([]string, error) {
	if err := m.fail(db.OpSMembers); err != nil {
		return nil, err
	}
	var out []string
	for mem := range m.sets[key] {
		out = append(out, mem)
	}
	return out, nil
}

func (m *memStore) SInter(_ context.Context, keys ...string) ([]string, error) {
	if err := m.fail(db.OpSInter); err != nil {
		return nil, err
	}
	var out []string
	for mem := range m.sets[keys[0]] {
		inAll := true
		for _, k := range keys[1:] {
			if !m.sets[k][mem] {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, mem)
		}
	}
	return out, nil
}

func (m *memStore) SCard(_ context.Context, key string) (int64, error) {
	if err := m.fail(db.OpSCard); err != nil {
		return 0, err
	}
	return int64(len(m.sets[key])), nil
}

func (m *memStore) SInterCard(ctx context.Context, keys ...string) (int64, error) {
	members, err := m.SInter(ctx, keys...)
	return int64(len(members)), err
}

func (m *memStore) SMIsMember(_ context.Context, key string, members ...string) ([]bool, error) {
	if err := m.fail(db.OpSMIsMember); err != nil {
		return nil, err
	}
	out := make([]bool, len(members))
	for i, mem := range members {
		out[i] = m.sets[key][mem]
	}
	return out, nil
}

func (m *memStore) GeoAdd(_ context.Context, key string, members ...db.GeoMember) error {
	if err := m.fail(db.OpGeoAdd); err != nil {
		return err
	}
	m.record(db.OpGeoAdd, key)
	g := m.geo[key]
	if g == nil {
		g = map[string]geo.Point{}
		m.geo[key] = g
	}
	for _, mem := range members {
		g[mem.Name] = geo.Point{Lat: mem.Latitude, Lng: mem.Longitude}
	}
	return nil
}

func (m *memStore) GeoRemove(_ context.Context, key string, members ...string) error {
	if err := m.fail(db.OpZRem); err != nil {
		return err
	}
	m.record(db.OpZRem, key)
	for _, mem := range members {
		delete(m.geo[key], mem)
	}
	return nil
}

func (m *memStore) GeoSearchRadius(_ context.Context, q *db.GeoRadiusQuery) ([]string, error) {
	if err := m.fail(db.OpGeoSearch); err != nil {
		return nil, err
	}
	center := geo.Point{Lat: q.Latitude, Lng: q.Longitude}
	return m.nearest(q.Key, center, q.Count, func(p geo.Point) bool {
		return geo.Distance(center, p) <= q.RadiusMeters
	}), nil
}

func (m *memStore) GeoSearchBox(_ context.Context, q *db.GeoBoxQuery) ([]string, error) {
	if err := m.fail(db.OpGeoSearch); err != nil {
		return nil, err
	}
	center := geo.Point{Lat: q.Latitude, Lng: q.Longitude}
	return m.nearest(q.Key, center, q.Count, func(p geo.Point) bool {
		dy := geo.Haversine(center.Lat, p.Lng, p.Lat, p.Lng)
		dx := geo.Haversine(p.Lat, center.Lng, p.Lat, p.Lng)
		return dy <= q.HeightMeters/2 && dx <= q.WidthMeters/2
	}), nil
}

func (m *memStore) nearest(key string, center geo.Point, count int, in func(geo.Point) bool) []string {
	type hit struct {
		name string
		dist float64
	}
	var hits []hit
	for name, p := range m.geo[key] {
		if in(p) {
			hits = append(hits, hit{name, geo.Distance(center, p)})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].name < hits[j].name
	})
	if count > 0 && len(hits) > count {
		hits = hits[:count]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

func (m *memStore) Incr(_ context.Context, key string) (int64, error) {
	if err := m.fail(db.OpIncr); err != nil {
		return 0, err
	}
	m.ctrs[key]++
	return m.ctrs[key], nil
}

const testPrefix = "t:{loc}:"

func newTestRepo(t *testing.T) (*Repo, *memStore) {
	t.Helper()
	ms := newMemStore()
	return New(ms, testPrefix), ms
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newLocation(t *testing.T, title string, lat, lng float64, cat domloc.Category, st domloc.Status) domloc.Location {
	t.Helper()
	loc, err := domloc.New(domloc.Draft{
		Title: title, Category: cat, Latitude: lat, Longitude: lng,
	}, testNow)
	if err != nil {
		t.Fatalf("new location: %v", err)
	}
	return loc.WithStatus(st, testNow)
}

func seed(t *testing.T, repo *Repo, locs ...domloc.Location) []domloc.Location {
	t.Helper()
	out := make([]domloc.Location, len(locs))
	for i, l := range locs {
		stored, err := repo.Insert(context.Background(), l)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		out[i] = stored
	}
	return out
}

func ids(locs []domloc.Location) string {
	s := ""
	for i := range locs {
		if i > 0 {
			s += ","
		}
		s += strconv.FormatInt(locs[i].ID(), 10)
	}
	return s
}

func approxEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
