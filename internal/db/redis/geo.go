package redis

import (
	"context"
	"strconv"

	"github.com/kailas-cloud/satvach/internal/db"
)

// GeoAdd adds or moves members in a geo index.
func (s *Store) GeoAdd(ctx context.Context, key string, members ...db.GeoMember) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]string, 0, len(members)*3)
	for _, m := range members {
		args = append(args, formatFloat(m.Longitude), formatFloat(m.Latitude), m.Name)
	}
	cmd := s.b().Arbitrary("GEOADD").Keys(key).Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpGeoAdd, Err: err}
	}
	return nil
}

// GeoRemove removes members from a geo index. A geo index is a sorted set,
// so removal is ZREM.
func (s *Store) GeoRemove(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	cmd := s.b().Zrem().Key(key).Member(members...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZRem, Err: err}
	}
	return nil
}

// GeoSearchRadius runs GEOSEARCH ... BYRADIUS and returns member names nearest first.
func (s *Store) GeoSearchRadius(ctx context.Context, q *db.GeoRadiusQuery) ([]string, error) {
	args := []string{
		"FROMLONLAT", formatFloat(q.Longitude), formatFloat(q.Latitude),
		"BYRADIUS", formatFloat(q.RadiusMeters), "m",
	}
	return s.geoSearch(ctx, q.Key, appendOrder(args, q.Count))
}

// GeoSearchBox runs GEOSEARCH ... BYBOX and returns member names nearest to the box center first.
func (s *Store) GeoSearchBox(ctx context.Context, q *db.GeoBoxQuery) ([]string, error) {
	args := []string{
		"FROMLONLAT", formatFloat(q.Longitude), formatFloat(q.Latitude),
		"BYBOX", formatFloat(q.WidthMeters), formatFloat(q.HeightMeters), "m",
	}
	return s.geoSearch(ctx, q.Key, appendOrder(args, q.Count))
}

func (s *Store) geoSearch(ctx context.Context, key string, args []string) ([]string, error) {
	cmd := s.b().Arbitrary("GEOSEARCH").Keys(key).Args(args...).Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpGeoSearch, Err: err}
	}
	return members, nil
}

func appendOrder(args []string, count int) []string {
	args = append(args, "ASC")
	if count > 0 {
		args = append(args, "COUNT", strconv.Itoa(count))
	}
	return args
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
