package location

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/satvach/internal/db"
	"github.com/kailas-cloud/satvach/internal/domain/geo"
	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
	"github.com/kailas-cloud/satvach/internal/domain/search/filter"
)

// RadiusPositions returns the exact points of locations the geo index places
// within radiusMeters of center, nearest first, that also belong to the status
// and category sets required by filters. Only the coordinate fields of each
// record are read. Results are candidates: callers apply the exact predicate.
func (r *Repo) RadiusPositions(
	ctx context.Context, center geo.Point, radiusMeters float64, filters filter.Expression,
) ([]domloc.Position, error) {
	members, err := r.store.GeoSearchRadius(ctx, &db.GeoRadiusQuery{
		Key:          r.keys.geo(),
		Latitude:     center.Lat,
		Longitude:    center.Lng,
		RadiusMeters: radiusMeters,
	})
	if err != nil {
		return nil, fmt.Errorf("radius lookup: %w", err)
	}
	members, err = r.pushdown(ctx, members, filters)
	if err != nil {
		return nil, err
	}

	ids := parseIDs(members)
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.keys.location(id)
	}
	rows, err := r.store.HMGetMulti(ctx, keys, fieldLatitude, fieldLongitude)
	if err != nil {
		return nil, fmt.Errorf("load %d positions: %w", len(ids), err)
	}

	out := make([]domloc.Position, 0, len(rows))
	for i, row := range rows {
		// Both fields empty: the index entry outlived its record.
		if row[0] == "" && row[1] == "" {
			continue
		}
		lat, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("location %d: parse latitude: %w", ids[i], err)
		}
		lng, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("location %d: parse longitude: %w", ids[i], err)
		}
		out = append(out, domloc.Position{ID: ids[i], Point: geo.Point{Lat: lat, Lng: lng}})
	}
	return out, nil
}

// BoxCandidates returns locations among the limit index entries nearest to
// center inside a width x height box, filtered like RadiusPositions, and the
// number of index entries scanned. A scanned count below limit means the box
// holds no further entries. A limit of zero is unbounded.
func (r *Repo) BoxCandidates(
	ctx context.Context, center geo.Point, widthMeters, heightMeters float64,
	filters filter.Expression, limit int,
) ([]domloc.Location, int, error) {
	members, err := r.store.GeoSearchBox(ctx, &db.GeoBoxQuery{
		Key:          r.keys.geo(),
		Latitude:     center.Lat,
		Longitude:    center.Lng,
		WidthMeters:  widthMeters,
		HeightMeters: heightMeters,
		Count:        limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("box lookup: %w", err)
	}
	scanned := len(members)

	members, err = r.pushdown(ctx, members, filters)
	if err != nil {
		return nil, 0, err
	}
	locs, err := r.GetMany(ctx, parseIDs(members))
	if err != nil {
		return nil, 0, err
	}
	return locs, scanned, nil
}

// pushdown keeps the members that belong to the status and category sets
// required by filters, in their original order.
func (r *Repo) pushdown(ctx context.Context, members []string, filters filter.Expression) ([]string, error) {
	var sets []string
	if s, ok := filters.MustMatch(domloc.FieldStatus); ok {
		sets = append(sets, r.keys.status(domloc.Status(s)))
	}
	if c, ok := filters.MustMatch(domloc.FieldCategory); ok {
		sets = append(sets, r.keys.category(domloc.Category(c)))
	}

	for _, key := range sets {
		if len(members) == 0 {
			return nil, nil
		}
		flags, err := r.store.SMIsMember(ctx, key, members...)
		if err != nil {
			return nil, fmt.Errorf("filter candidates by %s: %w", key, err)
		}
		if len(flags) != len(members) {
			return nil, fmt.Errorf("filter candidates by %s: got %d flags for %d members", key, len(flags), len(members))
		}
		kept := make([]string, 0, len(members))
		for i, m := range members {
			if flags[i] {
				kept = append(kept, m)
			}
		}
		members = kept
	}
	return members, nil
}
