package location

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/kailas-cloud/satvach/internal/db"
	"github.com/kailas-cloud/satvach/internal/domain"
	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
)

// store is the consumer interface for locations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HMGetMulti(ctx context.Context, keys []string, fields ...string) ([][]string, error)
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SInter(ctx context.Context, keys ...string) ([]string, error)
	SCard(ctx context.Context, key string) (int64, error)
	SInterCard(ctx context.Context, keys ...string) (int64, error)
	SMIsMember(ctx context.Context, key string, members ...string) ([]bool, error)
	GeoAdd(ctx context.Context, key string, members ...db.GeoMember) error
	GeoRemove(ctx context.Context, key string, members ...string) error
	GeoSearchRadius(ctx context.Context, q *db.GeoRadiusQuery) ([]string, error)
	GeoSearchBox(ctx context.Context, q *db.GeoBoxQuery) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Repo implements usecase/location.Repository and usecase/search.Repository.
//
// Records live in hashes; the geo index and the status, category and "all"
// sets are secondary indexes. Writes put the hash first and index entries
// after it, deletes run in reverse, so readers only ever follow an index
// entry to a missing hash, which they skip.
type Repo struct {
	store store
	keys  keyspace
}

// New creates a location repository. An empty prefix selects domain.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, keys: keyspace{prefix: prefix}}
}

// Insert assigns the next id to loc and stores it with all index entries.
func (r *Repo) Insert(ctx context.Context, loc domloc.Location) (domloc.Location, error) {
	id, err := r.store.Incr(ctx, r.keys.seq())
	if err != nil {
		return domloc.Location{}, fmt.Errorf("next location id: %w", err)
	}
	loc = loc.WithID(id)

	key := r.keys.location(id)
	if err := r.store.HSet(ctx, key, buildHashFields(&loc)); err != nil {
		return domloc.Location{}, fmt.Errorf("hset %s: %w", key, err)
	}
	if err := r.index(ctx, &loc); err != nil {
		return domloc.Location{}, err
	}
	return loc, nil
}

// Get returns a location by id.
func (r *Repo) Get(ctx context.Context, id int64) (domloc.Location, error) {
	key := r.keys.location(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domloc.Location{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domloc.Location{}, fmt.Errorf("location %d: %w", id, domain.ErrNotFound)
	}
	return parseHashFields(m)
}

// GetMany returns the locations for ids in the given order, skipping missing ones.
func (r *Repo) GetMany(ctx context.Context, ids []int64) ([]domloc.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.keys.location(id)
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load %d locations: %w", len(ids), err)
	}

	out := make([]domloc.Location, 0, len(hashes))
	for _, m := range hashes {
		if len(m) == 0 {
			continue
		}
		loc, err := parseHashFields(m)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, nil
}

// Update stores updated over prev and moves index entries whose inputs changed.
func (r *Repo) Update(ctx context.Context, prev, updated domloc.Location) error {
	if prev.ID() != updated.ID() {
		return fmt.Errorf("update location %d with record %d", prev.ID(), updated.ID())
	}
	id := updated.ID()
	key := r.keys.location(id)
	if err := r.store.HSet(ctx, key, buildHashFields(&updated)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}

	m := member(id)
	if prev.Point() != updated.Point() {
		if err := r.store.GeoAdd(ctx, r.keys.geo(), geoMember(&updated)); err != nil {
			return fmt.Errorf("move location %d: %w", id, err)
		}
	}
	if prev.Status() != updated.Status() {
		if err := r.move(ctx, r.keys.status(prev.Status()), r.keys.status(updated.Status()), m); err != nil {
			return fmt.Errorf("restatus location %d: %w", id, err)
		}
	}
	if prev.Category() != updated.Category() {
		if err := r.move(ctx, r.keys.category(prev.Category()), r.keys.category(updated.Category()), m); err != nil {
			return fmt.Errorf("recategorize location %d: %w", id, err)
		}
	}
	return nil
}

// Delete removes a location and its index entries.
func (r *Repo) Delete(ctx context.Context, loc domloc.Location) error {
	id := loc.ID()
	m := member(id)
	if err := r.store.GeoRemove(ctx, r.keys.geo(), m); err != nil {
		return fmt.Errorf("unindex location %d: %w", id, err)
	}
	for _, key := range []string{r.keys.status(loc.Status()), r.keys.category(loc.Category()), r.keys.all()} {
		if err := r.store.SRem(ctx, key, m); err != nil {
			return fmt.Errorf("unindex location %d from %s: %w", id, key, err)
		}
	}
	if err := r.store.Del(ctx, r.keys.location(id)); err != nil {
		return fmt.Errorf("delete location %d: %w", id, err)
	}
	return nil
}

// List returns locations matching the optional status and category, newest first,
// plus the total number of matches.
func (r *Repo) List(
	ctx context.Context, status domloc.Status, category domloc.Category, skip, limit int,
) ([]domloc.Location, int, error) {
	sets := r.filterSets(status, category)

	var members []string
	var err error
	if len(sets) == 1 {
		members, err = r.store.SMembers(ctx, sets[0])
	} else {
		members, err = r.store.SInter(ctx, sets...)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}

	ids := parseIDs(members)
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	total := len(ids)
	if skip >= total {
		return nil, total, nil
	}
	end := min(skip+limit, total)

	items, err := r.GetMany(ctx, ids[skip:end])
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Count returns the number of locations matching the optional status and category.
func (r *Repo) Count(ctx context.Context, status domloc.Status, category domloc.Category) (int, error) {
	sets := r.filterSets(status, category)

	var n int64
	var err error
	if len(sets) == 1 {
		n, err = r.store.SCard(ctx, sets[0])
	} else {
		n, err = r.store.SInterCard(ctx, sets...)
	}
	if err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return int(n), nil
}

func (r *Repo) index(ctx context.Context, loc *domloc.Location) error {
	id := loc.ID()
	m := member(id)
	if err := r.store.GeoAdd(ctx, r.keys.geo(), geoMember(loc)); err != nil {
		return fmt.Errorf("index location %d: %w", id, err)
	}
	for _, key := range []string{r.keys.status(loc.Status()), r.keys.category(loc.Category()), r.keys.all()} {
		if err := r.store.SAdd(ctx, key, m); err != nil {
			return fmt.Errorf("index location %d in %s: %w", id, key, err)
		}
	}
	return nil
}

// move adds m to the new set before removing it from the old one, so the
// member is never absent from both.
func (r *Repo) move(ctx context.Context, from, to, m string) error {
	if err := r.store.SAdd(ctx, to, m); err != nil {
		return err
	}
	return r.store.SRem(ctx, from, m)
}

func (r *Repo) filterSets(status domloc.Status, category domloc.Category) []string {
	var sets []string
	if status != "" {
		sets = append(sets, r.keys.status(status))
	}
	if category != "" {
		sets = append(sets, r.keys.category(category))
	}
	if len(sets) == 0 {
		sets = append(sets, r.keys.all())
	}
	return sets
}

func geoMember(loc *domloc.Location) db.GeoMember {
	p := loc.Point()
	return db.GeoMember{Name: member(loc.ID()), Latitude: p.Lat, Longitude: p.Lng}
}

// parseIDs converts set members to ids, dropping anything that is not one.
func parseIDs(members []string) []int64 {
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
