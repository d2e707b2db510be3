package satvach

import (
	"context"
	"fmt"
	"time"

	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
)

// LocationService submits and moderates locations.
type LocationService struct {
	svc locationUseCase
	obs *observer
}

// Submit stores a new pending location and records the submission.
func (s *LocationService) Submit(ctx context.Context, d Draft, actor Actor) (_ Location, err error) {
	start := time.Now()
	defer func() { s.obs.observe("submit", start, err) }()

	loc, err := s.svc.Submit(ctx, toInternalDraft(d), toInternalActor(actor))
	if err != nil {
		return Location{}, fmt.Errorf("submit: %w", err)
	}
	return fromInternalLocation(&loc), nil
}

// Get returns a location by id regardless of its status.
func (s *LocationService) Get(ctx context.Context, id int64) (_ Location, err error) {
	start := time.Now()
	defer func() { s.obs.observe("get", start, err, "id", id) }()

	loc, err := s.svc.Get(ctx, id, true)
	if err != nil {
		return Location{}, fmt.Errorf("get location: %w", err)
	}
	return fromInternalLocation(&loc), nil
}

// Update applies a partial edit and records which fields changed.
func (s *LocationService) Update(ctx context.Context, id int64, p Patch, actor Actor) (_ Location, err error) {
	start := time.Now()
	defer func() { s.obs.observe("update", start, err, "id", id) }()

	loc, err := s.svc.Update(ctx, id, toInternalPatch(p), toInternalActor(actor))
	if err != nil {
		return Location{}, fmt.Errorf("update location: %w", err)
	}
	return fromInternalLocation(&loc), nil
}

// SetStatus moves a location to status. An empty reason records a default one.
func (s *LocationService) SetStatus(
	ctx context.Context, id int64, status Status, reason string, actor Actor,
) (_ Location, err error) {
	start := time.Now()
	defer func() { s.obs.observe("set_status", start, err, "id", id, "to", string(status)) }()

	loc, err := s.svc.SetStatus(ctx, id, domloc.Status(status), reason, toInternalActor(actor))
	if err != nil {
		return Location{}, fmt.Errorf("set status: %w", err)
	}
	return fromInternalLocation(&loc), nil
}

// Delete removes a location and its history.
func (s *LocationService) Delete(ctx context.Context, id int64, actor Actor) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("delete", start, err, "id", id) }()

	if err = s.svc.Delete(ctx, id, toInternalActor(actor)); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

// List returns locations with status (any when empty), newest first.
// A zero limit selects the default.
func (s *LocationService) List(ctx context.Context, status Status, skip, limit int) (_ ListResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("list", start, err) }()

	locs, total, err := s.svc.List(ctx, domloc.Status(status), skip, limit)
	if err != nil {
		return ListResult{}, fmt.Errorf("list locations: %w", err)
	}
	return ListResult{Locations: fromInternalLocations(locs), Total: total}, nil
}

// Stats counts locations per status.
func (s *LocationService) Stats(ctx context.Context) (_ map[Status]int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("stats", start, err) }()

	counts, err := s.svc.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	out := make(map[Status]int, len(counts))
	for st, n := range counts {
		out[Status(st)] = n
	}
	return out, nil
}

// History returns the moderation log of a location, oldest first.
func (s *LocationService) History(ctx context.Context, id int64) (_ []HistoryEntry, err error) {
	start := time.Now()
	defer func() { s.obs.observe("history", start, err, "id", id) }()

	entries, err := s.svc.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return fromInternalEntries(entries), nil
}
