package location

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/satvach/internal/domain"
	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
	dommod "github.com/kailas-cloud/satvach/internal/domain/moderation"
	"github.com/kailas-cloud/satvach/internal/logger"
	"github.com/kailas-cloud/satvach/internal/metrics"
)

// List paging limits.
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// MaxReasonLength bounds a moderator-supplied status change reason.
const MaxReasonLength = 1000

const submissionReason = "Initial submission"

// Service handles location submission and moderation. Every state change
// leaves an entry in the location's moderation log.
type Service struct {
	repo Repository
	log  ModerationLog
	now  func() time.Time
}

// New creates a location service.
func New(repo Repository, log ModerationLog) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Submit validates and stores a new pending location.
func (s *Service) Submit(ctx context.Context, d domloc.Draft, actor dommod.Actor) (domloc.Location, error) {
	now := s.now().UTC()
	loc, err := domloc.New(d, now)
	if err != nil {
		return domloc.Location{}, fmt.Errorf("validate location: %w", err)
	}

	stored, err := s.repo.Insert(ctx, loc)
	if err != nil {
		return domloc.Location{}, fmt.Errorf("insert location: %w", err)
	}

	if err := s.audit(ctx, stored.ID(), dommod.Submitted, submissionReason, actor, now); err != nil {
		return domloc.Location{}, err
	}
	return stored, nil
}

// Get returns a location by ID. Non-approved locations are reported as
// missing unless includeUnapproved is set.
func (s *Service) Get(ctx context.Context, id int64, includeUnapproved bool) (domloc.Location, error) {
	loc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domloc.Location{}, fmt.Errorf("get location %d: %w", id, err)
	}
	if loc.Status() != domloc.Approved && !includeUnapproved {
		return domloc.Location{}, fmt.Errorf("get location %d: %w", id, domain.ErrNotFound)
	}
	return loc, nil
}

// Update applies a partial edit. Status is unchanged.
func (s *Service) Update(ctx context.Context, id int64, p domloc.Patch, actor dommod.Actor) (domloc.Location, error) {
	if p.IsEmpty() {
		return domloc.Location{}, domain.Invalid("body", "no fields to update")
	}

	prev, err := s.repo.Get(ctx, id)
	if err != nil {
		return domloc.Location{}, fmt.Errorf("get location %d: %w", id, err)
	}

	now := s.now().UTC()
	updated, changed, err := prev.Apply(p, now)
	if err != nil {
		return domloc.Location{}, fmt.Errorf("validate update: %w", err)
	}

	if err := s.repo.Update(ctx, prev, updated); err != nil {
		return domloc.Location{}, fmt.Errorf("update location %d: %w", id, err)
	}

	reason := "Updated fields: " + strings.Join(changed, ", ")
	if err := s.audit(ctx, id, dommod.Edited, reason, actor, now); err != nil {
		return domloc.Location{}, err
	}
	return updated, nil
}

// SetStatus moves a location to status. An empty reason is replaced by a
// description of the transition.
func (s *Service) SetStatus(
	ctx context.Context, id int64, status domloc.Status, reason string, actor dommod.Actor,
) (domloc.Location, error) {
	if !status.IsValid() {
		return domloc.Location{}, domain.Invalid(domloc.FieldStatus, fmt.Sprintf("unknown status %q", status))
	}
	if len([]rune(reason)) > MaxReasonLength {
		return domloc.Location{}, domain.Invalid("reason", fmt.Sprintf("too long (max %d chars)", MaxReasonLength))
	}

	prev, err := s.repo.Get(ctx, id)
	if err != nil {
		return domloc.Location{}, fmt.Errorf("get location %d: %w", id, err)
	}

	now := s.now().UTC()
	updated := prev.WithStatus(status, now)
	if err := s.repo.Update(ctx, prev, updated); err != nil {
		return domloc.Location{}, fmt.Errorf("update location %d status: %w", id, err)
	}

	if strings.TrimSpace(reason) == "" {
		reason = fmt.Sprintf("Status changed: %s → %s", prev.Status(), status)
	}
	if err := s.audit(ctx, id, dommod.ActionForStatus(status), reason, actor, now); err != nil {
		return domloc.Location{}, err
	}
	return updated, nil
}

// Delete removes a location, its index entries and its moderation log.
func (s *Service) Delete(ctx context.Context, id int64, actor dommod.Actor) error {
	loc, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get location %d: %w", id, err)
	}

	if err := s.repo.Delete(ctx, loc); err != nil {
		return fmt.Errorf("delete location %d: %w", id, err)
	}
	if err := s.log.Purge(ctx, id); err != nil {
		return fmt.Errorf("delete location %d: %w", id, err)
	}

	metrics.ModerationActionsTotal.WithLabelValues(string(dommod.Deleted)).Inc()
	logger.FromContext(ctx).Info("location deleted",
		zap.Int64("location_id", id),
		zap.String("title", loc.Title()),
		zap.String("moderator_id", actor.ID),
		zap.String("moderator_ip", actor.IP),
	)
	return nil
}

// List returns locations with the given status (any when empty), newest
// first, and the total number of such locations.
func (s *Service) List(ctx context.Context, status domloc.Status, skip, limit int) ([]domloc.Location, int, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, domain.Invalid(domloc.FieldStatus, fmt.Sprintf("unknown status %q", status))
	}
	if skip < 0 {
		return nil, 0, domain.Invalid("skip", "must be >= 0")
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 1 || limit > MaxListLimit {
		return nil, 0, domain.Invalid("limit", fmt.Sprintf("must be between 1 and %d", MaxListLimit))
	}

	items, total, err := s.repo.List(ctx, status, "", skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}
	return items, total, nil
}

// Stats returns the number of locations in each status.
func (s *Service) Stats(ctx context.Context) (map[domloc.Status]int, error) {
	out := make(map[domloc.Status]int, len(domloc.Statuses()))
	for _, st := range domloc.Statuses() {
		n, err := s.repo.Count(ctx, st, "")
		if err != nil {
			return nil, fmt.Errorf("count %s locations: %w", st, err)
		}
		out[st] = n
	}
	return out, nil
}

// History returns the moderation log of an existing location, oldest first.
func (s *Service) History(ctx context.Context, id int64) ([]dommod.Entry, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("get location %d: %w", id, err)
	}
	entries, err := s.log.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("moderation history %d: %w", id, err)
	}
	return entries, nil
}

// audit appends a log entry. The record change has already been committed, so
// a failed append is reported but the change stands.
func (s *Service) audit(
	ctx context.Context, id int64, action dommod.Action, reason string, actor dommod.Actor, now time.Time,
) error {
	_, err := s.log.Append(ctx, dommod.NewEntry(id, action, reason, actor, now))
	if err != nil {
		logger.FromContext(ctx).Error("moderation log append failed",
			zap.Int64("location_id", id),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return fmt.Errorf("record %s: %w", action, err)
	}
	metrics.ModerationActionsTotal.WithLabelValues(string(action)).Inc()
	return nil
}
