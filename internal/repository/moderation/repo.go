package moderation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/satvach/internal/db"
	"github.com/kailas-cloud/satvach/internal/domain"
	dommod "github.com/kailas-cloud/satvach/internal/domain/moderation"
)

// Stream entry field names.
const (
	fieldLocationID  = "location_id"
	fieldAction      = "action"
	fieldReason      = "reason"
	fieldModeratorID = "moderator_id"
	fieldModeratorIP = "moderator_ip"
	fieldCreatedAt   = "created_at"
)

// store is the consumer interface for the moderation log (ISP).
type store interface {
	XAdd(ctx context.Context, key string, fields map[string]string) (string, error)
	XRange(ctx context.Context, key string) ([]db.StreamEntry, error)
	Del(ctx context.Context, keys ...string) error
}

// Repo keeps one append-only stream of moderation entries per location.
type Repo struct {
	store  store
	prefix string
}

// New creates a moderation log repository. An empty prefix selects domain.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Append writes e to the location's stream and returns it with the stream ID set.
func (r *Repo) Append(ctx context.Context, e dommod.Entry) (dommod.Entry, error) {
	key := r.key(e.LocationID)
	id, err := r.store.XAdd(ctx, key, map[string]string{
		fieldLocationID:  strconv.FormatInt(e.LocationID, 10),
		fieldAction:      string(e.Action),
		fieldReason:      e.Reason,
		fieldModeratorID: e.ModeratorID,
		fieldModeratorIP: e.ModeratorIP,
		fieldCreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return dommod.Entry{}, fmt.Errorf("append moderation entry to %s: %w", key, err)
	}
	e.ID = id
	return e, nil
}

// History returns a location's moderation entries, oldest first.
func (r *Repo) History(ctx context.Context, locationID int64) ([]dommod.Entry, error) {
	key := r.key(locationID)
	raw, err := r.store.XRange(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read moderation log %s: %w", key, err)
	}

	out := make([]dommod.Entry, 0, len(raw))
	for _, se := range raw {
		createdAt, err := time.Parse(time.RFC3339Nano, se.Fields[fieldCreatedAt])
		if err != nil {
			return nil, fmt.Errorf("moderation entry %s: parse created_at: %w", se.ID, err)
		}
		out = append(out, dommod.Entry{
			ID:          se.ID,
			LocationID:  locationID,
			Action:      dommod.Action(se.Fields[fieldAction]),
			Reason:      se.Fields[fieldReason],
			ModeratorID: se.Fields[fieldModeratorID],
			ModeratorIP: se.Fields[fieldModeratorIP],
			CreatedAt:   createdAt,
		})
	}
	return out, nil
}

// Purge drops a location's whole log; entries do not outlive their location.
func (r *Repo) Purge(ctx context.Context, locationID int64) error {
	key := r.key(locationID)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("purge moderation log %s: %w", key, err)
	}
	return nil
}

func (r *Repo) key(locationID int64) string {
	return r.prefix + "moderation:" + strconv.FormatInt(locationID, 10)
}
