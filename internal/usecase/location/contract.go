package location

import (
	"context"

	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
	dommod "github.com/kailas-cloud/satvach/internal/domain/moderation"
)

// Repository defines the storage contract for location records.
type Repository interface {
	Insert(ctx context.Context, loc domloc.Location) (domloc.Location, error)
	Get(ctx context.Context, id int64) (domloc.Location, error)
	Update(ctx context.Context, prev, updated domloc.Location) error
	Delete(ctx context.Context, loc domloc.Location) error
	List(ctx context.Context, status domloc.Status, category domloc.Category, skip, limit int) ([]domloc.Location, int, error)
	Count(ctx context.Context, status domloc.Status, category domloc.Category) (int, error)
}

// ModerationLog defines the storage contract for the moderation audit trail.
type ModerationLog interface {
	Append(ctx context.Context, e dommod.Entry) (dommod.Entry, error)
	History(ctx context.Context, locationID int64) ([]dommod.Entry, error)
	Purge(ctx context.Context, locationID int64) error
}
