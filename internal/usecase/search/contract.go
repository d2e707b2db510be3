package search

import (
	"context"

	"github.com/kailas-cloud/satvach/internal/domain/geo"
	"github.com/kailas-cloud/satvach/internal/domain/location"
	"github.com/kailas-cloud/satvach/internal/domain/search/filter"
)

// Repository defines the storage contract for spatial search.
// Both lookups are served by the same geo index and may over-select;
// the service applies the exact predicate.
type Repository interface {
	RadiusPositions(
		ctx context.Context, center geo.Point, radiusMeters float64, filters filter.Expression,
	) ([]location.Position, error)

	// BoxCandidates also returns the number of index entries scanned before
	// filtering. Fewer than limit means the box is exhausted.
	BoxCandidates(
		ctx context.Context, center geo.Point, widthMeters, heightMeters float64,
		filters filter.Expression, limit int,
	) ([]location.Location, int, error)

	GetMany(ctx context.Context, ids []int64) ([]location.Location, error)
}
