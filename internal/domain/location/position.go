package location

import "github.com/kailas-cloud/satvach/internal/domain/geo"

// Position is the id and exact point of a stored location.
type Position struct {
	ID    int64
	Point geo.Point
}
