package mode

// Mode is the shape of a spatial query.
type Mode string

// Query shape constants.
const (
	// Radius is a paginated, distance-ordered search around a center.
	Radius Mode = "radius"
	// Viewport returns records inside a rectangle with no ranking.
	Viewport Mode = "viewport"
	Nearby   Mode = "nearby"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Radius || m == Viewport || m == Nearby
}
