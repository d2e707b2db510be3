package db

// GeoMember is a named point for GEOADD.
type GeoMember struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// GeoRadiusQuery selects members within RadiusMeters of a point, nearest first.
// Count of zero returns every match.
type GeoRadiusQuery struct {
	Key          string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	Count        int
}

// GeoBoxQuery selects members inside an axis-aligned box centered on a point,
// nearest to the center first. Count of zero returns every match.
type GeoBoxQuery struct {
	Key          string
	Latitude     float64
	Longitude    float64
	WidthMeters  float64
	HeightMeters float64
	Count        int
}

// StreamEntry is a single stream record.
type StreamEntry struct {
	ID     string
	Fields map[string]string
}
