package chi

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
)

// locationsToFeatureCollection renders locations as GeoJSON point features
// for map clients. Coordinates are [longitude, latitude].
func locationsToFeatureCollection(locs []domloc.Location) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(locs))}
	if len(locs) == 0 {
		return fc
	}

	bounds := geom.NewBounds(geom.XY)
	for i := range locs {
		loc := &locs[i]
		p := loc.Point()
		point := geom.NewPointFlat(geom.XY, []float64{p.Lng, p.Lat})
		bounds.Extend(point)

		props := map[string]any{
			"title":    loc.Title(),
			"category": string(loc.Category()),
			"status":   string(loc.Status()),
		}
		if loc.Address() != "" {
			props["address"] = loc.Address()
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         itoa64(loc.ID()),
			Geometry:   point,
			Properties: props,
		})
	}
	fc.BBox = bounds
	return fc
}
