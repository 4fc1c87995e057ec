package dashboard

import (
	"github.com/paulmach/orb/geojson"
	"github.com/ppiankov/fossilmap/internal/dataset"
	"github.com/ppiankov/fossilmap/internal/model"
)

// featureCollection adds the selection counts and display options as
// foreign members. matched counts every passing site, located or not.
func featureCollection(sites []model.Site, total int, display Display) *geojson.FeatureCollection {
	fc := dataset.FeatureCollection(sites)
	fc.ExtraMembers = geojson.Properties{
		"matched": len(sites),
		"total":   total,
		"display": display,
	}
	return fc
}
