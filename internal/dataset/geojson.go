package dataset

import (
	"github.com/paulmach/orb/geojson"
	"github.com/ppiankov/fossilmap/internal/model"
)

// FeatureCollection renders the located sites as GeoJSON points; sites
// without a location are left out
func FeatureCollection(sites []model.Site) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range sites {
		if !s.HasLocation() {
			continue
		}
		f := geojson.NewFeature(*s.Location)
		f.Properties["site"] = s.Site
		f.Properties["country"] = s.Country
		f.Properties["continent"] = s.Continent
		f.Properties["age"] = s.Age
		f.Properties["noteworthiness"] = s.Noteworthiness
		if s.Article != "" {
			f.Properties["article"] = s.Article
		}
		fc.Append(f)
	}
	return fc
}
