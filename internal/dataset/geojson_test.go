package dataset

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/ppiankov/fossilmap/internal/model"
)

func TestFeatureCollection(t *testing.T) {
	sites := []model.Site{
		{Site: "Messel pit", Country: "Germany", Continent: "Europe", Age: "Eocene",
			Location: model.NewPoint(49.9175, 8.7564), Article: "Messel pit"},
		{Site: "Nowhere", Country: "Chile", Age: "Jurassic"},
		{Site: "Burgess Shale", Country: "Canada", Age: "Cambrian",
			Location: model.NewPoint(51.4336, -116.4717)},
	}

	fc := FeatureCollection(sites)
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 located features, got %d", len(fc.Features))
	}

	first := fc.Features[0]
	pt, ok := first.Geometry.(orb.Point)
	if !ok {
		t.Fatalf("expected point geometry, got %T", first.Geometry)
	}
	if pt.Lon() != 8.7564 || pt.Lat() != 49.9175 {
		t.Errorf("expected lon/lat order, got %v", pt)
	}
	if first.Properties.MustString("site") != "Messel pit" {
		t.Errorf("unexpected site property: %v", first.Properties["site"])
	}
	if first.Properties.MustString("article") != "Messel pit" {
		t.Errorf("unexpected article property: %v", first.Properties["article"])
	}
	if _, ok := fc.Features[1].Properties["article"]; ok {
		t.Error("article property should be omitted when unknown")
	}
}
