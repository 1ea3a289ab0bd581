package catalog

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection returns every located property as a GeoJSON point with
// its headline numbers as properties
func (c *Catalog) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range c.properties {
		if p.Location == nil {
			continue
		}

		f := geojson.NewFeature(orb.Point{p.Location.Longitude, p.Location.Latitude})
		f.ID = p.ID
		f.Properties["address"] = p.Address
		f.Properties["as_is_value"] = p.AsIsValue
		f.Properties["after_repair_value"] = p.AfterRepairValue
		f.Properties["bedrooms"] = p.Bedrooms
		f.Properties["bathrooms"] = p.Bathrooms
		if roi, err := p.PotentialROI(); err == nil {
			f.Properties["potential_roi"] = roi
		}
		fc.Append(f)
	}
	return fc
}
