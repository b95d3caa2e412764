package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/cartoview/polylabel/pkg/polylabel"
)

// DecodeGeoJSON reads polygon features from GeoJSON input: a bare
// Polygon or MultiPolygon geometry, a Feature, or a FeatureCollection.
// MultiPolygons are split into one Feature per member polygon, since a
// pole is defined per simple polygon.
func DecodeGeoJSON(data []byte) ([]Feature, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, eris.Wrap(err, "ingest: parse geojson")
	}

	switch probe.Type {
	case "FeatureCollection":
		var fc geojson.FeatureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, eris.Wrap(err, "ingest: parse feature collection")
		}
		var features []Feature
		for i, f := range fc.Features {
			fs, err := polygonFeatures(featureName(f, i), f.Geometry)
			if err != nil {
				return nil, err
			}
			features = append(features, fs...)
		}
		return features, nil

	case "Feature":
		var f geojson.Feature
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, eris.Wrap(err, "ingest: parse feature")
		}
		return polygonFeatures(featureName(&f, 0), f.Geometry)

	default:
		var g geom.T
		if err := geojson.Unmarshal(data, &g); err != nil {
			return nil, eris.Wrap(err, "ingest: parse geometry")
		}
		return polygonFeatures("feature-0", g)
	}
}

func featureName(f *geojson.Feature, i int) string {
	if name, ok := f.Properties["name"].(string); ok && name != "" {
		return name
	}
	if f.ID != "" {
		return f.ID
	}
	return fmt.Sprintf("feature-%d", i)
}

func polygonFeatures(name string, g geom.T) ([]Feature, error) {
	switch t := g.(type) {
	case *geom.Polygon:
		return []Feature{{Name: name, Polygon: t}}, nil
	case *geom.MultiPolygon:
		features := make([]Feature, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			f := Feature{Name: name, Polygon: t.Polygon(i)}
			if i > 0 {
				f.Name = fmt.Sprintf("%s/%d", name, i)
			}
			features = append(features, f)
		}
		return features, nil
	default:
		return nil, eris.Errorf("ingest: unsupported geometry type %T", g)
	}
}

// PointCollection encodes computed poles as a GeoJSON FeatureCollection
// of point features. feats and labels correspond by index.
func PointCollection(feats []Feature, labels []polylabel.Label, tolerance float64) ([]byte, error) {
	if len(feats) != len(labels) {
		return nil, eris.Errorf("ingest: %d features but %d labels", len(feats), len(labels))
	}

	fc := geojson.FeatureCollection{}
	for i, l := range labels {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{l.X, l.Y}),
			Properties: map[string]any{
				"name":      feats[i].Name,
				"distance":  l.Distance,
				"tolerance": tolerance,
			},
		})
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: encode point collection")
	}
	return data, nil
}
