// Package ingest reads polygon features from shapefiles and GeoJSON and
// writes computed label points back out as GeoJSON.
package ingest

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Feature is one polygon read from an input source, with the display name
// picked from its attributes where available.
type Feature struct {
	Name    string
	Polygon *geom.Polygon
}

// ReadShapefile reads polygon features from a shapefile. nameField selects
// the attribute used as the feature name (case-insensitive); when empty or
// absent the record number is used. Non-polygon and malformed shapes are
// skipped. Multi-part records are split into one Feature per exterior
// ring, with holes attached by ring winding: the shapefile convention is
// clockwise exteriors and counter-clockwise holes.
func ReadShapefile(path, nameField string) ([]Feature, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	nameIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if nameField != "" && strings.EqualFold(name, nameField) {
			nameIdx = i
		}
	}

	var features []Feature
	var skipped int

	for n := 0; reader.Next(); n++ {
		_, shape := reader.Shape()

		poly, ok := shape.(*shp.Polygon)
		if !ok || poly.NumParts == 0 || len(poly.Points) == 0 {
			skipped++
			continue
		}

		name := recordName(reader, nameIdx, n)
		for i, p := range splitPolygon(poly) {
			f := Feature{Name: name, Polygon: p}
			if i > 0 {
				f.Name = fmt.Sprintf("%s/%d", name, i)
			}
			features = append(features, f)
		}
	}

	if skipped > 0 {
		zap.L().Debug("ingest: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return features, nil
}

func recordName(reader *shp.Reader, nameIdx, n int) string {
	if nameIdx >= 0 {
		val := strings.TrimRight(reader.Attribute(nameIdx), "\x00")
		if val = strings.TrimSpace(val); val != "" {
			return val
		}
	}
	return fmt.Sprintf("record-%d", n)
}

// splitPolygon converts a shapefile polygon record into one geom.Polygon
// per exterior ring, grouping each counter-clockwise part as a hole of
// the preceding exterior. A leading hole with no exterior yet is promoted
// to an exterior so malformed records still yield a feature.
func splitPolygon(p *shp.Polygon) []*geom.Polygon {
	var polys []*geom.Polygon
	var current *geom.Polygon

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		if len(flat) < 6 {
			zap.L().Debug("ingest: skipping degenerate polygon part", zap.Int32("part", i))
			continue
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		exterior := ringSignedArea(flat) < 0 // shapefile exteriors wind clockwise

		if exterior || current == nil {
			current = geom.NewPolygon(geom.XY)
			if err := current.Push(ring); err != nil {
				zap.L().Debug("ingest: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
				current = nil
				continue
			}
			polys = append(polys, current)
			continue
		}

		if err := current.Push(ring); err != nil {
			zap.L().Debug("ingest: skipping malformed hole ring", zap.Int32("part", i), zap.Error(err))
		}
	}

	return polys
}

// ringSignedArea returns twice the shoelace area of a flat XY ring;
// negative means clockwise winding.
func ringSignedArea(flat []float64) float64 {
	var area float64
	n := len(flat) / 2
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		ax, ay := flat[2*j], flat[2*j+1]
		bx, by := flat[2*i], flat[2*i+1]
		area += (bx - ax) * (by + ay)
	}
	return -area
}
